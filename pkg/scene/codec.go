package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// objectJSON is the wire form of an Object. Field order is fixed, which
// makes the encoding canonical.
type objectJSON struct {
	ID         string          `json:"id"`
	Type       Kind            `json:"type"`
	Role       Role            `json:"role,omitempty"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	ScaleX     float64         `json:"scaleX"`
	ScaleY     float64         `json:"scaleY"`
	Rotation   float64         `json:"angle,omitempty"`
	Fill       string          `json:"fill"`
	Stroke     string          `json:"stroke"`
	StrokeW    float64         `json:"strokeWidth"`
	Opacity    float64         `json:"opacity"`
	Visible    bool            `json:"visible"`
	Selectable bool            `json:"selectable"`
	Evented    bool            `json:"evented"`
	Props      json.RawMessage `json:"props"`
}

// MarshalJSON encodes the object with its shape under "props".
func (o *Object) MarshalJSON() ([]byte, error) {
	if o.Shape == nil {
		return nil, fmt.Errorf("object %s has no shape", o.ID)
	}
	props, err := json.Marshal(o.Shape)
	if err != nil {
		return nil, err
	}
	return json.Marshal(objectJSON{
		ID:         o.ID,
		Type:       o.Shape.Kind(),
		Role:       o.Role,
		X:          o.X,
		Y:          o.Y,
		ScaleX:     o.ScaleX,
		ScaleY:     o.ScaleY,
		Rotation:   o.Rotation,
		Fill:       o.Fill,
		Stroke:     o.Stroke,
		StrokeW:    o.StrokeWidth,
		Opacity:    o.Opacity,
		Visible:    o.Visible,
		Selectable: o.Selectable,
		Evented:    o.Evented,
		Props:      props,
	})
}

// UnmarshalJSON decodes an object written by MarshalJSON. A missing scale
// decodes as 1.
func (o *Object) UnmarshalJSON(data []byte) error {
	var w objectJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("object without id")
	}
	shape, ok := newShape(w.Type)
	if !ok {
		return fmt.Errorf("object %s: unknown type %q", w.ID, w.Type)
	}
	if len(w.Props) > 0 {
		if err := json.Unmarshal(w.Props, shape); err != nil {
			return fmt.Errorf("object %s: %w", w.ID, err)
		}
	}
	if w.ScaleX == 0 {
		w.ScaleX = 1
	}
	if w.ScaleY == 0 {
		w.ScaleY = 1
	}
	*o = Object{
		ID:         w.ID,
		Role:       w.Role,
		X:          w.X,
		Y:          w.Y,
		Transform:  Transform{ScaleX: w.ScaleX, ScaleY: w.ScaleY, Rotation: w.Rotation},
		Style:      Style{Fill: w.Fill, Stroke: w.Stroke, StrokeWidth: w.StrokeW, Opacity: w.Opacity},
		Visible:    w.Visible,
		Selectable: w.Selectable,
		Evented:    w.Evented,
		Shape:      shape,
	}
	return nil
}

// Snapshot encodes the committed objects of s. Grid and preview objects are
// derived state and are left out. Equal scenes give identical bytes.
func Snapshot(s *Scene) []byte {
	objs := s.Committed()
	if objs == nil {
		objs = []*Object{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		// Only a nil shape can fail, which Add never produces.
		panic(fmt.Sprintf("scene: snapshot: %v", err))
	}
	return data
}

// Restore decodes a snapshot into a new scene. Objects are restored as
// committed regardless of any role in the data.
func Restore(data []byte) (*Scene, error) {
	var objs []*Object
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&objs); err != nil {
		return nil, fmt.Errorf("restore scene: %w", err)
	}
	s := NewScene()
	seen := make(map[string]bool, len(objs))
	for _, o := range objs {
		if o == nil {
			continue
		}
		if seen[o.ID] {
			return nil, fmt.Errorf("restore scene: duplicate object id %s", o.ID)
		}
		seen[o.ID] = true
		o.Role = RoleCommitted
		s.Add(o)
	}
	return s, nil
}
