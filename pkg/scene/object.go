package scene

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/vectorstudio/pkg/geom"
)

// Role classifies an object by how the editor treats it.
type Role int

const (
	// RoleCommitted objects are user content: layered, persisted, exported.
	RoleCommitted Role = iota
	// RolePreview marks the transient path skeleton shown while drawing.
	RolePreview
	// RoleGrid marks alignment grid lines.
	RoleGrid
)

var roleNames = [...]string{"committed", "preview", "grid"}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(roleNames) {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(b []byte) error {
	for i, n := range roleNames {
		if n == string(b) {
			*r = Role(i)
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", b)
}

// Transform holds the scale and rotation applied about an object's position.
// Rotation is in degrees, clockwise on screen.
type Transform struct {
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
	Rotation float64 `json:"angle,omitempty"`
}

// Identity is the transform of a freshly created object.
var Identity = Transform{ScaleX: 1, ScaleY: 1}

// Apply maps a point from object-local space to offsets from the position.
func (t Transform) Apply(p geom.Point) geom.Point {
	return geom.Pt(p.X*t.ScaleX, p.Y*t.ScaleY).Rotate(t.Rotation)
}

// Invert maps an offset from the position back to object-local space.
// ok is false for a degenerate (zero) scale.
func (t Transform) Invert(p geom.Point) (geom.Point, bool) {
	if t.ScaleX == 0 || t.ScaleY == 0 {
		return geom.Point{}, false
	}
	q := p.Rotate(-t.Rotation)
	return geom.Pt(q.X/t.ScaleX, q.Y/t.ScaleY), true
}

// Style is the paint applied to an object. Fill may be empty or
// "transparent" for no fill. Opacity is 0.0 to 1.0.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// DefaultStyle matches the property panel's initial values.
var DefaultStyle = Style{
	Fill:        "#ffffff",
	Stroke:      "#000000",
	StrokeWidth: 1,
	Opacity:     1,
}

// Object is one drawable element of a scene.
type Object struct {
	ID   string
	Role Role

	// X and Y are the position: the top-left of the untransformed shape.
	X, Y float64

	Transform
	Style

	Visible    bool
	Selectable bool
	Evented    bool

	Shape Shape
}

// NewID returns a fresh object identifier.
func NewID() string { return uuid.NewString() }

// New creates a visible, interactive, committed object at (x, y).
func New(shape Shape, x, y float64, style Style) *Object {
	return &Object{
		ID:         NewID(),
		Role:       RoleCommitted,
		X:          x,
		Y:          y,
		Transform:  Identity,
		Style:      style,
		Visible:    true,
		Selectable: true,
		Evented:    true,
		Shape:      shape,
	}
}

// Position returns (X, Y) as a point.
func (o *Object) Position() geom.Point { return geom.Pt(o.X, o.Y) }

// Kind returns the shape kind.
func (o *Object) Kind() Kind {
	if o.Shape == nil {
		return ""
	}
	return o.Shape.Kind()
}

// Locked reports whether the object is excluded from interaction.
func (o *Object) Locked() bool { return !o.Selectable && !o.Evented }

// SetLocked sets both interaction flags from a lock state.
func (o *Object) SetLocked(locked bool) {
	o.Selectable = !locked
	o.Evented = !locked
}

// Copy returns a deep copy that keeps the identifier.
func (o *Object) Copy() *Object {
	c := *o
	if o.Shape != nil {
		c.Shape = o.Shape.clone()
	}
	return &c
}

// Clone returns a deep copy with a fresh identifier.
func (o *Object) Clone() *Object {
	c := o.Copy()
	c.ID = NewID()
	return c
}

// Bounds returns the axis-aligned bounding box in canvas coordinates,
// taking scale and rotation into account. Stroke width is not included.
func (o *Object) Bounds() geom.Rect {
	if o.Shape == nil {
		return geom.Rect{}
	}
	local := o.Shape.bounds()
	pos := o.Position()
	var pts [4]geom.Point
	for i, c := range local.Corners() {
		pts[i] = o.Transform.Apply(c).Add(pos)
	}
	return geom.Bound(pts[:]...)
}

// Contains reports whether p, in canvas coordinates, hits the object.
// Half the stroke width counts as part of the shape.
func (o *Object) Contains(p geom.Point) bool {
	if o.Shape == nil {
		return false
	}
	local, ok := o.Transform.Invert(p.Sub(o.Position()))
	if !ok {
		return false
	}
	return o.Shape.contains(local, o.StrokeWidth/2)
}

// Translate moves the object by (dx, dy). A move that would leave the
// position non-finite is refused.
func (o *Object) Translate(dx, dy float64) bool {
	x, y := o.X+dx, o.Y+dy
	if !Finite(x, y) {
		return false
	}
	o.X, o.Y = x, y
	return true
}

// Finite reports whether every value is neither infinite nor NaN. Snapshots
// cannot encode anything else.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
