// Package layers keeps the layer panel's view of a scene.
//
// Every committed object has exactly one [Layer], listed in scene order.
// Layers hold no state of their own besides a display name: visibility and
// lock flags are read from, and written to, the object they point at, so the
// two can never disagree. Names and layer IDs are remembered per object ID,
// including for objects that have since been removed, so undoing a delete
// brings back the same layer.
package layers

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Layer is one entry of the layer panel. Object is shared with the scene.
type Layer struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	ObjectID string        `json:"objectId"`
	Kind     scene.Kind    `json:"kind"`
	Object   *scene.Object `json:"-"`
	Visible  bool          `json:"visible"`
	Locked   bool          `json:"locked"`
}

type identity struct {
	id   string
	name string
}

// Registry is the ordered layer list. It is not safe for concurrent use.
type Registry struct {
	list    []*Layer
	known   map[string]identity // object ID -> layer identity
	byLayer map[string]string   // layer ID -> object ID
	next    int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		known:   make(map[string]identity),
		byLayer: make(map[string]string),
	}
}

// Sync rebuilds the list from the committed objects of s in scene order.
// Objects seen before keep their layer ID and name; new objects get a
// "Layer N" name from a counter that never goes backwards.
func (r *Registry) Sync(s *scene.Scene) {
	objs := s.Committed()
	list := make([]*Layer, 0, len(objs))
	for _, o := range objs {
		id, ok := r.known[o.ID]
		if !ok {
			r.next++
			id = identity{id: uuid.NewString(), name: fmt.Sprintf("Layer %d", r.next)}
			r.known[o.ID] = id
			r.byLayer[id.id] = o.ID
		}
		list = append(list, &Layer{
			ID:       id.id,
			Name:     id.name,
			ObjectID: o.ID,
			Kind:     o.Kind(),
			Object:   o,
			Visible:  o.Visible,
			Locked:   o.Locked(),
		})
	}
	r.list = list
}

// List returns a copy of the layers in scene order, bottom first.
func (r *Registry) List() []Layer {
	out := make([]Layer, len(r.list))
	for i, l := range r.list {
		out[i] = *l
	}
	return out
}

// Len returns the number of layers.
func (r *Registry) Len() int { return len(r.list) }

// Get returns the layer with the given ID.
func (r *Registry) Get(id string) (Layer, bool) {
	if l := r.find(id); l != nil {
		return *l, true
	}
	return Layer{}, false
}

// ByObject returns the layer mirroring the given object.
func (r *Registry) ByObject(objectID string) (Layer, bool) {
	for _, l := range r.list {
		if l.Object.ID == objectID {
			return *l, true
		}
	}
	return Layer{}, false
}

// ToggleVisibility flips the layer's visibility and the object's.
func (r *Registry) ToggleVisibility(id string) (Layer, bool) {
	l := r.find(id)
	if l == nil {
		return Layer{}, false
	}
	l.Visible = !l.Visible
	l.Object.Visible = l.Visible
	return *l, true
}

// ToggleLock flips the lock flag. A locked object is neither selectable
// nor evented.
func (r *Registry) ToggleLock(id string) (Layer, bool) {
	l := r.find(id)
	if l == nil {
		return Layer{}, false
	}
	l.Locked = !l.Locked
	l.Object.SetLocked(l.Locked)
	return *l, true
}

// Rename sets the display name. An empty name is rejected.
func (r *Registry) Rename(id, name string) (Layer, bool) {
	l := r.find(id)
	if l == nil || name == "" {
		return Layer{}, false
	}
	l.Name = name
	r.known[l.Object.ID] = identity{id: l.ID, name: name}
	return *l, true
}

// Names returns the remembered layer names keyed by object ID, for objects
// currently listed. Hosts persist it alongside a document.
func (r *Registry) Names() map[string]string {
	out := make(map[string]string, len(r.list))
	for _, l := range r.list {
		out[l.Object.ID] = l.Name
	}
	return out
}

// Adopt seeds remembered names for objects not yet seen, such as those of
// a freshly loaded document. It does not change the current list.
func (r *Registry) Adopt(names map[string]string) {
	for objectID, name := range names {
		if _, ok := r.known[objectID]; ok || name == "" {
			continue
		}
		id := identity{id: uuid.NewString(), name: name}
		r.known[objectID] = id
		r.byLayer[id.id] = objectID
	}
}

func (r *Registry) find(id string) *Layer {
	objectID, ok := r.byLayer[id]
	if !ok {
		return nil
	}
	for _, l := range r.list {
		if l.Object.ID == objectID {
			return l
		}
	}
	return nil
}
