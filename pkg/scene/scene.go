package scene

import "github.com/matzehuels/vectorstudio/pkg/geom"

// Scene is the ordered object list of a document. Grid objects always come
// first. A Scene is not safe for concurrent use.
type Scene struct {
	objects []*Object
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add inserts o. Grid objects go behind every non-grid object; all other
// objects go on top.
func (s *Scene) Add(o *Object) {
	if o.Role != RoleGrid {
		s.objects = append(s.objects, o)
		return
	}
	i := s.gridCount()
	s.objects = append(s.objects, nil)
	copy(s.objects[i+1:], s.objects[i:])
	s.objects[i] = o
}

// Remove deletes the object with the given ID and returns it.
func (s *Scene) Remove(id string) (*Object, bool) {
	i := s.Index(id)
	if i < 0 {
		return nil, false
	}
	o := s.objects[i]
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	return o, true
}

// RemoveRole deletes every object with role r and returns how many it removed.
func (s *Scene) RemoveRole(r Role) int {
	kept := s.objects[:0]
	for _, o := range s.objects {
		if o.Role != r {
			kept = append(kept, o)
		}
	}
	n := len(s.objects) - len(kept)
	for i := len(kept); i < len(s.objects); i++ {
		s.objects[i] = nil
	}
	s.objects = kept
	return n
}

// Get returns the object with the given ID.
func (s *Scene) Get(id string) (*Object, bool) {
	if i := s.Index(id); i >= 0 {
		return s.objects[i], true
	}
	return nil, false
}

// Index returns the render position of id, or -1.
func (s *Scene) Index(id string) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of objects of every role.
func (s *Scene) Len() int { return len(s.objects) }

// Objects returns all objects in render order. The slice is a copy; the
// objects are shared.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Committed returns the committed objects in render order.
func (s *Scene) Committed() []*Object {
	return s.withRole(RoleCommitted)
}

// withRole returns the objects with role r in render order.
func (s *Scene) withRole(r Role) []*Object {
	var out []*Object
	for _, o := range s.objects {
		if o.Role == r {
			out = append(out, o)
		}
	}
	return out
}

// Duplicate appends a clone of id offset by (offset, offset). It fails if
// the offset position is not finite.
func (s *Scene) Duplicate(id string, offset float64) (*Object, bool) {
	o, ok := s.Get(id)
	if !ok {
		return nil, false
	}
	c := o.Clone()
	if !c.Translate(offset, offset) {
		return nil, false
	}
	s.Add(c)
	return c, true
}

// HitTest returns the topmost visible committed object containing p.
// Locked objects are reported too; callers decide whether they react.
func (s *Scene) HitTest(p geom.Point) (*Object, bool) {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if o.Role == RoleCommitted && o.Visible && o.Contains(p) {
			return o, true
		}
	}
	return nil, false
}

// Move places id at render position index, clamped so that it stays in
// front of the grid. It reports whether the order changed.
func (s *Scene) Move(id string, index int) bool {
	from := s.Index(id)
	if from < 0 || s.objects[from].Role == RoleGrid {
		return false
	}
	lo, hi := s.gridCount(), len(s.objects)-1
	index = max(lo, min(index, hi))
	if index == from {
		return false
	}
	o := s.objects[from]
	if from < index {
		copy(s.objects[from:index], s.objects[from+1:index+1])
	} else {
		copy(s.objects[index+1:from+1], s.objects[index:from])
	}
	s.objects[index] = o
	return true
}

// BringForward moves id one step toward the top.
func (s *Scene) BringForward(id string) bool { return s.Move(id, s.Index(id)+1) }

// SendBackward moves id one step toward the back, never behind the grid.
func (s *Scene) SendBackward(id string) bool {
	i := s.Index(id)
	if i < 0 {
		return false
	}
	return s.Move(id, i-1)
}

// BringToFront moves id to the top.
func (s *Scene) BringToFront(id string) bool { return s.Move(id, len(s.objects)-1) }

// SendToBack moves id directly in front of the grid.
func (s *Scene) SendToBack(id string) bool { return s.Move(id, 0) }

func (s *Scene) gridCount() int {
	n := 0
	for n < len(s.objects) && s.objects[n].Role == RoleGrid {
		n++
	}
	return n
}
