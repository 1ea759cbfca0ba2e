package editor

import (
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Placement of inserted objects.
const (
	insertX       = 100
	insertY       = 100
	defaultSide   = 100
	defaultRadius = 50
	textWidth     = 200
	imageScale    = 0.5

	// DefaultText is the content of a new textbox.
	DefaultText = "Edit this text"
)

// insert adds o on top, selects it and commits once.
func (e *Editor) insert(o *scene.Object, op string) *scene.Object {
	e.settle()
	e.scene.Add(o)
	e.editing = ""
	e.selectQuiet(o.ID)
	e.commit(op)
	return o
}

// AddRect inserts a 100x100 rectangle at (100,100) with the panel style.
func (e *Editor) AddRect() *scene.Object {
	return e.insert(scene.New(&scene.Rect{Width: defaultSide, Height: defaultSide}, insertX, insertY, e.style()), "add")
}

// AddEllipse inserts a circle of radius 50 at (100,100).
func (e *Editor) AddEllipse() *scene.Object {
	return e.insert(scene.New(&scene.Ellipse{RX: defaultRadius, RY: defaultRadius}, insertX, insertY, e.style()), "add")
}

// AddText inserts a textbox and enters text editing on it. Text is filled
// with the panel fill and has no stroke.
func (e *Editor) AddText() *scene.Object {
	st := e.style()
	st.Stroke = ""
	st.StrokeWidth = 0
	tb := &scene.Textbox{
		Text:       DefaultText,
		FontFamily: e.fontFamily,
		FontSize:   e.panel.FontSize,
		Width:      textWidth,
	}
	o := e.insert(scene.New(tb, insertX, insertY, st), "add")
	e.editing = o.ID
	e.notify()
	return o
}

// AddImage inserts a decoded image at (100,100), scaled by one half.
func (e *Editor) AddImage(img *scene.Image) *scene.Object {
	o := scene.New(img, insertX, insertY, scene.Style{Opacity: e.panel.OpacityPercent / 100})
	o.ScaleX, o.ScaleY = imageScale, imageScale
	return e.insert(o, "image")
}

// DeleteSelected removes the selected object and its layer. Without a
// selection it does nothing.
func (e *Editor) DeleteSelected() bool {
	if e.selected == "" {
		return false
	}
	id := e.selected
	if id == e.drawing {
		e.applyPen(e.pen.Cancel())
		return true
	}
	e.settle()
	if _, ok := e.scene.Remove(id); !ok {
		return false
	}
	if e.selected == id {
		e.deselect()
	}
	e.commit("delete")
	return true
}

// DuplicateSelected clones the selection offset down and right, selects
// the clone and returns it.
func (e *Editor) DuplicateSelected() (*scene.Object, bool) {
	if e.selected == "" {
		return nil, false
	}
	e.settle()
	c, ok := e.scene.Duplicate(e.selected, e.dupOffset)
	if !ok {
		return nil, false
	}
	c.SetLocked(false)
	e.editing = ""
	e.selectQuiet(c.ID)
	e.commit("duplicate")
	return c, true
}

// BringForward moves the selection one step up.
func (e *Editor) BringForward() bool { return e.reorder(e.scene.BringForward) }

// SendBackward moves the selection one step down.
func (e *Editor) SendBackward() bool { return e.reorder(e.scene.SendBackward) }

// BringToFront moves the selection to the top.
func (e *Editor) BringToFront() bool { return e.reorder(e.scene.BringToFront) }

// SendToBack moves the selection to the bottom, in front of the grid.
func (e *Editor) SendToBack() bool { return e.reorder(e.scene.SendToBack) }

func (e *Editor) reorder(op func(string) bool) bool {
	if e.selected == "" || e.Drawing() {
		return false
	}
	e.flush()
	if !op(e.selected) {
		return false
	}
	e.commit("reorder")
	return true
}

// MoveObject places an object at (x, y), as after a host-side drag.
// Non-finite positions are rejected.
func (e *Editor) MoveObject(id string, x, y float64) bool {
	if !scene.Finite(x, y) {
		return false
	}
	o, ok := e.manipulable(id)
	if !ok {
		return false
	}
	o.X, o.Y = x, y
	e.commit("move")
	return true
}

// SetTransform replaces an object's scale and rotation, as after a
// host-side resize or rotate. Zero or non-finite values are rejected.
func (e *Editor) SetTransform(id string, t scene.Transform) bool {
	if t.ScaleX == 0 || t.ScaleY == 0 || !scene.Finite(t.ScaleX, t.ScaleY, t.Rotation) {
		return false
	}
	o, ok := e.manipulable(id)
	if !ok {
		return false
	}
	o.Transform = t
	e.commit("transform")
	return true
}

// manipulable settles pending work and returns the unlocked committed
// object id. The lookup happens after settling because finishing a path
// replaces its object.
func (e *Editor) manipulable(id string) (*scene.Object, bool) {
	if o, ok := e.scene.Get(id); !ok || o.Role != scene.RoleCommitted || o.Locked() {
		return nil, false
	}
	e.settle()
	o, ok := e.scene.Get(id)
	return o, ok
}

// EditingText returns the textbox in text-edit mode.
func (e *Editor) EditingText() (string, bool) {
	return e.editing, e.editing != ""
}

// SetText replaces the content of the textbox being edited and commits.
func (e *Editor) SetText(content string) bool {
	o, ok := e.scene.Get(e.editing)
	if !ok {
		return false
	}
	tb, ok := o.Shape.(*scene.Textbox)
	if !ok {
		return false
	}
	e.settle()
	tb.Text = content
	e.commit("text")
	return true
}

// EndTextEditing leaves text-edit mode.
func (e *Editor) EndTextEditing() {
	if e.editing != "" {
		e.editing = ""
		e.notify()
	}
}
