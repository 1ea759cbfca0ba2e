package editor

import (
	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/geom"
	"github.com/matzehuels/vectorstudio/pkg/pen"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Tool is the active pointer tool.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolMove   Tool = "move"
	ToolPath   Tool = "path"
)

// ParseTool validates a tool name.
func ParseTool(s string) (Tool, error) {
	switch t := Tool(s); t {
	case ToolSelect, ToolMove, ToolPath:
		return t, nil
	}
	return "", errors.New(errors.ErrCodeInvalidTool, "unknown tool %q", s)
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetTool switches tools. A path in progress is completed first, as is a
// pending property edit. Choosing the path tool while already drawing also
// completes the current path.
func (e *Editor) SetTool(t Tool) {
	e.flush()
	e.editing = ""
	e.finishPath()
	e.tool = t
	e.notify()
}

// Drawing reports whether a path is being constructed.
func (e *Editor) Drawing() bool { return e.pen.State() == pen.Drawing }

// FinishPath completes the path in progress, if any.
func (e *Editor) FinishPath() {
	e.finishPath()
}

// CancelPath abandons the path in progress, if any.
func (e *Editor) CancelPath() {
	e.applyPen(e.pen.Cancel())
}

// settle closes out transient state before a structural commit: a path in
// progress, then a pending property edit. Each ends as its own history
// entry.
func (e *Editor) settle() {
	e.finishPath()
	e.flush()
}

func (e *Editor) finishPath() {
	if e.pen.State() == pen.Drawing {
		e.applyPen(e.pen.Finish())
	}
}

type drag struct {
	id    string
	last  geom.Point
	moved bool
}

// PointerDown handles a press at canvas point p. Non-finite points are
// ignored by all pointer handlers.
func (e *Editor) PointerDown(p geom.Point) {
	if !scene.Finite(p.X, p.Y) {
		return
	}
	if e.tool == ToolPath {
		if !e.Drawing() {
			e.flush()
		}
		e.applyPen(e.pen.Down(p))
		return
	}

	o, hit := e.scene.HitTest(p)
	switch {
	case !hit:
		e.Deselect()
	case !o.Evented:
		// Locked objects swallow the click.
		return
	default:
		e.Select(o.ID)
		e.drag = &drag{id: o.ID, last: p}
	}
}

// PointerMove handles pointer motion at canvas point p.
func (e *Editor) PointerMove(p geom.Point) {
	if !scene.Finite(p.X, p.Y) {
		return
	}
	if e.tool == ToolPath {
		e.applyPen(e.pen.Move(p))
		return
	}
	if e.drag == nil {
		return
	}
	o, ok := e.scene.Get(e.drag.id)
	if !ok {
		e.drag = nil
		return
	}
	d := p.Sub(e.drag.last)
	if d == (geom.Point{}) {
		return
	}
	if !o.Translate(d.X, d.Y) {
		return
	}
	e.drag.last = p
	e.drag.moved = true
	e.notify()
}

// PointerUp handles a release at canvas point p. A drag that moved its
// object commits once.
func (e *Editor) PointerUp(p geom.Point) {
	if !scene.Finite(p.X, p.Y) {
		return
	}
	if e.tool == ToolPath {
		e.applyPen(e.pen.Up(p))
		return
	}
	if e.drag == nil {
		return
	}
	e.PointerMove(p)
	moved := e.drag.moved
	e.drag = nil
	if moved {
		e.flush()
		e.commit("move")
	}
}

// DoubleClick enters text editing on an interactive textbox under p.
func (e *Editor) DoubleClick(p geom.Point) {
	if e.tool == ToolPath {
		return
	}
	o, ok := e.scene.HitTest(p)
	if !ok || !o.Evented || o.Kind() != scene.KindTextbox {
		return
	}
	e.Select(o.ID)
	e.editing = o.ID
	e.notify()
}

// applyPen carries out a path machine result on the scene.
func (e *Editor) applyPen(r pen.Result) {
	switch r.Action {
	case pen.None:
		return

	case pen.Preview:
		e.removePreview()
		if len(r.Points) >= 2 {
			o := scene.NewPath(r.Points, false, e.style())
			o.Role = scene.RolePreview
			o.Fill = scene.Transparent
			o.SetLocked(true)
			e.scene.Add(o)
			e.preview = o.ID
		}
		e.notify()

	case pen.Materialize:
		e.removePreview()
		o := e.placePath(r.Points, false)
		e.layers.Sync(e.scene)
		e.selectQuiet(o.ID)
		e.notify()

	case pen.Commit:
		e.removePreview()
		o := e.placePath(r.Points, r.Closed)
		e.drawing = ""
		e.selectQuiet(o.ID)
		e.tool = ToolSelect
		e.commit("path")

	case pen.Discard:
		e.removePreview()
		if e.drawing != "" {
			e.scene.Remove(e.drawing)
			if e.selected == e.drawing {
				e.deselect()
			}
			e.drawing = ""
		}
		e.layers.Sync(e.scene)
		e.notify()
	}
}

// placePath replaces the in-progress path object, keeping its ID, stacking
// position and layer flags.
func (e *Editor) placePath(pts []geom.Point, closed bool) *scene.Object {
	o := scene.NewPath(pts, closed, e.style())
	if e.drawing == "" {
		e.scene.Add(o)
		e.drawing = o.ID
		return o
	}
	idx := e.scene.Index(e.drawing)
	if prev, ok := e.scene.Remove(e.drawing); ok {
		o.ID = prev.ID
		o.Visible, o.Selectable, o.Evented = prev.Visible, prev.Selectable, prev.Evented
	}
	e.scene.Add(o)
	if idx >= 0 {
		e.scene.Move(o.ID, idx)
	}
	e.drawing = o.ID
	return o
}

func (e *Editor) removePreview() {
	if e.preview != "" {
		e.scene.Remove(e.preview)
		e.preview = ""
	}
}
