package editor

import (
	"math"

	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Property ranges of the panel.
const (
	MinStrokeWidth = 0
	MaxStrokeWidth = 20
	MinFontSize    = 8
	MaxFontSize    = 72
)

// Panel is the property panel. When Active is false no object is bound and
// the values are the defaults for new objects.
type Panel struct {
	Fill           string  `json:"fill"`
	Stroke         string  `json:"stroke"`
	StrokeWidth    float64 `json:"strokeWidth"`
	FontSize       float64 `json:"fontSize"`
	OpacityPercent float64 `json:"opacity"`
	Active         bool    `json:"active"`
	IsText         bool    `json:"isText"`
}

// Panel returns the current panel values.
func (e *Editor) Panel() Panel { return e.panel }

// Selection returns the selected object ID.
func (e *Editor) Selection() (string, bool) {
	return e.selected, e.selected != ""
}

// Select makes id the selection and loads its properties into the panel.
// Unknown, non-committed and locked objects are ignored. Selecting another
// object completes a path in progress.
func (e *Editor) Select(id string) bool {
	o, ok := e.scene.Get(id)
	if !ok || o.Role != scene.RoleCommitted || !o.Selectable {
		return false
	}
	if id != e.selected {
		e.finishPath()
		e.flush()
		if e.editing != id {
			e.editing = ""
		}
	}
	e.selectQuiet(id)
	e.notify()
	return true
}

// Deselect clears the selection and makes the panel inert.
func (e *Editor) Deselect() {
	if e.selected == "" {
		return
	}
	e.flush()
	e.deselect()
	e.notify()
}

func (e *Editor) selectQuiet(id string) {
	if o, ok := e.scene.Get(id); ok {
		e.selected = id
		e.loadPanel(o)
	}
}

func (e *Editor) deselect() {
	e.selected = ""
	e.editing = ""
	e.panel.Active = false
	e.panel.IsText = false
}

// loadPanel copies o's paint into the panel.
func (e *Editor) loadPanel(o *scene.Object) {
	e.panel.Active = true
	e.panel.Fill = o.Fill
	e.panel.Stroke = o.Stroke
	e.panel.StrokeWidth = o.StrokeWidth
	e.panel.OpacityPercent = math.Round(o.Opacity * 100)
	e.panel.IsText = false
	if t, ok := o.Shape.(*scene.Textbox); ok {
		e.panel.IsText = true
		e.panel.FontSize = t.FontSize
	}
}

// active returns the object bound to the panel.
func (e *Editor) active() (*scene.Object, bool) {
	if !e.panel.Active {
		return nil, false
	}
	return e.scene.Get(e.selected)
}

// style returns the panel paint for new objects.
func (e *Editor) style() scene.Style {
	return scene.Style{
		Fill:        e.panel.Fill,
		Stroke:      e.panel.Stroke,
		StrokeWidth: e.panel.StrokeWidth,
		Opacity:     e.panel.OpacityPercent / 100,
	}
}

// SetFill sets the fill color of the panel and the bound object. The edit
// is pending until EndPropertyEdit or the next commit.
func (e *Editor) SetFill(c string) error {
	n, err := scene.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.panel.Fill = n
	e.writeThrough(func(o *scene.Object) bool {
		if o.Fill == n {
			return false
		}
		o.Fill = n
		return true
	})
	return nil
}

// SetStroke sets the stroke color.
func (e *Editor) SetStroke(c string) error {
	n, err := scene.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.panel.Stroke = n
	e.writeThrough(func(o *scene.Object) bool {
		if o.Stroke == n {
			return false
		}
		o.Stroke = n
		return true
	})
	return nil
}

// SetStrokeWidth sets the stroke width, clamped to 0-20.
func (e *Editor) SetStrokeWidth(w float64) {
	w = clamp(w, MinStrokeWidth, MaxStrokeWidth)
	e.panel.StrokeWidth = w
	e.writeThrough(func(o *scene.Object) bool {
		if o.StrokeWidth == w {
			return false
		}
		o.StrokeWidth = w
		return true
	})
}

// SetOpacityPercent sets opacity in display units, clamped to 0-100.
func (e *Editor) SetOpacityPercent(pct float64) {
	pct = clamp(pct, 0, 100)
	e.panel.OpacityPercent = pct
	e.writeThrough(func(o *scene.Object) bool {
		if o.Opacity == pct/100 {
			return false
		}
		o.Opacity = pct / 100
		return true
	})
}

// SetFontSize sets the font size, clamped to 8-72. Only textboxes change.
func (e *Editor) SetFontSize(size float64) {
	size = clamp(size, MinFontSize, MaxFontSize)
	e.panel.FontSize = size
	e.writeThrough(func(o *scene.Object) bool {
		t, ok := o.Shape.(*scene.Textbox)
		if !ok || t.FontSize == size {
			return false
		}
		t.FontSize = size
		return true
	})
}

// EndPropertyEdit commits the pending property edit as one history entry,
// as on blur or the end of a slider drag.
func (e *Editor) EndPropertyEdit() {
	e.flush()
}

// PendingEdit reports whether a property edit awaits commit.
func (e *Editor) PendingEdit() bool { return e.pending }

func (e *Editor) writeThrough(apply func(*scene.Object) bool) {
	if o, ok := e.active(); ok && apply(o) {
		e.pending = true
	}
	e.notify()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
