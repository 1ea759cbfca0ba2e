package editor

import (
	"github.com/matzehuels/vectorstudio/pkg/config"
	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/geom"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// GridColor is the stroke of grid lines.
const GridColor = "#cccccc"

// Zoom bounds in percent.
const (
	MinZoom = 10
	MaxZoom = 200
)

// Grid is the alignment grid setting.
type Grid struct {
	Show bool `json:"show"`
	Size int  `json:"size"`
}

// Grid returns the grid setting.
func (e *Editor) Grid() Grid { return e.grid }

// SetGrid changes the grid and redraws it. Size must be a multiple of 5
// between 5 and 50.
func (e *Editor) SetGrid(g Grid) error {
	if g.Size < config.MinGridSize || g.Size > config.MaxGridSize || g.Size%config.GridSizeStep != 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"grid size %d must be a multiple of %d in %d-%d", g.Size, config.GridSizeStep, config.MinGridSize, config.MaxGridSize)
	}
	e.grid = g
	e.regenerateGrid()
	e.notify()
	return nil
}

// ToggleGrid flips grid visibility.
func (e *Editor) ToggleGrid() {
	e.grid.Show = !e.grid.Show
	e.regenerateGrid()
	e.notify()
}

// CanvasSize returns the drawing surface size in pixels.
func (e *Editor) CanvasSize() (width, height int) { return e.width, e.height }

// SetCanvasSize resizes the drawing surface. Objects keep their
// coordinates; the grid is redrawn.
func (e *Editor) SetCanvasSize(width, height int) error {
	if err := scene.ValidateCanvasSize(width, height); err != nil {
		return err
	}
	e.width, e.height = width, height
	e.regenerateGrid()
	e.notify()
	return nil
}

// Background returns the canvas background color.
func (e *Editor) Background() string { return e.background }

// SetBackground sets the canvas background color.
func (e *Editor) SetBackground(c string) error {
	n, err := scene.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.background = n
	e.notify()
	return nil
}

// regenerateGrid removes every grid line and, when shown, draws vertical
// lines at 0, size, 2*size ... up to the width and horizontal lines likewise
// up to the height.
func (e *Editor) regenerateGrid() {
	e.scene.RemoveRole(scene.RoleGrid)
	if !e.grid.Show || e.grid.Size <= 0 {
		return
	}
	w, h := float64(e.width), float64(e.height)
	step := float64(e.grid.Size)
	for x := 0.0; x <= w; x += step {
		e.scene.Add(gridLine(x, 0, x, h))
	}
	for y := 0.0; y <= h; y += step {
		e.scene.Add(gridLine(0, y, w, y))
	}
}

func gridLine(x1, y1, x2, y2 float64) *scene.Object {
	o := scene.New(&scene.GridLine{X1: x1, Y1: y1, X2: x2, Y2: y2}, 0, 0,
		scene.Style{Stroke: GridColor, StrokeWidth: 1, Opacity: 1})
	o.Role = scene.RoleGrid
	o.SetLocked(true)
	return o
}

// Zoom returns the view zoom in percent.
func (e *Editor) Zoom() int { return e.zoom }

// SetZoom sets the view zoom, clamped to 10-200 percent, and returns the
// applied value. Zoom is a view setting and does not enter history.
func (e *Editor) SetZoom(pct int) int {
	e.zoom = max(MinZoom, min(MaxZoom, pct))
	e.notify()
	return e.zoom
}

// ScreenToCanvas maps a point on the zoomed view to canvas coordinates.
func (e *Editor) ScreenToCanvas(p geom.Point) geom.Point {
	f := float64(e.zoom) / 100
	return geom.Pt(p.X/f, p.Y/f)
}

// CanvasToScreen maps canvas coordinates to the zoomed view.
func (e *Editor) CanvasToScreen(p geom.Point) geom.Point {
	f := float64(e.zoom) / 100
	return geom.Pt(p.X*f, p.Y*f)
}
