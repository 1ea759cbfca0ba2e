package editor

import (
	"testing"

	"github.com/matzehuels/vectorstudio/pkg/geom"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

func gridLines(e *Editor) int {
	n := 0
	for _, o := range e.Scene().Objects() {
		if o.Role == scene.RoleGrid {
			n++
		}
	}
	return n
}

func TestGridRegeneration(t *testing.T) {
	e := newTestEditor(t)
	if err := e.SetGrid(Grid{Show: true, Size: 50}); err != nil {
		t.Fatal(err)
	}
	// 800x600: 17 vertical + 13 horizontal.
	if got := gridLines(e); got != 30 {
		t.Errorf("grid lines = %d, want 30", got)
	}

	e.AddRect()
	if err := e.SetCanvasSize(200, 100); err != nil {
		t.Fatal(err)
	}
	if got := gridLines(e); got != 5+3 {
		t.Errorf("grid lines after resize = %d, want 8", got)
	}
	objs := e.Scene().Objects()
	if objs[len(objs)-1].Role != scene.RoleCommitted {
		t.Error("grid must stay behind committed objects")
	}

	e.ToggleGrid()
	if gridLines(e) != 0 {
		t.Error("hidden grid should have no lines")
	}
	if len(e.Layers()) != 1 {
		t.Error("grid lines must not become layers")
	}
}

func TestGridSurvivesUndo(t *testing.T) {
	e := newTestEditor(t)
	_ = e.SetGrid(Grid{Show: true, Size: 100})
	want := gridLines(e)
	e.AddRect()
	e.Undo()
	if got := gridLines(e); got != want {
		t.Errorf("grid lines after undo = %d, want %d", got, want)
	}
	if snap := e.Snapshot(); string(snap) != "[]" {
		t.Errorf("snapshot = %s, want grid excluded", snap)
	}
}

func TestSetGridValidation(t *testing.T) {
	e := newTestEditor(t)
	for _, size := range []int{0, 3, 12, 55} {
		if err := e.SetGrid(Grid{Show: true, Size: size}); err == nil {
			t.Errorf("SetGrid(%d) should fail", size)
		}
	}
}

func TestSetCanvasSizeValidation(t *testing.T) {
	e := newTestEditor(t)
	for _, wh := range [][2]int{{99, 500}, {500, 3001}, {0, 0}} {
		if err := e.SetCanvasSize(wh[0], wh[1]); err == nil {
			t.Errorf("SetCanvasSize(%v) should fail", wh)
		}
	}
	if w, h := e.CanvasSize(); w != 800 || h != 600 {
		t.Errorf("size = %dx%d, want unchanged", w, h)
	}
}

func TestZoom(t *testing.T) {
	e := newTestEditor(t)
	tests := []struct{ in, want int }{{5, 10}, {50, 50}, {250, 200}}
	for _, tt := range tests {
		if got := e.SetZoom(tt.in); got != tt.want {
			t.Errorf("SetZoom(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	e.SetZoom(50)
	if got := e.ScreenToCanvas(geom.Pt(100, 50)); got != geom.Pt(200, 100) {
		t.Errorf("ScreenToCanvas = %v", got)
	}
	if got := e.CanvasToScreen(geom.Pt(200, 100)); got != geom.Pt(100, 50) {
		t.Errorf("CanvasToScreen = %v", got)
	}
	if e.CanUndo() {
		t.Error("zoom must not enter history")
	}
}
