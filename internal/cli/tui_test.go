package cli

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

func discardLogger() *log.Logger { return log.New(io.Discard) }

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m and returns the resulting model.
func press(t *testing.T, m LayerPanelModel, keys ...string) LayerPanelModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(LayerPanelModel)
	}
	return m
}

// newPanel returns a panel over a rect (bottom) and an ellipse (top).
func newPanel(t *testing.T) (LayerPanelModel, *[]*scene.Document) {
	t.Helper()
	ed := editor.New(editor.WithLogger(discardLogger()))
	ed.AddRect()
	ed.AddEllipse()
	var saved []*scene.Document
	m := NewLayerPanelModel(ed, func(d *scene.Document) error {
		saved = append(saved, d)
		return nil
	})
	return m, &saved
}

func TestLayerPanelListsTopFirst(t *testing.T) {
	m, _ := newPanel(t)
	rows := m.rows()
	if len(rows) != 2 || rows[0].Kind != scene.KindEllipse || rows[1].Kind != scene.KindRect {
		t.Fatalf("rows = %+v", rows)
	}
	view := m.View()
	if strings.Index(view, "Layer 2") > strings.Index(view, "Layer 1") {
		t.Error("top layer should be drawn first")
	}
}

func TestLayerPanelNavigation(t *testing.T) {
	m, _ := newPanel(t)
	m = press(t, m, "down", "down", "down")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.Cursor)
	}
	m = press(t, m, "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
}

func TestLayerPanelToggles(t *testing.T) {
	m, _ := newPanel(t)
	m = press(t, m, "v")
	if m.rows()[0].Visible || !m.Dirty {
		t.Error("v should hide the top layer and mark the panel dirty")
	}
	m = press(t, m, "j", "l")
	if !m.rows()[1].Locked {
		t.Error("l should lock the bottom layer")
	}
	rect := m.rows()[1].ObjectID
	m = press(t, m, "enter")
	if sel, _ := m.Editor.Selection(); sel == rect {
		t.Error("locked layer must not be selectable")
	}
	m = press(t, m, "d")
	if len(m.rows()) != 2 {
		t.Error("locked layer must not be deleted")
	}
}

func TestLayerPanelEditing(t *testing.T) {
	m, _ := newPanel(t)

	m = press(t, m, "j", "c")
	if len(m.rows()) != 3 {
		t.Fatalf("duplicate: %d rows", len(m.rows()))
	}
	sel, _ := m.Editor.Selection()
	if m.rows()[m.Cursor].ObjectID != sel {
		t.Error("cursor should follow the duplicate")
	}

	m = press(t, m, "d")
	if len(m.rows()) != 2 {
		t.Fatalf("delete: %d rows", len(m.rows()))
	}

	m = press(t, m, "u")
	if len(m.rows()) != 3 {
		t.Errorf("undo: %d rows", len(m.rows()))
	}
	m = press(t, m, "r")
	if len(m.rows()) != 2 {
		t.Errorf("redo: %d rows", len(m.rows()))
	}
}

func TestLayerPanelReorder(t *testing.T) {
	m, _ := newPanel(t)
	rect := m.rows()[1].ObjectID
	m = press(t, m, "j", "]")
	if m.rows()[0].ObjectID != rect {
		t.Error("] should bring the rect to the top")
	}
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want it to follow the rect", m.Cursor)
	}
}

func TestLayerPanelWrite(t *testing.T) {
	m, saved := newPanel(t)
	m = press(t, m, "v", "w")
	if len(*saved) != 1 {
		t.Fatalf("saved %d times", len(*saved))
	}
	if m.Dirty || !m.Saved {
		t.Errorf("dirty = %v, saved = %v after write", m.Dirty, m.Saved)
	}
	doc := (*saved)[0]
	if len(doc.Objects) != 2 || doc.Objects[1].Visible {
		t.Error("written document should carry the hidden ellipse")
	}
}

func TestLayerPanelQuit(t *testing.T) {
	m, _ := newPanel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestLayerPanelEmpty(t *testing.T) {
	m := NewLayerPanelModel(editor.New(editor.WithLogger(discardLogger())), nil)
	m = press(t, m, "down", "v", "d", "w")
	if !strings.Contains(m.View(), "no layers") {
		t.Error("empty panel should say so")
	}
}
