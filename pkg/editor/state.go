package editor

import (
	"github.com/matzehuels/vectorstudio/pkg/layers"
	"github.com/matzehuels/vectorstudio/pkg/pen"
)

// State is a read-only summary of the session for hosts.
type State struct {
	Name        string         `json:"name"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Background  string         `json:"background"`
	Zoom        int            `json:"zoom"`
	Grid        Grid           `json:"grid"`
	Tool        Tool           `json:"tool"`
	Drawing     bool           `json:"drawing"`
	Selected    string         `json:"selected,omitempty"`
	EditingText string         `json:"editingText,omitempty"`
	Panel       Panel          `json:"panel"`
	Layers      []layers.Layer `json:"layers"`
	CanUndo     bool           `json:"canUndo"`
	CanRedo     bool           `json:"canRedo"`
}

// State returns the current session summary.
func (e *Editor) State() State {
	return State{
		Name:        e.name,
		Width:       e.width,
		Height:      e.height,
		Background:  e.background,
		Zoom:        e.zoom,
		Grid:        e.grid,
		Tool:        e.tool,
		Drawing:     e.pen.State() == pen.Drawing,
		Selected:    e.selected,
		EditingText: e.editing,
		Panel:       e.panel,
		Layers:      e.layers.List(),
		CanUndo:     e.CanUndo(),
		CanRedo:     e.CanRedo(),
	}
}
