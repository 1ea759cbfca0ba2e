package editor

import "github.com/matzehuels/vectorstudio/pkg/layers"

// Layers returns the layer panel entries, bottom first.
func (e *Editor) Layers() []layers.Layer { return e.layers.List() }

// ToggleLayerVisibility shows or hides a layer's object and commits.
func (e *Editor) ToggleLayerVisibility(id string) bool {
	if _, ok := e.layers.Get(id); !ok {
		return false
	}
	e.settle()
	if _, ok := e.layers.ToggleVisibility(id); !ok {
		return false
	}
	e.commit("visibility")
	return true
}

// ToggleLayerLock locks or unlocks a layer's object and commits. Locking
// the selected object clears the selection.
func (e *Editor) ToggleLayerLock(id string) bool {
	if _, ok := e.layers.Get(id); !ok {
		return false
	}
	e.settle()
	l, ok := e.layers.ToggleLock(id)
	if !ok {
		return false
	}
	if l.Locked && l.ObjectID == e.selected {
		e.deselect()
	}
	e.commit("lock")
	return true
}

// RenameLayer sets a layer's display name. Names are not part of the
// scene, so this does not enter history.
func (e *Editor) RenameLayer(id, name string) bool {
	if _, ok := e.layers.Rename(id, name); !ok {
		return false
	}
	e.notify()
	return true
}

// SelectLayer selects the layer's object. Locked layers are ignored.
func (e *Editor) SelectLayer(id string) bool {
	l, ok := e.layers.Get(id)
	if !ok || l.Locked {
		return false
	}
	return e.Select(l.ObjectID)
}
