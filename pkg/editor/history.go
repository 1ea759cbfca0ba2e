package editor

import "context"

// Undo steps back one history entry. A path in progress is abandoned
// instead, since it has no entry yet.
func (e *Editor) Undo() bool {
	if e.Drawing() {
		e.CancelPath()
		return true
	}
	e.flush()
	snap, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(snap)
	e.logger.Debug("undo", "objects", e.layers.Len())
	e.hooks.OnUndo(context.Background())
	return true
}

// Redo re-applies the last undone entry.
func (e *Editor) Redo() bool {
	e.finishPath()
	e.flush()
	snap, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(snap)
	e.logger.Debug("redo", "objects", e.layers.Len())
	e.hooks.OnRedo(context.Background())
	return true
}

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.Drawing() || e.pending || e.history.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return !e.pending && e.history.CanRedo() }
