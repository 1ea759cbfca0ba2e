// Package history implements linear undo/redo over scene snapshots.
//
// The undo stack always holds at least one entry, the state the session
// started from; its top equals the current state. Committing clears the
// redo stack, so history never branches.
package history

// History is a pair of snapshot stacks. It is not safe for concurrent use.
type History struct {
	undo  [][]byte
	redo  [][]byte
	limit int
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the undo stack at n entries, dropping the oldest. Values
// below 2 mean unlimited.
func WithLimit(n int) Option {
	return func(h *History) {
		if n >= 2 {
			h.limit = n
		}
	}
}

// New starts a history whose base entry is initial.
func New(initial []byte, opts ...Option) *History {
	h := &History{undo: [][]byte{clone(initial)}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Commit pushes snapshot as the new current state and clears redo.
func (h *History) Commit(snapshot []byte) {
	h.undo = append(h.undo, clone(snapshot))
	h.redo = nil
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		h.undo = append([][]byte(nil), h.undo[drop:]...)
	}
}

// Undo moves the current state to the redo stack and returns the state to
// restore. It is a no-op at the base entry.
func (h *History) Undo() ([]byte, bool) {
	if len(h.undo) <= 1 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return clone(h.undo[len(h.undo)-1]), true
}

// Redo re-applies the most recently undone state and returns it. It is a
// no-op when nothing was undone.
func (h *History) Redo() ([]byte, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, next)
	return clone(next), true
}

// Current returns the top of the undo stack.
func (h *History) Current() []byte { return clone(h.undo[len(h.undo)-1]) }

// CanUndo reports whether Undo would change state.
func (h *History) CanUndo() bool { return len(h.undo) > 1 }

// CanRedo reports whether Redo would change state.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// Reset discards all entries and starts over from initial.
func (h *History) Reset(initial []byte) {
	h.undo = [][]byte{clone(initial)}
	h.redo = nil
}

func clone(b []byte) []byte { return append([]byte(nil), b...) }
