package history

import (
	"testing"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New([]byte("empty"))
	h.Commit([]byte("one rect"))

	got, ok := h.Undo()
	if !ok || string(got) != "empty" {
		t.Fatalf("Undo = %q, %v, want empty", got, ok)
	}
	got, ok = h.Redo()
	if !ok || string(got) != "one rect" {
		t.Fatalf("Redo = %q, %v, want one rect", got, ok)
	}
	if string(h.Current()) != "one rect" {
		t.Errorf("Current = %q", h.Current())
	}
}

func TestBaseEntryNeverPopped(t *testing.T) {
	h := New([]byte("base"))
	if _, ok := h.Undo(); ok {
		t.Error("Undo with one entry should be a no-op")
	}
	if h.CanUndo() {
		t.Error("CanUndo should be false at base")
	}
	if string(h.Current()) != "base" {
		t.Errorf("Current = %q, want base", h.Current())
	}
}

func TestRedoEmpty(t *testing.T) {
	h := New(nil)
	if _, ok := h.Redo(); ok {
		t.Error("Redo on empty stack should be a no-op")
	}
}

func TestCommitClearsRedo(t *testing.T) {
	h := New([]byte("a"))
	h.Commit([]byte("b"))
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("CanRedo should be true after undo")
	}
	h.Commit([]byte("c"))
	if h.CanRedo() {
		t.Error("commit must clear redo")
	}
	if _, ok := h.Redo(); ok {
		t.Error("Redo after commit should be a no-op")
	}
	if u, r := h.Depth(); u != 2 || r != 0 {
		t.Errorf("Depth = %d,%d want 2,0", u, r)
	}
}

func TestMultipleUndo(t *testing.T) {
	h := New([]byte("0"))
	for _, s := range []string{"1", "2", "3"} {
		h.Commit([]byte(s))
	}
	for _, want := range []string{"2", "1", "0"} {
		got, ok := h.Undo()
		if !ok || string(got) != want {
			t.Fatalf("Undo = %q, %v, want %q", got, ok, want)
		}
	}
	if _, ok := h.Undo(); ok {
		t.Error("Undo past base should be a no-op")
	}
	for _, want := range []string{"1", "2", "3"} {
		got, _ := h.Redo()
		if string(got) != want {
			t.Fatalf("Redo = %q, want %q", got, want)
		}
	}
}

func TestWithLimit(t *testing.T) {
	h := New([]byte("0"), WithLimit(3))
	for _, s := range []string{"1", "2", "3", "4"} {
		h.Commit([]byte(s))
	}
	if u, _ := h.Depth(); u != 3 {
		t.Fatalf("undo depth = %d, want 3", u)
	}
	h.Undo()
	h.Undo()
	if _, ok := h.Undo(); ok {
		t.Error("oldest kept entry must not be popped")
	}
	if string(h.Current()) != "2" {
		t.Errorf("Current = %q, want 2", h.Current())
	}
}

func TestSnapshotsAreCopied(t *testing.T) {
	buf := []byte("abc")
	h := New(nil)
	h.Commit(buf)
	buf[0] = 'x'
	if string(h.Current()) != "abc" {
		t.Error("Commit must copy the snapshot")
	}
}

func TestReset(t *testing.T) {
	h := New([]byte("a"))
	h.Commit([]byte("b"))
	h.Reset([]byte("doc"))
	if h.CanUndo() || h.CanRedo() || string(h.Current()) != "doc" {
		t.Error("Reset should leave a single base entry")
	}
}
