package scene

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/vectorstudio/pkg/errors"
)

func TestDocumentRoundTrip(t *testing.T) {
	s := NewScene()
	s.Add(gridLine(0))
	s.Add(rect(100, 100))
	s.Add(New(&Ellipse{RX: 50, RY: 50}, 100, 100, DefaultStyle))

	doc := NewDocument("", 800, 600)
	doc.SetScene(s)
	if doc.Name != DefaultName {
		t.Errorf("Name = %q, want %q", doc.Name, DefaultName)
	}
	if len(doc.Objects) != 2 {
		t.Fatalf("document has %d objects, want 2", len(doc.Objects))
	}

	path := filepath.Join(t.TempDir(), "design.json")
	if err := doc.SaveFile(path); err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if !bytes.Equal(Snapshot(loaded.Scene()), Snapshot(s)) {
		t.Error("loaded scene differs from saved scene")
	}
}

func TestReadDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed", `{"version":`},
		{"bad version", `{"version":9,"width":800,"height":600,"objects":[]}`},
		{"too small", `{"version":1,"width":50,"height":600,"objects":[]}`},
		{"too large", `{"version":1,"width":800,"height":4000,"objects":[]}`},
		{"bad background", `{"version":1,"width":800,"height":600,"background":"blue","objects":[]}`},
		{"bad object", `{"version":1,"width":800,"height":600,"objects":[{"id":"x","type":"blob"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(tt.json))
			if !errors.Is(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("error = %v, want INVALID_DOCUMENT", err)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestValidateCanvasSize(t *testing.T) {
	tests := []struct {
		w, h int
		ok   bool
	}{
		{800, 600, true},
		{100, 3000, true},
		{99, 600, false},
		{800, 3001, false},
	}
	for _, tt := range tests {
		err := ValidateCanvasSize(tt.w, tt.h)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateCanvasSize(%d,%d) = %v, want ok=%v", tt.w, tt.h, err, tt.ok)
		}
	}
}
