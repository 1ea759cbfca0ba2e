package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/vectorstudio/pkg/errors"
)

// DocumentVersion is the current document format version.
const DocumentVersion = 1

// Canvas size limits in pixels, inclusive.
const (
	MinCanvasSize = 100
	MaxCanvasSize = 3000
)

// DefaultName is the project name of a new document.
const DefaultName = "Untitled Project"

// Document is the import/export form of a scene: committed objects plus
// canvas metadata.
type Document struct {
	Version    int       `json:"version"`
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Background string    `json:"background"`
	Objects    []*Object `json:"objects"`

	// LayerNames maps object IDs to layer panel names.
	LayerNames map[string]string `json:"layerNames,omitempty"`
}

// NewDocument returns an empty document with a white background.
func NewDocument(name string, width, height int) *Document {
	if name == "" {
		name = DefaultName
	}
	return &Document{
		Version:    DocumentVersion,
		Name:       name,
		Width:      width,
		Height:     height,
		Background: "#ffffff",
		Objects:    []*Object{},
	}
}

// ValidateCanvasSize checks both dimensions against the allowed range.
func ValidateCanvasSize(width, height int) error {
	for _, v := range []struct {
		name string
		n    int
	}{{"width", width}, {"height", height}} {
		if v.n < MinCanvasSize || v.n > MaxCanvasSize {
			return errors.New(errors.ErrCodeInvalidInput,
				"canvas %s %d out of range %d-%d", v.name, v.n, MinCanvasSize, MaxCanvasSize)
		}
	}
	return nil
}

// Validate checks the document header and objects.
func (d *Document) Validate() error {
	if d.Version < 1 || d.Version > DocumentVersion {
		return errors.New(errors.ErrCodeInvalidDocument, "unsupported document version %d", d.Version)
	}
	if err := ValidateCanvasSize(d.Width, d.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid canvas")
	}
	if _, err := NormalizeColor(d.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid background")
	}
	seen := make(map[string]bool, len(d.Objects))
	for i, o := range d.Objects {
		if o == nil {
			return errors.New(errors.ErrCodeInvalidDocument, "object %d is null", i)
		}
		if seen[o.ID] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate object id %s", o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

// Scene builds a scene from deep copies of the document objects.
func (d *Document) Scene() *Scene {
	s := NewScene()
	for _, o := range d.Objects {
		c := o.Copy()
		c.Role = RoleCommitted
		s.Add(c)
	}
	return s
}

// SetScene replaces the document objects with copies of the committed
// objects of s.
func (d *Document) SetScene(s *Scene) {
	committed := s.Committed()
	d.Objects = make([]*Object, len(committed))
	for i, o := range committed {
		d.Objects[i] = o.Copy()
	}
}

// Write encodes the document as indented JSON.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// ReadDocument decodes and validates a document.
func ReadDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	if d.Objects == nil {
		d.Objects = []*Object{}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveFile writes the document to path, replacing it atomically.
func (d *Document) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vectorstudio-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := d.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// LoadFile reads a document from path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}
