package export

import (
	"math"

	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Backend selects how PNG and PDF are produced.
type Backend string

const (
	// BackendNative renders in-process with gg and gofpdf.
	BackendNative Backend = "native"
	// BackendRSVG converts the SVG export with rsvg-convert.
	BackendRSVG Backend = "rsvg"
)

// ParseBackend validates a backend name. The empty string is native.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case "", BackendNative:
		return BackendNative, nil
	case BackendRSVG:
		return b, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown export backend %q (want native or rsvg)", s)
}

// MaxScale bounds the raster scale factor.
const MaxScale = 8

// Option configures a render.
type Option func(*options)

type options struct {
	scale   float64
	backend Backend
}

// WithScale sets the PNG resolution multiplier (default 1). Values are
// clamped to (0, 8].
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 && !math.IsInf(s, 0) {
			o.scale = math.Min(s, MaxScale)
		}
	}
}

// WithBackend selects the PNG/PDF backend.
func WithBackend(b Backend) Option {
	return func(o *options) {
		if b != "" {
			o.backend = b
		}
	}
}

// WithRSVG selects the rsvg-convert backend.
func WithRSVG() Option { return WithBackend(BackendRSVG) }

func newOptions(opts []Option) options {
	o := options{scale: 1, backend: BackendNative}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// exportable returns the objects that appear in an export, bottom first.
func exportable(doc *scene.Document) []*scene.Object {
	out := make([]*scene.Object, 0, len(doc.Objects))
	for _, o := range doc.Objects {
		if o.Role == scene.RoleCommitted && o.Visible && o.Shape != nil {
			out = append(out, o)
		}
	}
	return out
}

// textBaseline returns the baseline offset of line i in a textbox.
func textBaseline(t *scene.Textbox, i int) float64 {
	return float64(i)*t.FontSize*scene.TextLineHeight + t.FontSize
}

// Render produces one format.
func Render(doc *scene.Document, f Format, opts ...Option) ([]byte, error) {
	switch f {
	case FormatSVG:
		return SVG(doc), nil
	case FormatPNG:
		return PNG(doc, opts...)
	case FormatPDF:
		return PDF(doc, opts...)
	case FormatJSON:
		return JSON(doc)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q", f)
}
