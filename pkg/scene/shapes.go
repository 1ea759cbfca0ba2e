package scene

import (
	"math"
	"strings"

	"github.com/matzehuels/vectorstudio/pkg/geom"
)

// Kind names a shape variant. It is the "type" field of the JSON encoding.
type Kind string

const (
	KindRect     Kind = "rect"
	KindEllipse  Kind = "ellipse"
	KindTextbox  Kind = "textbox"
	KindPath     Kind = "path"
	KindImage    Kind = "image"
	KindGridLine Kind = "gridline"
)

// Shape is the variant-specific geometry of an object. The set of
// implementations is closed.
type Shape interface {
	Kind() Kind

	// bounds is the untransformed extent relative to the object position.
	bounds() geom.Rect
	// contains tests a point in object-local space with a tolerance.
	contains(p geom.Point, tol float64) bool
	clone() Shape
}

// Rect is an axis-aligned rectangle with its top-left at the position.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (*Rect) Kind() Kind          { return KindRect }
func (r *Rect) bounds() geom.Rect { return geom.XYWH(0, 0, r.Width, r.Height) }
func (r *Rect) clone() Shape      { c := *r; return &c }
func (r *Rect) contains(p geom.Point, tol float64) bool {
	return r.bounds().Inset(-tol).Contains(p)
}

// Ellipse is inscribed in the box (0,0)-(2RX,2RY) relative to the position.
type Ellipse struct {
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

func (*Ellipse) Kind() Kind          { return KindEllipse }
func (e *Ellipse) bounds() geom.Rect { return geom.XYWH(0, 0, 2*e.RX, 2*e.RY) }
func (e *Ellipse) clone() Shape      { c := *e; return &c }
func (e *Ellipse) contains(p geom.Point, tol float64) bool {
	rx, ry := e.RX+tol, e.RY+tol
	if rx <= 0 || ry <= 0 {
		return false
	}
	dx, dy := (p.X-e.RX)/rx, (p.Y-e.RY)/ry
	return dx*dx+dy*dy <= 1
}

// Center returns the ellipse center relative to the position.
func (e *Ellipse) Center() geom.Point { return geom.Pt(e.RX, e.RY) }

// TextLineHeight is the line advance as a multiple of font size.
const TextLineHeight = 1.16

// Textbox is a block of editable text wrapped to Width.
type Textbox struct {
	Text       string  `json:"text"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	Width      float64 `json:"width"`
}

func (*Textbox) Kind() Kind     { return KindTextbox }
func (t *Textbox) clone() Shape { c := *t; return &c }

// Lines splits the text on explicit line breaks.
func (t *Textbox) Lines() []string {
	return strings.Split(t.Text, "\n")
}

func (t *Textbox) bounds() geom.Rect {
	h := float64(len(t.Lines())) * t.FontSize * TextLineHeight
	return geom.XYWH(0, 0, t.Width, h)
}

func (t *Textbox) contains(p geom.Point, tol float64) bool {
	return t.bounds().Contains(p)
}

// Path is a smoothed polyline. Points are relative to the object position.
type Path struct {
	Points []geom.Point `json:"points"`
	Closed bool         `json:"closed,omitempty"`
}

func (*Path) Kind() Kind          { return KindPath }
func (p *Path) bounds() geom.Rect { return geom.Bound(p.Points...) }

func (p *Path) clone() Shape {
	return &Path{Points: append([]geom.Point(nil), p.Points...), Closed: p.Closed}
}

func (p *Path) contains(q geom.Point, tol float64) bool {
	if len(p.Points) < 2 {
		return false
	}
	return p.bounds().Inset(-math.Max(tol, 1)).Contains(q)
}

// Segments returns the smoothed curve through the path points.
func (p *Path) Segments() []Segment { return Segments(p.Points) }

// NewPath builds a path object from absolute canvas points. The position is
// the top-left of the points' bounding box and the stored points are
// relative to it.
func NewPath(abs []geom.Point, closed bool, style Style) *Object {
	origin := geom.Bound(abs...).Min
	rel := make([]geom.Point, len(abs))
	for i, q := range abs {
		rel[i] = q.Sub(origin)
	}
	return New(&Path{Points: rel, Closed: closed}, origin.X, origin.Y, style)
}

// Image is an encoded bitmap. The object's scale factors size it on canvas.
type Image struct {
	Data        []byte `json:"data"`
	MIME        string `json:"mime"`
	PixelWidth  int    `json:"pixelWidth"`
	PixelHeight int    `json:"pixelHeight"`
}

func (*Image) Kind() Kind { return KindImage }

func (i *Image) bounds() geom.Rect {
	return geom.XYWH(0, 0, float64(i.PixelWidth), float64(i.PixelHeight))
}

func (i *Image) clone() Shape {
	c := *i
	c.Data = append([]byte(nil), i.Data...)
	return &c
}

func (i *Image) contains(p geom.Point, _ float64) bool {
	return i.bounds().Contains(p)
}

// GridLine is one alignment line, in coordinates relative to the position.
// Grid lines never take part in hit testing.
type GridLine struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (*GridLine) Kind() Kind                          { return KindGridLine }
func (g *GridLine) bounds() geom.Rect                 { return geom.Bound(geom.Pt(g.X1, g.Y1), geom.Pt(g.X2, g.Y2)) }
func (g *GridLine) clone() Shape                      { c := *g; return &c }
func (g *GridLine) contains(geom.Point, float64) bool { return false }

// newShape returns a zero value of the variant named by k.
func newShape(k Kind) (Shape, bool) {
	switch k {
	case KindRect:
		return &Rect{}, true
	case KindEllipse:
		return &Ellipse{}, true
	case KindTextbox:
		return &Textbox{}, true
	case KindPath:
		return &Path{}, true
	case KindImage:
		return &Image{}, true
	case KindGridLine:
		return &GridLine{}, true
	}
	return nil, false
}
