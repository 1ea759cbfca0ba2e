package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/fonts"
	"github.com/matzehuels/vectorstudio/pkg/imageio"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// PNG renders doc as a PNG image at full quality. WithScale multiplies the
// pixel size; WithRSVG converts the SVG export instead of rasterizing
// natively.
func PNG(doc *scene.Document, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	if o.backend == BackendRSVG {
		return ToPNG(SVG(doc), o.scale)
	}
	img, err := Rasterize(doc, o.scale)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Rasterize draws doc into an RGBA image scale times the canvas size.
func Rasterize(doc *scene.Document, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Ceil(float64(doc.Width) * scale))
	h := int(math.Ceil(float64(doc.Height) * scale))
	dc := gg.NewContext(w, h)
	if c, ok := paint(doc.Background, 1); ok {
		dc.SetColor(c)
		dc.Clear()
	}
	dc.Scale(scale, scale)

	for _, o := range exportable(doc) {
		if err := drawObject(dc, o, scale); err != nil {
			return nil, err
		}
	}
	return dc.Image(), nil
}

func drawObject(dc *gg.Context, o *scene.Object, scale float64) error {
	dc.Push()
	defer dc.Pop()
	dc.Translate(o.X, o.Y)
	dc.Rotate(gg.Radians(o.Rotation))
	dc.Scale(o.ScaleX, o.ScaleY)

	// gg strokes in device pixels.
	lineScale := scale * math.Sqrt(math.Abs(o.ScaleX*o.ScaleY))

	switch s := o.Shape.(type) {
	case *scene.Rect:
		dc.DrawRectangle(0, 0, s.Width, s.Height)
		fillStroke(dc, o, lineScale)
	case *scene.Ellipse:
		dc.DrawEllipse(s.RX, s.RY, s.RX, s.RY)
		fillStroke(dc, o, lineScale)
	case *scene.Path:
		segs := s.Segments()
		if len(segs) == 0 {
			return nil
		}
		dc.NewSubPath()
		for _, sg := range segs {
			switch sg.Op {
			case scene.MoveTo:
				dc.MoveTo(sg.To.X, sg.To.Y)
			case scene.QuadTo:
				dc.QuadraticTo(sg.Ctrl.X, sg.Ctrl.Y, sg.To.X, sg.To.Y)
			case scene.LineTo:
				dc.LineTo(sg.To.X, sg.To.Y)
			}
		}
		if s.Closed {
			dc.ClosePath()
		}
		fillStroke(dc, o, lineScale)
	case *scene.Textbox:
		return drawText(dc, o, s)
	case *scene.Image:
		px, err := imageio.Pixels(s)
		if err != nil {
			return err
		}
		dc.DrawImage(withOpacity(px, o.Opacity), 0, 0)
	}
	return nil
}

func fillStroke(dc *gg.Context, o *scene.Object, lineScale float64) {
	fill, hasFill := paint(o.Fill, o.Opacity)
	stroke, hasStroke := paint(o.Stroke, o.Opacity)
	hasStroke = hasStroke && o.StrokeWidth > 0

	if hasFill {
		dc.SetColor(fill)
		if hasStroke {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if hasStroke {
		dc.SetColor(stroke)
		dc.SetLineWidth(o.StrokeWidth * lineScale)
		dc.Stroke()
	}
	dc.ClearPath()
}

// drawText renders each line at its baseline. Glyphs go through the
// context matrix like every other shape.
func drawText(dc *gg.Context, o *scene.Object, t *scene.Textbox) error {
	fill, ok := paint(o.Fill, o.Opacity)
	if !ok || t.FontSize <= 0 {
		return nil
	}
	face, err := fonts.Face(t.FontFamily, t.FontSize)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load font %s", t.FontFamily)
	}
	dc.SetFontFace(face)
	dc.SetColor(fill)
	for i, line := range t.Lines() {
		dc.DrawString(line, 0, textBaseline(t, i))
	}
	return nil
}

// paint resolves a color value with opacity applied to its alpha.
func paint(s string, opacity float64) (color.Color, bool) {
	c, ok := scene.ParseColor(s)
	if !ok {
		return nil, false
	}
	r, g, b := c.RGB255()
	a := uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
	return color.NRGBA{R: r, G: g, B: b, A: a}, true
}

func withOpacity(img image.Image, opacity float64) image.Image {
	if opacity >= 1 {
		return img
	}
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * math.Max(0, opacity))
	}
	return out
}
