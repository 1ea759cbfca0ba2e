package export

import (
	"bytes"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/fonts"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// PDF renders doc as a single-page vector PDF. One canvas unit is one
// point. WithRSVG converts the SVG export instead.
func PDF(doc *scene.Document, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	if o.backend == BackendRSVG {
		return ToPDF(SVG(doc))
	}

	w, h := float64(doc.Width), float64(doc.Height)
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(doc.Name, true)
	pdf.SetCreator("Vector Studio", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(pdfFamily(fonts.Regular), "", fonts.TTF(fonts.Regular))
	pdf.AddUTF8FontFromBytes(pdfFamily(fonts.Mono), "", fonts.TTF(fonts.Mono))
	pdf.AddPage()

	if r, g, b, ok := rgb(doc.Background); ok {
		pdf.SetFillColor(r, g, b)
		pdf.Rect(0, 0, w, h, "F")
	}

	p := &pdfPainter{pdf: pdf}
	for _, obj := range exportable(doc) {
		p.object(obj)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write pdf")
	}
	return buf.Bytes(), nil
}

type pdfPainter struct {
	pdf *gofpdf.Fpdf
}

// object draws o at absolute page coordinates. Rotation and scale are
// applied about the object position, matching the canvas transform.
func (p *pdfPainter) object(o *scene.Object) {
	pdf := p.pdf
	pdf.TransformBegin()
	defer pdf.TransformEnd()
	if o.Rotation != 0 {
		// gofpdf rotates counter-clockwise.
		pdf.TransformRotate(-o.Rotation, o.X, o.Y)
	}
	if o.ScaleX != 1 || o.ScaleY != 1 {
		pdf.TransformScale(o.ScaleX*100, o.ScaleY*100, o.X, o.Y)
	}
	pdf.SetAlpha(math.Max(0, math.Min(1, o.Opacity)), "Normal")
	defer pdf.SetAlpha(1, "Normal")

	x, y := o.X, o.Y
	switch s := o.Shape.(type) {
	case *scene.Rect:
		if style := p.paint(o.Style); style != "" {
			pdf.Rect(x, y, s.Width, s.Height, style)
		}
	case *scene.Ellipse:
		if style := p.paint(o.Style); style != "" {
			pdf.Ellipse(x+s.RX, y+s.RY, s.RX, s.RY, 0, style)
		}
	case *scene.Path:
		p.path(o, s)
	case *scene.Textbox:
		p.text(o, s)
	case *scene.Image:
		p.image(o, s)
	}
}

// paint sets fill and draw state and returns the gofpdf style string, or
// "" when nothing would be visible.
func (p *pdfPainter) paint(st scene.Style) string {
	style := ""
	if r, g, b, ok := rgb(st.Fill); ok {
		p.pdf.SetFillColor(r, g, b)
		style += "F"
	}
	if r, g, b, ok := rgb(st.Stroke); ok && st.StrokeWidth > 0 {
		p.pdf.SetDrawColor(r, g, b)
		p.pdf.SetLineWidth(st.StrokeWidth)
		style += "D"
	}
	return style
}

func (p *pdfPainter) path(o *scene.Object, s *scene.Path) {
	segs := s.Segments()
	style := p.paint(o.Style)
	if len(segs) == 0 || style == "" {
		return
	}
	pdf := p.pdf
	for _, sg := range segs {
		to := sg.To.Add(o.Position())
		switch sg.Op {
		case scene.MoveTo:
			pdf.MoveTo(to.X, to.Y)
		case scene.QuadTo:
			c := sg.Ctrl.Add(o.Position())
			pdf.CurveTo(c.X, c.Y, to.X, to.Y)
		case scene.LineTo:
			pdf.LineTo(to.X, to.Y)
		}
	}
	if s.Closed {
		pdf.ClosePath()
	}
	pdf.DrawPath(style)
}

func (p *pdfPainter) text(o *scene.Object, t *scene.Textbox) {
	r, g, b, ok := rgb(o.Fill)
	if !ok || t.FontSize <= 0 {
		return
	}
	pdf := p.pdf
	pdf.SetFont(pdfFamily(t.FontFamily), "", t.FontSize)
	pdf.SetTextColor(r, g, b)
	for i, line := range t.Lines() {
		pdf.Text(o.X, o.Y+textBaseline(t, i), line)
	}
}

func (p *pdfPainter) image(o *scene.Object, img *scene.Image) {
	typ := pdfImageType(img.MIME)
	if typ == "" {
		return
	}
	name := "img-" + o.ID
	opts := gofpdf.ImageOptions{ImageType: typ}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	p.pdf.ImageOptions(name, o.X, o.Y, float64(img.PixelWidth), float64(img.PixelHeight), false, opts, 0, "")
}

// pdfFamily names the registered gofpdf font for a requested family.
func pdfFamily(family string) string {
	if fonts.Resolve(family) == fonts.Mono {
		return "gomono"
	}
	return "go"
}

func pdfImageType(mime string) string {
	switch mime {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	}
	return ""
}

func rgb(s string) (r, g, b int, ok bool) {
	c, ok := scene.ParseColor(s)
	if !ok {
		return 0, 0, 0, false
	}
	r8, g8, b8 := c.RGB255()
	return int(r8), int(g8), int(b8), true
}
