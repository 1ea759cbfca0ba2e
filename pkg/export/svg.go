package export

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/vectorstudio/pkg/fonts"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// SVG renders doc as a standalone SVG document sized to the canvas.
func SVG(doc *scene.Document) []byte {
	return renderSVG(doc.Width, doc.Height, doc.Background, exportable(doc))
}

// ViewSVG renders a live scene the way a host displays it: every visible
// object, including grid lines and the path preview.
func ViewSVG(s *scene.Scene, width, height int, background string) []byte {
	var objs []*scene.Object
	for _, o := range s.Objects() {
		if o.Visible && o.Shape != nil {
			objs = append(objs, o)
		}
	}
	return renderSVG(width, height, background, objs)
}

func renderSVG(width, height int, background string, objs []*scene.Object) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	if scene.IsPaint(background) {
		fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n", width, height, background)
	}
	for _, o := range objs {
		renderObject(&buf, o)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderObject(buf *bytes.Buffer, o *scene.Object) {
	fmt.Fprintf(buf, `  <g id="obj-%s" transform="%s"`, escapeXML(o.ID), transformAttr(o))
	if o.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(o.Opacity))
	}
	buf.WriteString(">")

	switch s := o.Shape.(type) {
	case *scene.Rect:
		fmt.Fprintf(buf, `<rect x="0" y="0" width="%s" height="%s"%s/>`, num(s.Width), num(s.Height), paintAttrs(o.Style))
	case *scene.Ellipse:
		fmt.Fprintf(buf, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s/>`,
			num(s.RX), num(s.RY), num(s.RX), num(s.RY), paintAttrs(o.Style))
	case *scene.Path:
		if d := pathData(s); d != "" {
			fmt.Fprintf(buf, `<path d="%s"%s/>`, d, paintAttrs(o.Style))
		}
	case *scene.Textbox:
		renderText(buf, o, s)
	case *scene.GridLine:
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
			num(s.X1), num(s.Y1), num(s.X2), num(s.Y2), paintAttrs(o.Style))
	case *scene.Image:
		fmt.Fprintf(buf, `<image x="0" y="0" width="%d" height="%d" href="%s" xlink:href="%s"/>`,
			s.PixelWidth, s.PixelHeight, dataURI(s), dataURI(s))
	}
	buf.WriteString("</g>\n")
}

func renderText(buf *bytes.Buffer, o *scene.Object, t *scene.Textbox) {
	fill := "none"
	if scene.IsPaint(o.Fill) {
		fill = o.Fill
	}
	fmt.Fprintf(buf, `<text font-family="%s" font-size="%s" fill="%s">`,
		escapeXML(fonts.CSSFamily(t.FontFamily)), num(t.FontSize), fill)
	for i, line := range t.Lines() {
		fmt.Fprintf(buf, `<tspan x="0" y="%s">%s</tspan>`, num(textBaseline(t, i)), escapeXML(line))
	}
	buf.WriteString("</text>")
}

// transformAttr maps object-local space to the canvas: scale, then rotate,
// then translate to the position.
func transformAttr(o *scene.Object) string {
	s := "translate(" + num(o.X) + " " + num(o.Y) + ")"
	if o.Rotation != 0 {
		s += " rotate(" + num(o.Rotation) + ")"
	}
	if o.ScaleX != 1 || o.ScaleY != 1 {
		s += " scale(" + num(o.ScaleX) + " " + num(o.ScaleY) + ")"
	}
	return s
}

func paintAttrs(st scene.Style) string {
	fill, stroke := "none", "none"
	if scene.IsPaint(st.Fill) {
		fill = st.Fill
	}
	if scene.IsPaint(st.Stroke) && st.StrokeWidth > 0 {
		stroke = st.Stroke
	}
	s := ` fill="` + fill + `" stroke="` + stroke + `"`
	if stroke != "none" {
		s += ` stroke-width="` + num(st.StrokeWidth) + `"`
	}
	return s
}

// pathData converts the smoothed segments to SVG path commands.
func pathData(p *scene.Path) string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	var b bytes.Buffer
	for i, sg := range segs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(sg.Op))
		if sg.Op == scene.QuadTo {
			fmt.Fprintf(&b, " %s %s", num(sg.Ctrl.X), num(sg.Ctrl.Y))
		}
		fmt.Fprintf(&b, " %s %s", num(sg.To.X), num(sg.To.Y))
	}
	if p.Closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func dataURI(img *scene.Image) string {
	return "data:" + img.MIME + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
