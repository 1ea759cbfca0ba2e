package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/geom"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

var noStroke = scene.Style{Fill: "#0000ff", Opacity: 1}

// testDocument holds one committed rect plus a grid line, a path preview
// and a hidden ellipse.
func testDocument() (doc *scene.Document, rect, grid, preview, hidden *scene.Object) {
	doc = scene.NewDocument("Test", 200, 100)
	doc.Background = "#ff0000"

	rect = scene.New(&scene.Rect{Width: 20, Height: 20}, 50, 25, noStroke)

	grid = scene.New(&scene.GridLine{X1: 0, Y1: 0, X2: 0, Y2: 100}, 0, 0,
		scene.Style{Stroke: "#cccccc", StrokeWidth: 1, Opacity: 1})
	grid.Role = scene.RoleGrid

	preview = scene.NewPath([]geom.Point{geom.Pt(0, 0), geom.Pt(190, 90)}, false,
		scene.Style{Fill: "#00ff00", Stroke: "#00ff00", StrokeWidth: 10, Opacity: 1})
	preview.Role = scene.RolePreview

	hidden = scene.New(&scene.Ellipse{RX: 100, RY: 50}, 0, 0, scene.Style{Fill: "#00ff00", Opacity: 1})
	hidden.Visible = false

	doc.Objects = []*scene.Object{grid, hidden, rect, preview}
	return doc, rect, grid, preview, hidden
}

func testPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"svg", FormatSVG},
		{"PNG", FormatPNG},
		{".pdf", FormatPDF},
		{" json ", FormatJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "gif", "svgz"} {
		if _, err := ParseFormat(bad); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) err = %v, want INVALID_FORMAT", bad, err)
		}
	}
}

func TestParseFormatsDeduplicates(t *testing.T) {
	got, err := ParseFormats([]string{"svg", "png", "SVG"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != FormatSVG || got[1] != FormatPNG {
		t.Errorf("ParseFormats = %v", got)
	}
}

func TestFilenames(t *testing.T) {
	want := map[Format]string{
		FormatSVG:  "vector-design.svg",
		FormatPNG:  "vector-design.png",
		FormatPDF:  "vector-design.pdf",
		FormatJSON: "vector-design.json",
	}
	for _, f := range Formats() {
		if got := f.Filename(); got != want[f] {
			t.Errorf("%s.Filename() = %q, want %q", f, got, want[f])
		}
		back, err := FormatFromFilename(f.Filename())
		if err != nil || back != f {
			t.Errorf("FormatFromFilename(%q) = %q, %v", f.Filename(), back, err)
		}
	}
	if _, err := FormatFromFilename("design"); err == nil {
		t.Error("name without extension should fail")
	}
}

func TestSVGExcludesNonCommitted(t *testing.T) {
	doc, rect, grid, preview, hidden := testDocument()
	svg := string(SVG(doc))

	if !strings.Contains(svg, "obj-"+rect.ID) {
		t.Error("committed rect missing")
	}
	for name, o := range map[string]*scene.Object{"grid": grid, "preview": preview, "hidden": hidden} {
		if strings.Contains(svg, o.ID) {
			t.Errorf("%s object exported", name)
		}
	}
	if !strings.HasPrefix(svg, "<svg ") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("not a standalone svg document")
	}
	if !strings.Contains(svg, `width="200" height="100"`) {
		t.Error("svg should be sized to the canvas")
	}
}

func TestSVGShapes(t *testing.T) {
	doc := scene.NewDocument("", 400, 400)

	ell := scene.New(&scene.Ellipse{RX: 50, RY: 30}, 10, 20, scene.Style{Fill: "transparent", Stroke: "#000000", StrokeWidth: 2, Opacity: 0.5})
	ell.Rotation = 45
	ell.ScaleX = 2

	path := scene.NewPath([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 10)}, false, scene.DefaultStyle)
	tb := &scene.Textbox{Text: "a < b\nline 2", FontFamily: "Arial", FontSize: 20, Width: 200}
	text := scene.New(tb, 0, 0, scene.Style{Fill: "#333333", Opacity: 1})
	img := scene.New(&scene.Image{Data: []byte("PNGDATA"), MIME: "image/png", PixelWidth: 4, PixelHeight: 3}, 0, 0, scene.Style{Opacity: 1})

	doc.Objects = []*scene.Object{ell, path, text, img}
	svg := string(SVG(doc))

	for _, want := range []string{
		`<ellipse cx="50" cy="30" rx="50" ry="30" fill="none" stroke="#000000" stroke-width="2"/>`,
		`transform="translate(10 20) rotate(45) scale(2 1)"`,
		`opacity="0.5"`,
		`d="M 0 0 Q 10 0 15 5 L 20 10"`,
		`<tspan x="0" y="20">a &lt; b</tspan>`,
		`<tspan x="0" y="` + num(textBaseline(tb, 1)) + `">line 2</tspan>`,
		`href="data:image/png;base64,UE5HREFUQQ=="`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s\n%s", want, svg)
		}
	}
}

func TestSVGClosedPath(t *testing.T) {
	p := &scene.Path{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 0}}, Closed: true}
	if got := pathData(p); !strings.HasSuffix(got, " Z") {
		t.Errorf("pathData = %q, want closing Z", got)
	}
	if got := pathData(&scene.Path{Points: []geom.Point{{X: 1, Y: 1}}}); got != "" {
		t.Errorf("single point path = %q, want empty", got)
	}
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func rgbAt(img image.Image, x, y int) (r, g, b uint8) {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B
}

func TestPNGRendersCommittedOnly(t *testing.T) {
	doc, _, _, _, _ := testDocument()
	data, err := PNG(doc)
	if err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, data)
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("size = %v, want 200x100", b)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"background", 5, 80, 255, 0, 0},
		{"rect", 60, 35, 0, 0, 255},
		{"under hidden ellipse and preview", 100, 48, 255, 0, 0},
		{"grid line", 0, 50, 255, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := rgbAt(img, tt.x, tt.y)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("%s at (%d,%d) = %d,%d,%d; want %d,%d,%d", tt.name, tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestPNGScale(t *testing.T) {
	doc, _, _, _, _ := testDocument()
	data, err := PNG(doc, WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, data)
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("size = %v, want 400x200", b)
	}
	if r, g, b := rgbAt(img, 120, 70); r != 0 || g != 0 || b != 255 {
		t.Errorf("scaled rect pixel = %d,%d,%d", r, g, b)
	}
}

func TestPNGDrawsEveryKind(t *testing.T) {
	doc := scene.NewDocument("", 300, 300)
	img := scene.New(&scene.Image{Data: testPNG(t, 10, 10, color.NRGBA{G: 255, A: 255}), MIME: "image/png", PixelWidth: 10, PixelHeight: 10},
		200, 200, scene.Style{Opacity: 1})
	img.ScaleX, img.ScaleY = 2, 2
	doc.Objects = []*scene.Object{
		scene.New(&scene.Ellipse{RX: 20, RY: 20}, 0, 0, scene.DefaultStyle),
		scene.NewPath([]geom.Point{geom.Pt(50, 50), geom.Pt(80, 60), geom.Pt(100, 50)}, false, scene.DefaultStyle),
		scene.New(&scene.Textbox{Text: "Hello", FontFamily: "Arial", FontSize: 20, Width: 200}, 100, 100, scene.Style{Fill: "#000000", Opacity: 1}),
		img,
	}
	data, err := PNG(doc)
	if err != nil {
		t.Fatal(err)
	}
	out := decodePNG(t, data)
	if r, g, b := rgbAt(out, 215, 215); r != 0 || g != 255 || b != 0 {
		t.Errorf("image pixel = %d,%d,%d, want green", r, g, b)
	}
}

func TestPDF(t *testing.T) {
	doc, _, _, _, _ := testDocument()
	doc.Objects = append(doc.Objects,
		scene.New(&scene.Textbox{Text: "Grüße", FontFamily: "Courier", FontSize: 12, Width: 100}, 10, 10, scene.Style{Fill: "#000000", Opacity: 1}),
		scene.New(&scene.Image{Data: testPNG(t, 4, 4, color.White), MIME: "image/png", PixelWidth: 4, PixelHeight: 4}, 0, 0, scene.Style{Opacity: 0.5}),
		scene.NewPath([]geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(0, 0)}, true, scene.DefaultStyle),
	)
	data, err := PDF(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header: %q", data[:min(len(data), 8)])
	}
}

func TestJSONExport(t *testing.T) {
	doc, rect, _, _, hidden := testDocument()
	data, err := JSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	back, err := scene.ReadDocument(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported JSON does not load: %v", err)
	}
	if len(back.Objects) != 2 {
		t.Fatalf("objects = %d, want rect and hidden ellipse", len(back.Objects))
	}
	if back.Objects[0].ID != hidden.ID || back.Objects[1].ID != rect.ID {
		t.Error("object order not preserved")
	}
	if back.Objects[0].Visible {
		t.Error("visibility must round-trip")
	}
	if len(doc.Objects) != 4 {
		t.Error("JSON must not modify the input document")
	}
}

func TestRender(t *testing.T) {
	doc, _, _, _, _ := testDocument()
	for _, f := range []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON} {
		if data, err := Render(doc, f); err != nil || len(data) == 0 {
			t.Errorf("Render(%s) = %d bytes, %v", f, len(data), err)
		}
	}
	if _, err := Render(doc, Format("gif")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(gif) err = %v", err)
	}
}

func TestRSVGBackendUnavailable(t *testing.T) {
	if RSVGAvailable() {
		t.Skip("rsvg-convert installed")
	}
	doc, _, _, _, _ := testDocument()
	if _, err := PNG(doc, WithRSVG()); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("PNG with rsvg err = %v, want UNSUPPORTED", err)
	}
	if _, err := PDF(doc, WithRSVG()); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("PDF with rsvg err = %v, want UNSUPPORTED", err)
	}
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{"": BackendNative, "native": BackendNative, "rsvg": BackendRSVG} {
		if got, err := ParseBackend(in); err != nil || got != want {
			t.Errorf("ParseBackend(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseBackend("cairo"); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestWithScaleClamps(t *testing.T) {
	tests := []struct{ in, want float64 }{{2, 2}, {0, 1}, {-1, 1}, {100, MaxScale}}
	for _, tt := range tests {
		if got := newOptions([]Option{WithScale(tt.in)}).scale; got != tt.want {
			t.Errorf("WithScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestViewSVGIncludesGridAndPreview(t *testing.T) {
	_, rect, grid, preview, hidden := testDocument()
	s := scene.NewScene()
	for _, o := range []*scene.Object{grid, hidden, rect, preview} {
		s.Add(o)
	}
	svg := string(ViewSVG(s, 200, 100, "#ffffff"))
	for name, o := range map[string]*scene.Object{"rect": rect, "grid": grid, "preview": preview} {
		if !strings.Contains(svg, o.ID) {
			t.Errorf("%s missing from view", name)
		}
	}
	if strings.Contains(svg, hidden.ID) {
		t.Error("hidden object rendered")
	}
	if !strings.Contains(svg, `<line x1="0" y1="0" x2="0" y2="100" fill="none" stroke="#cccccc" stroke-width="1"/>`) {
		t.Error("grid line not rendered as a line")
	}
}
