// Package fonts provides embedded font files for raster and PDF export.
//
// The Go font family is compiled into the binary, so text renders the same
// on every machine regardless of installed fonts. Requested families are
// mapped onto the closest embedded face: monospace names use Go Mono,
// everything else uses Go Regular.
package fonts

import (
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Embedded face names.
const (
	Regular = "Go"
	Mono    = "Go Mono"
)

var (
	parsed     = map[string]*truetype.Font{}
	parseOnce  sync.Once
	parseErr   error
	facesMu    sync.Mutex
	faces      = map[faceKey]font.Face{}
	monoHints  = []string{"mono", "courier", "consolas", "menlo"}
	fallbackCS = "Arial, Helvetica, sans-serif"
)

type faceKey struct {
	name string
	size float64
}

func load() {
	for name, ttf := range map[string][]byte{Regular: goregular.TTF, Mono: gomono.TTF} {
		f, err := truetype.Parse(ttf)
		if err != nil {
			parseErr = err
			return
		}
		parsed[name] = f
	}
}

// Resolve maps a requested font family to an embedded face name.
func Resolve(family string) string {
	lower := strings.ToLower(family)
	for _, h := range monoHints {
		if strings.Contains(lower, h) {
			return Mono
		}
	}
	return Regular
}

// TTF returns the TrueType data of the face used for family.
func TTF(family string) []byte {
	if Resolve(family) == Mono {
		return gomono.TTF
	}
	return goregular.TTF
}

// Face returns a cached font face for family at size points (72 DPI, so
// one point is one canvas unit).
func Face(family string, size float64) (font.Face, error) {
	parseOnce.Do(load)
	if parseErr != nil {
		return nil, parseErr
	}
	key := faceKey{name: Resolve(family), size: size}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f := truetype.NewFace(parsed[key.name], &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	faces[key] = f
	return f, nil
}

// CSSFamily returns a font-family value with generic fallbacks for SVG.
func CSSFamily(family string) string {
	if family == "" {
		return fallbackCS
	}
	if Resolve(family) == Mono {
		return "'" + family + "', monospace"
	}
	return "'" + family + "', " + fallbackCS
}
