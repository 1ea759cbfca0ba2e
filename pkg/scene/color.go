package scene

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/vectorstudio/pkg/errors"
)

// Transparent is the canonical "no paint" color value.
const Transparent = "transparent"

// NormalizeColor canonicalizes a color string. Accepted forms are "#rgb",
// "#rrggbb" (any case), "transparent", "none" and the empty string. Hex
// colors normalize to lowercase "#rrggbb"; "none" normalizes to
// "transparent"; the empty string is kept.
func NormalizeColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return "", nil
	case Transparent, "none":
		return Transparent, nil
	}
	if !isHexColor(s) {
		return "", errors.New(errors.ErrCodeInvalidColor, "invalid color %q: want #rgb or #rrggbb", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return c.Hex(), nil
}

// ParseColor returns the color for a paint value. ok is false when the
// value means no paint or cannot be parsed.
func ParseColor(s string) (c colorful.Color, ok bool) {
	n, err := NormalizeColor(s)
	if err != nil || n == "" || n == Transparent {
		return colorful.Color{}, false
	}
	c, err = colorful.Hex(n)
	return c, err == nil
}

// IsPaint reports whether s paints anything.
func IsPaint(s string) bool {
	_, ok := ParseColor(s)
	return ok
}

func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
