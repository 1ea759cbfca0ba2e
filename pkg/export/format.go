package export

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/vectorstudio/pkg/errors"
)

// Format is an export file format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// BaseName is the file name, without extension, of every export.
const BaseName = "vector-design"

// Formats lists the supported formats in menu order.
func Formats() []Format {
	return []Format{FormatSVG, FormatPNG, FormatPDF, FormatJSON}
}

// ParseFormat accepts a format name or extension in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	switch f {
	case FormatSVG, FormatPNG, FormatPDF, FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported export format %q (want svg, png, pdf or json)", s)
}

// ParseFormats parses a list of format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	var out []Format
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// FormatFromFilename derives the format from a file name's extension.
func FormatFromFilename(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "file name %q has no extension", name)
	}
	return ParseFormat(ext)
}

// Filename returns the default file name, e.g. "vector-design.png".
func (f Format) Filename() string { return BaseName + "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}
