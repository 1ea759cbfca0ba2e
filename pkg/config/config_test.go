package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/vectorstudio/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 600 {
		t.Errorf("canvas = %dx%d, want 800x600", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[canvas]
width = 1024
background = "#EEE"

[grid]
show = true
size = 25

[defaults]
fill = "#FF0000"

[export]
png_scale = 2
backend = "rsvg"
`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Canvas.Width != 1024 || cfg.Canvas.Height != 600 {
		t.Errorf("canvas = %dx%d, want 1024x600", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Background != "#eeeeee" {
		t.Errorf("background = %q, want normalized #eeeeee", cfg.Canvas.Background)
	}
	if !cfg.Grid.Show || cfg.Grid.Size != 25 {
		t.Errorf("grid = %+v", cfg.Grid)
	}
	if cfg.Defaults.Fill != "#ff0000" || cfg.Defaults.Stroke != "#000000" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if cfg.Export.PNGScale != 2 || cfg.Export.Backend != "rsvg" {
		t.Errorf("export = %+v", cfg.Export)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", "[canvas\nwidth = 1"},
		{"unknown key", "[canvas]\ndepth = 3"},
		{"canvas too small", "[canvas]\nwidth = 10"},
		{"grid step", "[grid]\nsize = 12"},
		{"grid too large", "[grid]\nsize = 55"},
		{"bad color", "[defaults]\nstroke = \"blue\""},
		{"stroke width", "[defaults]\nstroke_width = 25"},
		{"font size", "[defaults]\nfont_size = 4"},
		{"opacity", "[defaults]\nopacity = 101"},
		{"threshold", "[pen]\nclose_threshold = 0"},
		{"backend", "[export]\nbackend = \"cairo\""},
		{"history", "[history]\nlimit = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")

	cfg, err := Load(missing, true)
	if err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if cfg.Grid.Size != 20 {
		t.Errorf("expected defaults, got grid size %d", cfg.Grid.Size)
	}

	if _, err := Load(missing, false); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("required missing file error = %v, want INVALID_CONFIG", err)
	}

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path, false)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Server.Addr)
	}
}
