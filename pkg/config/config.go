// Package config loads Vector Studio settings from a TOML file.
//
// Every field has a default, so an empty or missing file is valid. Values
// are validated after decoding; invalid settings produce errors with code
// INVALID_CONFIG.
//
// Example file:
//
//	[canvas]
//	width = 1024
//	height = 768
//
//	[grid]
//	show = true
//	size = 25
//
//	[export]
//	png_scale = 2
package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Config is the complete settings tree.
type Config struct {
	Canvas   Canvas   `toml:"canvas"`
	Grid     Grid     `toml:"grid"`
	Pen      Pen      `toml:"pen"`
	Defaults Defaults `toml:"defaults"`
	History  History  `toml:"history"`
	Export   Export   `toml:"export"`
	Server   Server   `toml:"server"`
}

// Canvas configures new documents.
type Canvas struct {
	Name       string `toml:"name"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

// Grid configures the alignment grid.
type Grid struct {
	Show bool `toml:"show"`
	Size int  `toml:"size"`
}

// Pen configures the path tool.
type Pen struct {
	CloseThreshold float64 `toml:"close_threshold"`
}

// Defaults seeds the property panel.
type Defaults struct {
	Fill            string  `toml:"fill"`
	Stroke          string  `toml:"stroke"`
	StrokeWidth     float64 `toml:"stroke_width"`
	FontFamily      string  `toml:"font_family"`
	FontSize        float64 `toml:"font_size"`
	Opacity         int     `toml:"opacity"`
	DuplicateOffset float64 `toml:"duplicate_offset"`
}

// History configures undo.
type History struct {
	// Limit caps the undo stack; 0 is unlimited.
	Limit int `toml:"limit"`
}

// Export configures the export pipeline.
type Export struct {
	Dir      string  `toml:"dir"`
	PNGScale float64 `toml:"png_scale"`
	// Backend selects PNG rasterization: "native" or "rsvg".
	Backend string `toml:"backend"`
	Cache   bool   `toml:"cache"`
}

// Server configures the HTTP host.
type Server struct {
	Addr string `toml:"addr"`
	// MaxUploadBytes limits image and document uploads.
	MaxUploadBytes int64 `toml:"max_upload_bytes"`
	// ImageMaxDimension downscales imported images larger than this; 0 keeps size.
	ImageMaxDimension int `toml:"image_max_dimension"`
}

// Grid size bounds and step.
const (
	MinGridSize  = 5
	MaxGridSize  = 50
	GridSizeStep = 5
)

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Name:       scene.DefaultName,
			Width:      800,
			Height:     600,
			Background: "#ffffff",
		},
		Grid: Grid{Size: 20},
		Pen:  Pen{CloseThreshold: 20},
		Defaults: Defaults{
			Fill:            "#ffffff",
			Stroke:          "#000000",
			StrokeWidth:     1,
			FontFamily:      "Arial",
			FontSize:        20,
			Opacity:         100,
			DuplicateOffset: 20,
		},
		Export: Export{
			Dir:      ".",
			PNGScale: 1,
			Backend:  "native",
			Cache:    true,
		},
		Server: Server{
			Addr:              ":8080",
			MaxUploadBytes:    20 << 20,
			ImageMaxDimension: 2048,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/vectorstudio/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vectorstudio", "config.toml"), nil
}

// Load reads path over the defaults. When optional is true a missing file
// yields the defaults.
func Load(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and normalizes colors in place.
func (c *Config) Validate() error {
	if err := scene.ValidateCanvasSize(c.Canvas.Width, c.Canvas.Height); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "canvas")
	}
	if c.Grid.Size < MinGridSize || c.Grid.Size > MaxGridSize || c.Grid.Size%GridSizeStep != 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"grid size %d must be a multiple of %d in %d-%d", c.Grid.Size, GridSizeStep, MinGridSize, MaxGridSize)
	}
	if c.Pen.CloseThreshold <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pen close_threshold must be positive")
	}

	for _, p := range []*string{&c.Canvas.Background, &c.Defaults.Fill, &c.Defaults.Stroke} {
		n, err := scene.NormalizeColor(*p)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "color")
		}
		*p = n
	}

	d := c.Defaults
	switch {
	case d.StrokeWidth < 0 || d.StrokeWidth > 20:
		return errors.New(errors.ErrCodeInvalidConfig, "stroke_width %v out of range 0-20", d.StrokeWidth)
	case d.FontSize < 8 || d.FontSize > 72:
		return errors.New(errors.ErrCodeInvalidConfig, "font_size %v out of range 8-72", d.FontSize)
	case d.Opacity < 0 || d.Opacity > 100:
		return errors.New(errors.ErrCodeInvalidConfig, "opacity %d out of range 0-100", d.Opacity)
	case d.FontFamily == "":
		return errors.New(errors.ErrCodeInvalidConfig, "font_family must not be empty")
	}

	if c.History.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "history limit must not be negative")
	}
	if c.Export.PNGScale <= 0 || c.Export.PNGScale > 8 {
		return errors.New(errors.ErrCodeInvalidConfig, "png_scale %v out of range (0, 8]", c.Export.PNGScale)
	}
	if c.Export.Backend != "native" && c.Export.Backend != "rsvg" {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown export backend %q", c.Export.Backend)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_upload_bytes must be positive")
	}
	if c.Server.ImageMaxDimension < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "image_max_dimension must not be negative")
	}
	return nil
}
