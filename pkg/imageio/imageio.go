// Package imageio decodes imported image files into scene images.
//
// The file type is sniffed from content, never from a file name. PNG, JPEG
// and GIF are kept in their original encoding when no downscaling is
// needed; WebP, BMP and TIFF are always re-encoded as PNG so that every
// exporter can embed them. JPEG orientation tags are applied.
package imageio

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/vectorstudio/pkg/cache"
	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/observability"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// ErrUnsupported is returned for content that is not a supported image.
var ErrUnsupported = stderrors.New("unsupported image type")

// passthrough lists MIME types stored as-is when not resized.
var passthrough = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

var transcoded = map[string]bool{
	"image/webp": true,
	"image/bmp":  true,
	"image/tiff": true,
}

// Decoder turns image bytes into scene images. The zero value decodes
// without downscaling or caching.
type Decoder struct {
	// MaxDimension bounds the longer side in pixels; 0 keeps the size.
	MaxDimension int
	Cache        cache.Cache
	Keyer        cache.Keyer
}

// Sniff returns the MIME type of data if it is a supported image.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrUnsupported
	}
	mime := kind.MIME.Value
	if !passthrough[mime] && !transcoded[mime] {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
	}
	return mime, nil
}

// Decode validates and normalizes data. Errors carry code DECODE_FAILED.
func (d *Decoder) Decode(ctx context.Context, data []byte) (*scene.Image, error) {
	mime, err := Sniff(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "import image")
	}

	key := ""
	if d.Cache != nil {
		keyer := d.Keyer
		if keyer == nil {
			keyer = cache.NewDefaultKeyer()
		}
		key = keyer.ImageKey(cache.Hash(data), d.MaxDimension)
		if img, ok := d.cached(ctx, key); ok {
			return img, nil
		}
	}

	img, err := decode(data, mime, d.MaxDimension)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if enc, err := json.Marshal(img); err == nil && d.Cache.Set(ctx, key, enc, 0) == nil {
			observability.Cache().OnCacheSet(ctx, "image", len(enc))
		}
	}
	return img, nil
}

func (d *Decoder) cached(ctx context.Context, key string) (*scene.Image, bool) {
	data, err := cache.Lookup(ctx, d.Cache, key)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "image")
		return nil, false
	}
	var img scene.Image
	if json.Unmarshal(data, &img) != nil {
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "image")
	return &img, true
}

func decode(data []byte, mime string, maxDim int) (*scene.Image, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", mime)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeDecodeFailed, "image has no pixels")
	}

	resize := maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim)
	if !resize && passthrough[mime] && !rotated(data, src) {
		return &scene.Image{
			Data:        append([]byte(nil), data...),
			MIME:        mime,
			PixelWidth:  b.Dx(),
			PixelHeight: b.Dy(),
		}, nil
	}

	var out image.Image = src
	if resize {
		out = imaging.Fit(src, maxDim, maxDim, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	ob := out.Bounds()
	return &scene.Image{
		Data:        buf.Bytes(),
		MIME:        "image/png",
		PixelWidth:  ob.Dx(),
		PixelHeight: ob.Dy(),
	}, nil
}

// rotated reports whether auto-orientation changed the image dimensions
// relative to the raw encoding, in which case the original bytes would
// display differently from the decoded pixels.
func rotated(data []byte, decoded image.Image) bool {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	b := decoded.Bounds()
	return cfg.Width != b.Dx() || cfg.Height != b.Dy()
}

// DecodeFile reads and decodes an image file.
func (d *Decoder) DecodeFile(ctx context.Context, path string) (*scene.Image, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "image %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return d.Decode(ctx, data)
}

// Pixels decodes the stored bytes of a scene image for rasterization.
func Pixels(img *scene.Image) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode %s", img.MIME)
	}
	return src, nil
}
