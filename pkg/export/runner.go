package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorstudio/pkg/cache"
	"github.com/matzehuels/vectorstudio/pkg/observability"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Runner renders exports through an artifact cache.
// Both the CLI and the server use it so caching and instrumentation live in
// one place.
//
// The Runner holds no per-export state; multiple goroutines can use the same
// Runner concurrently as long as they pass distinct documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Result holds the artifacts of one ExportAll call.
type Result struct {
	Artifacts    map[Format][]byte
	DocumentHash string
	CacheHits    int
	Duration     time.Duration
}

// DocumentHash identifies the full content of doc: objects, canvas and
// layer names.
func DocumentHash(doc *scene.Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return cache.Hash(data), nil
}

// Export renders one format, serving it from cache when possible.
func (r *Runner) Export(ctx context.Context, doc *scene.Document, f Format, opts ...Option) ([]byte, error) {
	data, _, err := r.ExportWithCacheInfo(ctx, doc, f, opts...)
	return data, err
}

// ExportWithCacheInfo renders one format and reports whether it came from
// cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, doc *scene.Document, f Format, opts ...Option) ([]byte, bool, error) {
	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, false, err
	}
	return r.export(ctx, doc, hash, f, opts)
}

func (r *Runner) export(ctx context.Context, doc *scene.Document, hash string, f Format, opts []Option) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.ArtifactKey(hash, keyOpts(doc, f, newOptions(opts)))
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "artifact")
		r.Logger.Debug("export cache hit", "format", f, "bytes", len(data))
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Export().OnExportStart(ctx, string(f))
	data, err := Render(doc, f, opts...)
	observability.Export().OnExportComplete(ctx, string(f), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "format", f, "err", err)
	} else {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	r.Logger.Debug("rendered export", "format", f, "bytes", len(data), "duration", time.Since(start))
	return data, false, nil
}

// ExportAll renders every format in formats.
func (r *Runner) ExportAll(ctx context.Context, doc *scene.Document, formats []Format, opts ...Option) (*Result, error) {
	start := time.Now()
	hash, err := DocumentHash(doc)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Artifacts:    make(map[Format][]byte, len(formats)),
		DocumentHash: hash,
	}
	for _, f := range formats {
		data, hit, err := r.export(ctx, doc, hash, f, opts)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f, err)
		}
		res.Artifacts[f] = data
		if hit {
			res.CacheHits++
		}
	}
	res.Duration = time.Since(start)
	r.Logger.Info("exported",
		"formats", formats,
		"cached", res.CacheHits,
		"duration", res.Duration)
	return res, nil
}

// WriteFiles exports formats into dir under their default file names and
// returns the written paths.
func (r *Runner) WriteFiles(ctx context.Context, doc *scene.Document, dir string, formats []Format, opts ...Option) ([]string, error) {
	res, err := r.ExportAll(ctx, doc, formats, opts...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := filepath.Join(dir, f.Filename())
		if err := os.WriteFile(path, res.Artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// keyOpts keeps only the options that change the output of format f.
func keyOpts(doc *scene.Document, f Format, o options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     string(f),
		Width:      doc.Width,
		Height:     doc.Height,
		Background: doc.Background,
	}
	switch f {
	case FormatPNG:
		k.Scale = o.scale
		k.Backend = string(o.backend)
	case FormatPDF:
		k.Backend = string(o.backend)
	}
	return k
}
