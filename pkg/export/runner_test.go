package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorstudio/pkg/cache"
)

func newTestRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestRunnerCachesArtifacts(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	r := newTestRunner(mc)
	doc, rect, _, _, _ := testDocument()

	first, hit, err := r.ExportWithCacheInfo(ctx, doc, FormatSVG)
	if err != nil || hit {
		t.Fatalf("first export hit=%v err=%v, want miss", hit, err)
	}
	second, hit, err := r.ExportWithCacheInfo(ctx, doc, FormatSVG)
	if err != nil || !hit {
		t.Fatalf("second export hit=%v err=%v, want hit", hit, err)
	}
	if string(first) != string(second) {
		t.Error("cached artifact differs")
	}

	rect.X += 10
	if _, hit, _ := r.ExportWithCacheInfo(ctx, doc, FormatSVG); hit {
		t.Error("changed document must miss")
	}

	if _, hit, _ := r.ExportWithCacheInfo(ctx, doc, FormatPNG, WithScale(1)); hit {
		t.Error("first PNG must miss")
	}
	if _, hit, _ := r.ExportWithCacheInfo(ctx, doc, FormatPNG, WithScale(2)); hit {
		t.Error("different scale must miss")
	}
	if mc.Len() != 4 {
		t.Errorf("cache entries = %d, want 4", mc.Len())
	}
}

func TestRunnerNullCache(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	doc, _, _, _, _ := testDocument()
	for i := 0; i < 2; i++ {
		if _, hit, err := r.ExportWithCacheInfo(context.Background(), doc, FormatJSON); err != nil || hit {
			t.Errorf("export %d hit=%v err=%v", i, hit, err)
		}
	}
}

func TestRunnerExportAll(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(cache.NewMemoryCache())
	doc, _, _, _, _ := testDocument()

	res, err := r.ExportAll(ctx, doc, Formats())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Artifacts) != 4 || res.CacheHits != 0 || res.DocumentHash == "" {
		t.Errorf("result = %d artifacts, %d hits, hash %q", len(res.Artifacts), res.CacheHits, res.DocumentHash)
	}
	res, err = r.ExportAll(ctx, doc, Formats())
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHits != 4 {
		t.Errorf("cache hits = %d, want 4", res.CacheHits)
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc, _, _, _, _ := testDocument()
	if _, err := newTestRunner(nil).Export(ctx, doc, FormatSVG); err == nil {
		t.Error("canceled context should fail")
	}
}

func TestRunnerWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	doc, _, _, _, _ := testDocument()
	paths, err := newTestRunner(nil).WriteFiles(context.Background(), doc, dir, []Format{FormatSVG, FormatJSON})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "vector-design.svg"), filepath.Join(dir, "vector-design.json")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("path %d = %s, want %s", i, p, want[i])
		}
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}
