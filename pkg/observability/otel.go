package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/matzehuels/vectorstudio/pkg/observability"

// OTelHooks implements every hook interface with OpenTelemetry instruments.
type OTelHooks struct {
	commits     metric.Int64Counter
	navigations metric.Int64Counter
	imports     metric.Int64Counter
	exports     metric.Int64Counter
	exportBytes metric.Int64Counter
	exportTime  metric.Float64Histogram
	cacheOps    metric.Int64Counter
}

// NewOTelHooks creates instruments on the global meter provider. Without a
// configured provider the instruments are no-ops.
func NewOTelHooks() (*OTelHooks, error) {
	return NewOTelHooksWithMeter(otel.Meter(instrumentationName))
}

// NewOTelHooksWithMeter creates instruments on m.
func NewOTelHooksWithMeter(m metric.Meter) (*OTelHooks, error) {
	h := &OTelHooks{}
	var err error

	if h.commits, err = m.Int64Counter("vectorstudio.editor.commits",
		metric.WithDescription("History entries committed")); err != nil {
		return nil, err
	}
	if h.navigations, err = m.Int64Counter("vectorstudio.editor.navigations",
		metric.WithDescription("Undo and redo steps applied")); err != nil {
		return nil, err
	}
	if h.imports, err = m.Int64Counter("vectorstudio.editor.image_imports",
		metric.WithDescription("Image imports by outcome")); err != nil {
		return nil, err
	}
	if h.exports, err = m.Int64Counter("vectorstudio.export.count",
		metric.WithDescription("Exports by format and outcome")); err != nil {
		return nil, err
	}
	if h.exportBytes, err = m.Int64Counter("vectorstudio.export.bytes",
		metric.WithDescription("Bytes produced by exports"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if h.exportTime, err = m.Float64Histogram("vectorstudio.export.duration",
		metric.WithDescription("Export render time"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if h.cacheOps, err = m.Int64Counter("vectorstudio.cache.operations",
		metric.WithDescription("Cache lookups and writes")); err != nil {
		return nil, err
	}
	return h, nil
}

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("outcome", "error")
	}
	return attribute.String("outcome", "ok")
}

func (h *OTelHooks) OnCommit(ctx context.Context, op string, objects int) {
	h.commits.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (h *OTelHooks) OnUndo(ctx context.Context) {
	h.navigations.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", "undo")))
}

func (h *OTelHooks) OnRedo(ctx context.Context) {
	h.navigations.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", "redo")))
}

func (h *OTelHooks) OnImageImport(ctx context.Context, mime string, size int, _ time.Duration, err error) {
	h.imports.Add(ctx, 1, metric.WithAttributes(attribute.String("mime", mime), outcome(err)))
}

func (h *OTelHooks) OnExportStart(context.Context, string) {}

func (h *OTelHooks) OnExportComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("format", format), outcome(err))
	h.exports.Add(ctx, 1, attrs)
	h.exportTime.Record(ctx, d.Seconds(), attrs)
	if err == nil {
		h.exportBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("format", format)))
	}
}

func (h *OTelHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheOps.Add(ctx, 1, metric.WithAttributes(attribute.String("type", keyType), attribute.String("op", "hit")))
}

func (h *OTelHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheOps.Add(ctx, 1, metric.WithAttributes(attribute.String("type", keyType), attribute.String("op", "miss")))
}

func (h *OTelHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.cacheOps.Add(ctx, 1, metric.WithAttributes(attribute.String("type", keyType), attribute.String("op", "set")))
}

var (
	_ EditorHooks = (*OTelHooks)(nil)
	_ ExportHooks = (*OTelHooks)(nil)
	_ CacheHooks  = (*OTelHooks)(nil)
)
