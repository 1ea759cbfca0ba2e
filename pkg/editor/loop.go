package editor

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorstudio/pkg/imageio"
)

// ErrLoopClosed is returned when submitting to a stopped Loop.
var ErrLoopClosed = stderrors.New("editor loop closed")

// Loop serializes access to an Editor. Every submitted function runs on
// the loop goroutine, one at a time, in submission order.
type Loop struct {
	ed      *Editor
	tasks   chan func(*Editor)
	done    chan struct{}
	decoder *imageio.Decoder
	logger  *log.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithDecoder sets the image decoder used by ImportImage.
func WithDecoder(d *imageio.Decoder) LoopOption {
	return func(l *Loop) {
		if d != nil {
			l.decoder = d
		}
	}
}

// WithLoopLogger sets the loop's logger. The default is log.Default().
func WithLoopLogger(logger *log.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop wraps ed. Call Run to start processing.
func NewLoop(ed *Editor, opts ...LoopOption) *Loop {
	l := &Loop{
		ed:      ed,
		tasks:   make(chan func(*Editor), 64),
		done:    make(chan struct{}),
		decoder: &imageio.Decoder{},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes submissions until ctx is canceled. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn(l.ed)
		}
	}
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Editor) error) error {
	errc := make(chan error, 1)
	task := func(ed *Editor) { errc <- fn(ed) }
	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues fn without waiting for it to run. It must not be called from
// the loop goroutine.
func (l *Loop) Post(fn func(*Editor)) error {
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// ImportResult is the outcome of an asynchronous image import.
type ImportResult struct {
	ObjectID string
	Err      error
}

// ImportImage decodes data off the loop and inserts the image only once
// decoding succeeded. Failures are logged and insert nothing. The returned
// channel receives exactly one result.
func (l *Loop) ImportImage(ctx context.Context, data []byte) <-chan ImportResult {
	out := make(chan ImportResult, 1)
	go func() {
		start := time.Now()
		img, err := l.decoder.Decode(ctx, data)
		mime := ""
		if img != nil {
			mime = img.MIME
		}
		l.ed.hooks.OnImageImport(ctx, mime, len(data), time.Since(start), err)
		if err != nil {
			l.logger.Warn("image import failed", "bytes", len(data), "err", err)
			out <- ImportResult{Err: err}
			return
		}

		err = l.Post(func(ed *Editor) {
			o := ed.AddImage(img)
			l.logger.Info("image imported", "id", o.ID, "mime", img.MIME,
				"width", img.PixelWidth, "height", img.PixelHeight)
			out <- ImportResult{ObjectID: o.ID}
		})
		if err != nil {
			out <- ImportResult{Err: err}
		}
	}()
	return out
}
