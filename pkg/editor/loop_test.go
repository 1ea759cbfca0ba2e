package editor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

func startLoop(t *testing.T, e *Editor) *Loop {
	t.Helper()
	l := NewLoop(e, WithLoopLogger(log.New(io.Discard)))
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoopDoSerializes(t *testing.T) {
	l := startLoop(t, newTestEditor(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(ctx, func(e *Editor) error {
				e.AddRect()
				return nil
			})
		}()
	}
	wg.Wait()

	var n int
	_ = l.Do(ctx, func(e *Editor) error {
		n = len(e.Layers())
		return nil
	})
	if n != 20 {
		t.Errorf("layers = %d, want 20", n)
	}
}

func TestLoopDoReturnsError(t *testing.T) {
	l := startLoop(t, newTestEditor(t))
	err := l.Do(context.Background(), func(e *Editor) error {
		return e.SetCanvasSize(1, 1)
	})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Do err = %v, want INVALID_INPUT", err)
	}
}

func TestLoopClosed(t *testing.T) {
	l := NewLoop(newTestEditor(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if err := l.Do(context.Background(), func(*Editor) error { return nil }); err != ErrLoopClosed {
		t.Errorf("Do after stop = %v, want ErrLoopClosed", err)
	}
}

func TestImportImage(t *testing.T) {
	l := startLoop(t, newTestEditor(t))
	ctx := context.Background()

	var res ImportResult
	select {
	case res = <-l.ImportImage(ctx, testPNG(t)):
	case <-time.After(5 * time.Second):
		t.Fatal("import timed out")
	}
	if res.Err != nil {
		t.Fatalf("import error: %v", res.Err)
	}

	_ = l.Do(ctx, func(e *Editor) error {
		o, ok := e.Object(res.ObjectID)
		if !ok {
			t.Error("imported object missing")
			return nil
		}
		img := o.Shape.(*scene.Image)
		if img.MIME != "image/png" || img.PixelWidth != 8 || img.PixelHeight != 6 {
			t.Errorf("image = %s %dx%d", img.MIME, img.PixelWidth, img.PixelHeight)
		}
		if o.X != 100 || o.Y != 100 || o.ScaleX != 0.5 {
			t.Errorf("placement = (%v,%v) scale %v", o.X, o.Y, o.ScaleX)
		}
		if id, _ := e.Selection(); id != o.ID {
			t.Error("imported image should be selected")
		}
		if !e.CanUndo() {
			t.Error("import should enter history")
		}
		return nil
	})
}

func TestImportImageRejectsGarbage(t *testing.T) {
	e := newTestEditor(t)
	l := startLoop(t, e)
	ctx := context.Background()

	res := <-l.ImportImage(ctx, []byte("not an image"))
	if !errors.Is(res.Err, errors.ErrCodeDecodeFailed) {
		t.Errorf("err = %v, want DECODE_FAILED", res.Err)
	}
	_ = l.Do(ctx, func(e *Editor) error {
		if len(e.Layers()) != 0 || e.CanUndo() {
			t.Error("failed import must not change the scene")
		}
		return nil
	})
}
