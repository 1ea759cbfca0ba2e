// Package editor drives a Vector Studio editing session.
//
// An [Editor] owns the scene, the layer registry, the undo history, the
// path machine and the selection. Hosts feed it pointer events already
// mapped to canvas coordinates and panel edits, and read back the state to
// render. Every operation that changes the document ends with exactly one
// history entry; transient changes (path previews, property edits in
// progress, drags in progress) do not.
//
// An Editor is not safe for concurrent use. Hosts that receive input from
// several goroutines run it inside a [Loop].
package editor

import (
	"bytes"
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vectorstudio/pkg/config"
	"github.com/matzehuels/vectorstudio/pkg/history"
	"github.com/matzehuels/vectorstudio/pkg/layers"
	"github.com/matzehuels/vectorstudio/pkg/observability"
	"github.com/matzehuels/vectorstudio/pkg/pen"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// Editor is one editing session over one document.
type Editor struct {
	scene   *scene.Scene
	layers  *layers.Registry
	history *history.History
	pen     *pen.Machine

	tool     Tool
	selected string
	panel    Panel
	pending  bool // property edit not yet committed

	drawing string // in-progress committed path
	preview string // path preview
	drag    *drag
	editing string // textbox in text-edit mode

	name       string
	background string
	width      int
	height     int
	zoom       int
	grid       Grid

	fontFamily string
	dupOffset  float64

	cfg       config.Config
	logger    *log.Logger
	hooks     observability.EditorHooks
	listeners map[int]func()
	nextSub   int
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithConfig applies canvas, grid, pen, panel and history settings.
func WithConfig(cfg config.Config) Option {
	return func(e *Editor) { e.cfg = cfg }
}

// WithHooks overrides the globally registered editor hooks.
func WithHooks(h observability.EditorHooks) Option {
	return func(e *Editor) {
		if h != nil {
			e.hooks = h
		}
	}
}

// New creates an editor over an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		cfg:       config.Default(),
		logger:    log.Default(),
		hooks:     observability.Editor(),
		listeners: make(map[int]func()),
		tool:      ToolSelect,
		zoom:      100,
	}
	for _, opt := range opts {
		opt(e)
	}

	c := e.cfg
	e.name = c.Canvas.Name
	e.background = c.Canvas.Background
	e.width, e.height = c.Canvas.Width, c.Canvas.Height
	e.grid = Grid{Show: c.Grid.Show, Size: c.Grid.Size}
	e.fontFamily = c.Defaults.FontFamily
	e.dupOffset = c.Defaults.DuplicateOffset
	e.panel = Panel{
		Fill:           c.Defaults.Fill,
		Stroke:         c.Defaults.Stroke,
		StrokeWidth:    c.Defaults.StrokeWidth,
		FontSize:       c.Defaults.FontSize,
		OpacityPercent: float64(c.Defaults.Opacity),
	}
	e.pen = pen.New(pen.WithThreshold(c.Pen.CloseThreshold))

	e.scene = scene.NewScene()
	e.layers = layers.New()
	e.history = history.New(scene.Snapshot(e.scene), history.WithLimit(c.History.Limit))
	e.regenerateGrid()
	return e
}

// Open creates an editor over a copy of doc. The document becomes the base
// history entry.
func Open(doc *scene.Document, opts ...Option) (*Editor, error) {
	e := New(opts...)
	if err := e.Load(doc); err != nil {
		return nil, err
	}
	return e, nil
}

// Load replaces the whole session with doc: scene, canvas settings and
// layer names. History restarts from the loaded state.
func (e *Editor) Load(doc *scene.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	e.pen.Cancel()
	e.drawing, e.preview, e.drag, e.editing = "", "", nil, ""
	e.pending = false

	e.scene = doc.Scene()
	e.name = doc.Name
	e.background = doc.Background
	e.width, e.height = doc.Width, doc.Height
	e.layers = layers.New()
	e.layers.Adopt(doc.LayerNames)
	e.layers.Sync(e.scene)
	e.history.Reset(scene.Snapshot(e.scene))
	e.regenerateGrid()
	e.deselect()
	e.logger.Debug("document loaded", "name", e.name, "objects", e.layers.Len())
	e.notify()
	return nil
}

// Document returns a deep copy of the committed document, flushing any
// pending property edit first.
func (e *Editor) Document() *scene.Document {
	e.flush()
	doc := scene.NewDocument(e.name, e.width, e.height)
	doc.Background = e.background
	doc.SetScene(e.scene)
	doc.LayerNames = e.layers.Names()
	return doc
}

// Snapshot returns the canonical encoding of the committed objects.
func (e *Editor) Snapshot() []byte { return scene.Snapshot(e.scene) }

// Scene exposes the live scene for rendering and hit testing. Callers must
// not mutate it.
func (e *Editor) Scene() *scene.Scene { return e.scene }

// Object returns the live object with the given ID.
func (e *Editor) Object(id string) (*scene.Object, bool) { return e.scene.Get(id) }

// Name returns the project name.
func (e *Editor) Name() string { return e.name }

// SetName renames the project. It is metadata and does not enter history.
func (e *Editor) SetName(name string) {
	if name == "" {
		name = scene.DefaultName
	}
	e.name = name
	e.notify()
}

// OnChange registers fn to run after every change that affects rendering.
// The returned function unregisters it. fn runs on the editor's goroutine.
func (e *Editor) OnChange(fn func()) (cancel func()) {
	id := e.nextSub
	e.nextSub++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

func (e *Editor) notify() {
	for _, fn := range e.listeners {
		fn()
	}
}

// commit records the current scene as one history entry. A commit that
// would not change the top entry is dropped.
func (e *Editor) commit(op string) {
	e.pending = false
	e.layers.Sync(e.scene)
	snap := scene.Snapshot(e.scene)
	if !bytes.Equal(snap, e.history.Current()) {
		e.history.Commit(snap)
		undo, _ := e.history.Depth()
		e.logger.Debug("commit", "op", op, "objects", e.layers.Len(), "undo", undo)
		e.hooks.OnCommit(context.Background(), op, e.layers.Len())
	}
	e.notify()
}

// flush commits a pending property edit. While a path is in progress the
// edit can only concern that path, and it is committed with it.
func (e *Editor) flush() {
	if e.pending && !e.Drawing() {
		e.commit("properties")
	}
}

// restore replaces the scene with a history entry and rebuilds everything
// derived from it before anything renders.
func (e *Editor) restore(snap []byte) {
	s, err := scene.Restore(snap)
	if err != nil {
		// History only holds snapshots this package produced.
		e.logger.Error("restore failed", "err", err)
		return
	}
	e.scene = s
	e.drag = nil
	e.regenerateGrid()
	e.layers.Sync(e.scene)

	if o, ok := e.scene.Get(e.selected); ok && o.Selectable {
		e.loadPanel(o)
	} else {
		e.deselect()
	}
	if _, ok := e.scene.Get(e.editing); !ok {
		e.editing = ""
	}
	e.notify()
}
