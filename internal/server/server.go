// Package server hosts an editing session over HTTP.
//
// The server owns one [editor.Loop]. Every request, REST or WebSocket, is
// executed as a closure on that loop, so the editor sees a single ordered
// stream of operations no matter how many clients are connected. After each
// change the server pushes the session state and a rendered view to every
// WebSocket client.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/vectorstudio/pkg/config"
	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/export"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP host of one editing session.
type Server struct {
	loop    *editor.Loop
	runner  *export.Runner
	cfg     config.Config
	logger  *log.Logger
	hub     *hub
	router  chi.Router
	exports []export.Option
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig applies server and export settings.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) { s.cfg = cfg }
}

// WithRunner sets the export runner. The default renders without a cache.
func WithRunner(r *export.Runner) Option {
	return func(s *Server) {
		if r != nil {
			s.runner = r
		}
	}
}

// New creates a server for the session run by loop. The caller runs the
// loop.
func New(loop *editor.Loop, opts ...Option) *Server {
	s := &Server{
		loop:   loop,
		cfg:    config.Default(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runner == nil {
		s.runner = export.NewRunner(nil, nil, s.logger)
	}
	if b, err := export.ParseBackend(s.cfg.Export.Backend); err == nil {
		s.exports = append(s.exports, export.WithBackend(b))
	}
	s.exports = append(s.exports, export.WithScale(s.cfg.Export.PNGScale))
	s.hub = newHub(s.logger)
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/scene", s.handleGetScene)
		r.Put("/scene", s.handlePutScene)
		r.Post("/tool", s.handleTool)
		r.Post("/objects", s.handleAddObject)
		r.Post("/text", s.handleText)
		r.Delete("/selection", s.handleDelete)
		r.Post("/selection/duplicate", s.handleDuplicate)
		r.Post("/selection/order", s.handleOrder)
		r.Patch("/properties", s.handleProperties)
		r.Post("/properties/commit", s.handleCommitProperties)
		r.Patch("/layers/{id}", s.handleRenameLayer)
		r.Post("/layers/{id}/{action}", s.handleLayerAction)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Post("/images", s.handleImportImage)
		r.Put("/canvas", s.handleCanvas)
		r.Put("/grid", s.handleGrid)
		r.Put("/zoom", s.handleZoom)
	})
	r.Get("/export/{file}", s.handleExport)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}
