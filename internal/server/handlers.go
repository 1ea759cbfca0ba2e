package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/export"
	"github.com/matzehuels/vectorstudio/pkg/httputil"
	"github.com/matzehuels/vectorstudio/pkg/imageio"
	"github.com/matzehuels/vectorstudio/pkg/scene"
)

// mutationResponse is returned by every state-changing endpoint. Changed
// is false when the editor treated the request as a no-op.
type mutationResponse struct {
	Changed  bool         `json:"changed"`
	ObjectID string       `json:"objectId,omitempty"`
	State    editor.State `json:"state"`
}

// mutate runs fn on the loop, answers with the resulting state and pushes
// a frame to WebSocket clients.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(e *editor.Editor) (mutationResponse, error)) {
	var resp mutationResponse
	err := s.loop.Do(r.Context(), func(e *editor.Editor) error {
		var err error
		if resp, err = fn(e); err != nil {
			return err
		}
		resp.State = e.State()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.publish(r.Context())
	httputil.WriteJSON(w, status, resp)
}

// changed adapts an editor operation reporting success as a bool.
func changed(ok bool) (mutationResponse, error) { return mutationResponse{Changed: ok}, nil }

func (s *Server) maxUpload() int64 {
	if n := s.cfg.Server.MaxUploadBytes; n > 0 {
		return n
	}
	return httputil.DefaultMaxBody
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var st editor.State
	err := s.loop.Do(r.Context(), func(e *editor.Editor) error {
		st = e.State()
		return nil
	})
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (s *Server) document(ctx context.Context) (*scene.Document, error) {
	var doc *scene.Document
	err := s.loop.Do(ctx, func(e *editor.Editor) error {
		doc = e.Document()
		return nil
	})
	return doc, err
}

func (s *Server) handleGetScene(w http.ResponseWriter, r *http.Request) {
	doc, err := s.document(r.Context())
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutScene(w http.ResponseWriter, r *http.Request) {
	data, err := httputil.ReadBody(w, r, s.maxUpload())
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	doc, err := scene.ReadDocument(bytes.NewReader(data))
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		if err := e.Load(doc); err != nil {
			return mutationResponse{}, err
		}
		s.logger.Info("document loaded", "name", doc.Name, "objects", len(doc.Objects))
		return changed(true)
	})
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tool string `json:"tool"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	tool, err := editor.ParseTool(req.Tool)
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		e.SetTool(tool)
		return changed(true)
	})
}

func (s *Server) handleAddObject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind string `json:"kind"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	var add func(*editor.Editor) *scene.Object
	switch scene.Kind(req.Kind) {
	case scene.KindRect:
		add = (*editor.Editor).AddRect
	case scene.KindEllipse, "circle":
		add = (*editor.Editor).AddEllipse
	case scene.KindTextbox, "text":
		add = (*editor.Editor).AddText
	default:
		httputil.WriteError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "unknown object kind %q (want rect, ellipse or text)", req.Kind))
		return
	}
	s.mutate(w, r, http.StatusCreated, func(e *editor.Editor) (mutationResponse, error) {
		return mutationResponse{Changed: true, ObjectID: add(e).ID}, nil
	})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
		Done bool   `json:"done"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		ok := e.SetText(req.Text)
		if req.Done {
			e.EndTextEditing()
		}
		return changed(ok)
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		return changed(e.DeleteSelected())
	})
}

func (s *Server) handleDuplicate(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		o, ok := e.DuplicateSelected()
		if !ok {
			return changed(false)
		}
		return mutationResponse{Changed: true, ObjectID: o.ID}, nil
	})
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Op string `json:"op"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	ops := map[string]func(*editor.Editor) bool{
		"forward":  (*editor.Editor).BringForward,
		"backward": (*editor.Editor).SendBackward,
		"front":    (*editor.Editor).BringToFront,
		"back":     (*editor.Editor).SendToBack,
	}
	op, ok := ops[req.Op]
	if !ok {
		httputil.WriteError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "unknown order op %q (want forward, backward, front or back)", req.Op))
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		return changed(op(e))
	})
}

// propertiesRequest carries any subset of panel fields. Commit ends the
// edit in the same request.
type propertiesRequest struct {
	Fill        *string  `json:"fill"`
	Stroke      *string  `json:"stroke"`
	StrokeWidth *float64 `json:"strokeWidth"`
	Opacity     *float64 `json:"opacity"`
	FontSize    *float64 `json:"fontSize"`
	Commit      bool     `json:"commit"`
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	var req propertiesRequest
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		if req.Fill != nil {
			if err := e.SetFill(*req.Fill); err != nil {
				return mutationResponse{}, err
			}
		}
		if req.Stroke != nil {
			if err := e.SetStroke(*req.Stroke); err != nil {
				return mutationResponse{}, err
			}
		}
		if req.StrokeWidth != nil {
			e.SetStrokeWidth(*req.StrokeWidth)
		}
		if req.Opacity != nil {
			e.SetOpacityPercent(*req.Opacity)
		}
		if req.FontSize != nil {
			e.SetFontSize(*req.FontSize)
		}
		pending := e.PendingEdit()
		if req.Commit {
			e.EndPropertyEdit()
		}
		return changed(pending)
	})
}

func (s *Server) handleCommitProperties(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		pending := e.PendingEdit()
		e.EndPropertyEdit()
		return changed(pending)
	})
}

func hasLayer(e *editor.Editor, id string) error {
	for _, l := range e.Layers() {
		if l.ID == id {
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "layer %q not found", id)
}

func (s *Server) handleRenameLayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "layer name must not be empty"))
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		if err := hasLayer(e, id); err != nil {
			return mutationResponse{}, err
		}
		return changed(e.RenameLayer(id, req.Name))
	})
}

func (s *Server) handleLayerAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var act func(*editor.Editor, string) bool
	switch action := chi.URLParam(r, "action"); action {
	case "visibility":
		act = (*editor.Editor).ToggleLayerVisibility
	case "lock":
		act = (*editor.Editor).ToggleLayerLock
	case "select":
		act = (*editor.Editor).SelectLayer
	default:
		httputil.WriteError(w, s.logger, errors.New(errors.ErrCodeNotFound, "unknown layer action %q", action))
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		if err := hasLayer(e, id); err != nil {
			return mutationResponse{}, err
		}
		return changed(act(e, id))
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		return changed(e.Undo())
	})
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		return changed(e.Redo())
	})
}

// handleImportImage accepts raw image bytes and inserts the image once it
// is decoded. Clients learn about the insertion from the WebSocket frame.
func (s *Server) handleImportImage(w http.ResponseWriter, r *http.Request) {
	data, err := httputil.ReadBody(w, r, s.maxUpload())
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	if _, err := imageio.Sniff(data); err != nil {
		httputil.WriteError(w, s.logger, errors.Wrap(errors.ErrCodeDecodeFailed, err, "import image"))
		return
	}

	ctx := context.WithoutCancel(r.Context())
	results := s.loop.ImportImage(ctx, data)
	go func() {
		if res := <-results; res.Err == nil {
			s.publish(ctx)
		}
	}()
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "importing"})
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width      int     `json:"width"`
		Height     int     `json:"height"`
		Background string  `json:"background"`
		Name       *string `json:"name"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		if err := e.SetCanvasSize(req.Width, req.Height); err != nil {
			return mutationResponse{}, err
		}
		if req.Background != "" {
			if err := e.SetBackground(req.Background); err != nil {
				return mutationResponse{}, err
			}
		}
		if req.Name != nil {
			e.SetName(*req.Name)
		}
		return changed(true)
	})
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	var req editor.Grid
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		if err := e.SetGrid(req); err != nil {
			return mutationResponse{}, err
		}
		return changed(true)
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Zoom int `json:"zoom"`
	}
	if err := httputil.DecodeJSON(w, r, &req, 0); err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	s.mutate(w, r, http.StatusOK, func(e *editor.Editor) (mutationResponse, error) {
		e.SetZoom(req.Zoom)
		return changed(true)
	})
}

// handleExport renders the committed document. The format comes from the
// file extension; ?scale= and ?backend= override the configured defaults.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.FormatFromFilename(chi.URLParam(r, "file"))
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	opts := append([]export.Option(nil), s.exports...)
	q := r.URL.Query()
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			httputil.WriteError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts = append(opts, export.WithScale(scale))
	}
	if v := q.Get("backend"); v != "" {
		b, err := export.ParseBackend(v)
		if err != nil {
			httputil.WriteError(w, s.logger, err)
			return
		}
		opts = append(opts, export.WithBackend(b))
	}

	doc, err := s.document(r.Context())
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	data, err := s.runner.Export(r.Context(), doc, f, opts...)
	if err != nil {
		httputil.WriteError(w, s.logger, err)
		return
	}
	httputil.Attachment(w, f.Filename(), f.ContentType(), len(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
