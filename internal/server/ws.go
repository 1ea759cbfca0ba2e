package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/vectorstudio/pkg/editor"
	"github.com/matzehuels/vectorstudio/pkg/errors"
	"github.com/matzehuels/vectorstudio/pkg/export"
	"github.com/matzehuels/vectorstudio/pkg/geom"
	"github.com/matzehuels/vectorstudio/pkg/httputil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// pointerEvent is a message from a canvas host. Coordinates are canvas
// units unless View is set, in which case they are mapped through the zoom.
type pointerEvent struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	View bool    `json:"view,omitempty"`
}

// frame is pushed to every client after each change.
type frame struct {
	Type  string       `json:"type"`
	State editor.State `json:"state"`
	SVG   string       `json:"svg"`
}

type errorFrame struct {
	Type  string               `json:"type"`
	Error httputil.ErrorDetail `json:"error"`
}

func newFrame(e *editor.Editor) frame {
	w, h := e.CanvasSize()
	return frame{
		Type:  "frame",
		State: e.State(),
		SVG:   string(export.ViewSVG(e.Scene(), w, h, e.Background())),
	}
}

// apply feeds one pointer event to the editor.
func apply(e *editor.Editor, ev pointerEvent) error {
	p := geom.Pt(ev.X, ev.Y)
	if ev.View {
		p = e.ScreenToCanvas(p)
	}
	switch ev.Type {
	case "down":
		e.PointerDown(p)
	case "move":
		e.PointerMove(p)
	case "up":
		e.PointerUp(p)
	case "dblclick":
		e.DoubleClick(p)
	case "finish":
		e.FinishPath()
	case "cancel":
		e.CancelPath()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown event type %q", ev.Type)
	}
	return nil
}

// publish pushes the current frame to every client.
func (s *Server) publish(ctx context.Context) {
	if s.hub.len() == 0 {
		return
	}
	msg, err := s.frame(ctx)
	if err != nil {
		s.logger.Warn("render frame failed", "err", err)
		return
	}
	s.hub.broadcast(msg)
}

func (s *Server) frame(ctx context.Context) ([]byte, error) {
	var f frame
	if err := s.loop.Do(ctx, func(e *editor.Editor) error {
		f = newFrame(e)
		return nil
	}); err != nil {
		return nil, err
	}
	return json.Marshal(f)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.hub.add(c)
	s.logger.Debug("websocket connected", "remote", r.RemoteAddr, "clients", s.hub.len())

	go c.writePump()

	ctx := context.WithoutCancel(r.Context())
	if msg, err := s.frame(ctx); err == nil {
		s.hub.sendTo(c, msg)
	}
	s.readPump(ctx, c)
	s.hub.remove(c)
	s.logger.Debug("websocket disconnected", "remote", r.RemoteAddr)
}

// readPump processes events until the connection fails.
func (s *Server) readPump(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var ev pointerEvent
		if err := c.conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "err", err)
			}
			return
		}
		err := s.loop.Do(ctx, func(e *editor.Editor) error { return apply(e, ev) })
		if err != nil {
			msg, _ := json.Marshal(errorFrame{
				Type:  "error",
				Error: httputil.ErrorDetail{Code: errors.GetCode(err), Message: errors.UserMessage(err)},
			})
			s.hub.sendTo(c, msg)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				return
			}
			continue
		}
		s.publish(ctx)
	}
}

// client is one WebSocket connection. Only writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// hub tracks connected clients.
type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	logger  *log.Logger
}

func newHub(logger *log.Logger) *hub {
	return &hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// remove unregisters c and closes its send queue, which ends writePump.
func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast queues msg for every client. A full queue drops the message;
// the next frame supersedes it.
func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.queue(c, msg)
	}
}

// sendTo queues msg for c if it is still connected.
func (h *hub) sendTo(c *client, msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		h.queue(c, msg)
	}
}

func (h *hub) queue(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Debug("dropping frame for slow client")
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
