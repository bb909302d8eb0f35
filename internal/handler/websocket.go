package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/CageChen/spaceinspect/internal/metrics"
	"github.com/CageChen/spaceinspect/internal/session"
	"github.com/CageChen/spaceinspect/internal/watcher"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// dirChangeInterval throttles change notifications per session.
const dirChangeInterval = 250 * time.Millisecond

// WSMessage represents a WebSocket message sent to the client
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSRequest is a message received from the client.
type WSRequest struct {
	Event session.Event `json:"event"`
}

// WSHandler runs one navigation session per WebSocket connection. The
// server owns the session state; events are handled one at a time in the
// order they arrive.
type WSHandler struct {
	api   *APIHandler
	watch bool
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(api *APIHandler, watch bool) *WSHandler {
	return &WSHandler{api: api, watch: watch}
}

type wsSession struct {
	conn *websocket.Conn
	log  *zap.Logger
	mu   sync.Mutex

	lastChange time.Time
}

func (s *wsSession) send(msg WSMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *wsSession) onDirChange(e watcher.Event) {
	s.mu.Lock()
	if time.Since(s.lastChange) < dirChangeInterval {
		s.mu.Unlock()
		return
	}
	s.lastChange = time.Now()
	s.mu.Unlock()

	err := s.send(WSMessage{
		Type: "dirChanged",
		Payload: map[string]string{
			"event": e.Type.String(),
			"dir":   e.Dir,
			"path":  e.Path,
		},
	})
	if err != nil {
		s.log.Debug("dropping change notification", zap.Error(err))
	}
}

// HandleWS handles WebSocket upgrade and runs the session until the client
// disconnects.
func (h *WSHandler) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.SessionOpened()
	defer metrics.SessionClosed()

	s := &wsSession{conn: conn, log: h.api.Log}

	var w *watcher.Watcher
	if h.watch {
		w, err = watcher.New(h.api.Log)
		if err != nil {
			h.api.Log.Warn("failed to create file watcher", zap.Error(err))
		} else {
			w.OnChange(s.onDirChange)
			defer func() { _ = w.Stop() }()
		}
	}

	state := session.NewState(h.api.Config.Root, h.api.Config.Home)
	for {
		var req WSRequest
		if err := conn.ReadJSON(&req); err != nil {
			break
		}

		next, view := h.api.Controller.Dispatch(c.Request.Context(), state, req.Event)
		state = next

		if w != nil && view.Listing != nil && view.Listing.OK() {
			if err := w.Watch(view.Listing.Path); err != nil {
				h.api.Log.Debug("cannot watch directory",
					zap.String("path", view.Listing.Path), zap.Error(err))
			}
		}

		err := s.send(WSMessage{
			Type: "view",
			Payload: NavResponse{
				State: state,
				View:  h.api.viewResponse(c, view),
			},
		})
		if err != nil {
			break
		}
	}
}
