package main

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/archcanvas/archcanvas/internal/orchestrator"
	"github.com/archcanvas/archcanvas/internal/render"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// hub fans out every render.Projection Core produces to every connected
// websocket client. It is wired as Core's RenderFunc, not through
// Core.Subscribe: Subscribe's signal bus only fires for the narrow set
// of lock/unlock mode-transition signals, while canvasd's live view
// needs a push after every committed edit.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *slog.Logger
	last    render.Projection
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Canvas clients are same-origin web UIs talking to their own
	// backend; a wider CheckOrigin belongs in a reverse proxy, not here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newHub returns a hub seeded with initial (the projection of whatever
// domain/viewstate state canvasd loaded before constructing Core), so a
// client connecting before the first edit still sees real content.
func newHub(logger *slog.Logger, initial render.Projection) *hub {
	return &hub{clients: map[*websocket.Conn]struct{}{}, logger: logger, last: initial}
}

// broadcast is passed to orchestrator.New as its RenderFunc.
func (h *hub) broadcast(p render.Projection) {
	h.mu.Lock()
	h.last = p
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(p); err != nil {
			h.logger.Warn("websocket write failed, dropping client", "error", err)
			h.remove(conn)
			_ = conn.Close()
		}
	}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// HandleWebSocket handles GET /v1/stream: upgrades to a websocket, sends
// the current projection immediately, then streams future pushes from
// broadcast until the client disconnects.
func (h *hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.add(conn)

	h.mu.Lock()
	initial := h.last
	h.mu.Unlock()
	if err := conn.WriteJSON(initial); err != nil {
		h.remove(conn)
		_ = conn.Close()
		return
	}

	go func() {
		defer func() {
			h.remove(conn)
			_ = conn.Close()
		}()
		for {
			// The canvas protocol is server-push only; the read loop
			// exists solely to notice client disconnects and pongs.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func currentProjection(core *orchestrator.Core) render.Projection {
	return render.Project(core.Domain(), core.ViewState())
}
