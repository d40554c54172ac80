package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"route-dashboard/internal/api/dto"
	"route-dashboard/internal/dashboard"
	"route-dashboard/internal/render/mapview"
	"route-dashboard/internal/render/panel"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Hub pushes every render pass to the connected dashboard pages.
type Hub struct {
	Dashboard Dashboard

	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
}

// NewHub accepts websocket connections from allowedOrigins ("*" allows any).
func NewHub(d Dashboard, allowedOrigins []string) *Hub {
	h := &Hub{
		Dashboard: d,
		clients:   make(map[*websocket.Conn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Run broadcasts frames until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	frames, cancel := h.Dashboard.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case f := <-frames:
			data, err := encodeFrame(f, f.Scene)
			if err != nil {
				log.Printf("ws encode frame failed: version=%d err=%v", f.Version, err)
				continue
			}
			h.broadcast(data)
		}
	}
}

// Handle upgrades the connection and sends the latest frame so a new page is current immediately.
// The connection joins the hub before the latest frame is read, under the same lock as
// broadcast, so a frame published meanwhile reaches it either way.
func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	f := h.Dashboard.Latest()
	data, err := encodeFrame(f, f.Scene.Initial())
	if err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	if err != nil {
		log.Printf("ws initial frame failed: %v", err)
		_ = conn.Close()
		return
	}

	go h.readPump(conn)
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			c.Close()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.Close()
		delete(h.clients, c)
	}
}

// readPump drains client messages so close frames are processed.
func (h *Hub) readPump(c *websocket.Conn) {
	defer func() {
		h.remove(c)
		_ = c.Close()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func encodeFrame(f dashboard.Frame, scene mapview.Scene) ([]byte, error) {
	panelHTML, overlayHTML, err := panel.Fragments(f.Panel)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.FrameMessage{
		Seq:         f.Seq,
		Version:     f.Version,
		State:       f.State,
		PanelHTML:   panelHTML,
		OverlayHTML: overlayHTML,
		Map:         scene,
	})
}
