package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/forecourthq/forecourt/internal/infrastructure/logging"
	"github.com/forecourthq/forecourt/internal/inventory"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	broadcastQueue = 16
)

// Event is a live-update message pushed to open management pages.
type Event struct {
	Type             string `json:"type"`
	ClassificationID int64  `json:"classification_id,omitempty"`
	Name             string `json:"name,omitempty"`
	Timestamp        string `json:"timestamp"`
}

// inventoryChanged signals that the vehicle list for a classification has
// changed and any table showing it should refetch.
func inventoryChanged(classificationID int64) Event {
	return Event{
		Type:             "inventory_changed",
		ClassificationID: classificationID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
}

// classificationAdded signals that a new classification exists.
func classificationAdded(c *inventory.Classification) Event {
	return Event{
		Type:             "classification_added",
		ClassificationID: c.ID,
		Name:             c.Name,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
}

// Hub fans live-update events out to connected management pages.
//
// Register, unregister and broadcast all flow through the Run loop, so the
// client set is only ever touched from one goroutine.
type Hub struct {
	logger     *logging.Logger
	clients    map[*websocket.Conn]struct{}
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan Event
}

// NewHub creates a hub. It does nothing until Run is started.
func NewHub(logger *logging.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*websocket.Conn]struct{}),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan Event, broadcastQueue),
	}
}

// Run processes hub events until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
			}
			return

		case conn := <-h.register:
			h.clients[conn] = struct{}{}
			h.logger.Debug("live-update client connected", "clients", len(h.clients))

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case event := <-h.events:
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(event); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}

		case <-ticker.C:
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Broadcast queues an event for all connected clients. If the queue is
// full the event is dropped; clients refetch on reconnect anyway.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn("live-update queue full, dropping event", "type", event.Type)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Management pages are same-origin; the staff gate has already run by
	// the time the upgrade happens.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// handleLiveUpdates upgrades the connection and parks it in the hub. The
// read loop discards anything the client sends; traffic is one-way.
func (s *Server) handleLiveUpdates(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.hub.register <- conn

	go func() {
		defer func() { s.hub.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
