package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"agritrade/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 54 * time.Second
	clientBuffer = 64
)

type eventMessage struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	AggregateID string         `json:"aggregateId"`
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload,omitempty"`
}

type wsClient struct {
	conn        *websocket.Conn
	send        chan eventMessage
	aggregateID string
}

// EventHub pushes relayed domain events to websocket subscribers. A subscriber
// may follow a single aggregate with ?aggregateId=. Clients that fall behind are dropped.
type EventHub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger.With("component", "event_hub"),
		clients: make(map[*wsClient]struct{}),
	}
}

// Handle is an eventbus subscriber.
func (h *EventHub) Handle(_ context.Context, event kernel.DomainEvent) {
	msg := eventMessage{
		ID:          event.ID.String(),
		Name:        event.Name,
		AggregateID: event.AggregateID.String(),
		OccurredAt:  event.OccurredAt,
		Payload:     event.Payload,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.aggregateID != "" && c.aggregateID != msg.AggregateID {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping slow event subscriber")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe handles GET /api/v1/events.
func (h *EventHub) Subscribe(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", "error", err)
		return nil
	}
	client := &wsClient{
		conn:        conn,
		send:        make(chan eventMessage, clientBuffer),
		aggregateID: c.QueryParam("aggregateId"),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	h.readPump(client)
	return nil
}

func (h *EventHub) unregister(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// readPump only watches for the close frame and pongs.
func (h *EventHub) readPump(c *wsClient) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Event subscriber closed unexpectedly", "error", err)
			}
			return
		}
	}
}

func (h *EventHub) writePump(c *wsClient) {
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
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
