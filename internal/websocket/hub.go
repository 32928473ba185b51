// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	wstypes "labadmin-service/internal/domain/websocket"
)

// Hub fans admin events out to every connected dashboard. There is no
// per-user routing: privilege and deletion events concern the shared user
// list, which every admin sees.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	events     chan *wstypes.Event
	done       chan struct{}

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *wstypes.Event, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Broadcast queues an event for every connected client. Drops the event when
// the queue is full rather than blocking the caller.
func (h *Hub) Broadcast(event string, data interface{}) {
	e := &wstypes.Event{Type: event, Data: data, Timestamp: time.Now()}
	select {
	case h.events <- e:
	default:
		h.logger.Warn("event queue full, dropping event", zap.String("type", event))
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("websocket client connected", zap.String("user_id", client.userID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected", zap.String("user_id", client.userID))

		case event := <-h.events:
			h.fanOut(event)
		}
	}
}

func (h *Hub) fanOut(event *wstypes.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- event:
		default:
			// slow client, let its write pump die on its own
			h.logger.Warn("client send buffer full, skipping",
				zap.String("user_id", client.userID))
		}
	}
}

// shutdown closes done first so client pumps parked on register/unregister
// sends unblock instead of waiting on a loop that has already returned.
func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
