package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/courtside/courtstat/internal/service"
)

// Hub fans match events out to the clients subscribed to each match.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	done       chan struct{}
	logger     zerolog.Logger
}

type roomMessage struct {
	room    string
	payload []byte
}

// NewHub creates a hub. Run must be called before clients attach.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the room table. All membership changes and broadcasts flow
// through this loop, so no locking is needed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
			}
			return

		case client := <-h.register:
			if h.rooms[client.room] == nil {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug().Str("room", client.room).Int("clients", len(h.rooms[client.room])).Msg("client joined")

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.room]; ok && clients[client] {
				delete(clients, client)
				close(client.send)
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
			}

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer, drop it.
					delete(h.rooms[msg.room], client)
					close(client.send)
				}
			}
		}
	}
}

// PublishMatchEvent delivers an event to every subscriber of its match.
// Once the hub has stopped the event is discarded so callers never block
// on a loop that is no longer draining the broadcast queue.
func (h *Hub) PublishMatchEvent(ctx context.Context, event service.MatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal match event: %w", err)
	}
	select {
	case h.broadcast <- roomMessage{room: event.MatchID, payload: payload}:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
