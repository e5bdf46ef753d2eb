package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/callcrm/backend/internal/domain/shared"
	"github.com/callcrm/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is the wire envelope pushed to websocket clients
type Event struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	TenantID      uuid.UUID `json:"tenant_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Hub fans domain events out to connected websocket clients. Clients
// registered with a tenant ID receive only that tenant's events; clients
// registered with uuid.Nil (platform admins) receive everything. A client
// whose outbound buffer is full is dropped rather than blocking the hub.
type Hub struct {
	cfg        config.NotifyConfig
	logger     *zap.Logger
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
}

// NewHub creates a hub with the given configuration
func NewHub(cfg config.NotifyConfig, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ClientBufferLen <= 0 {
		cfg.ClientBufferLen = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}

	return &Hub{
		cfg:        cfg,
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until the context ends
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("notify client connected",
				zap.String("client_id", client.id),
				zap.Int("total_clients", len(h.clients)),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("notify client disconnected",
					zap.String("client_id", client.id),
					zap.Int("total_clients", len(h.clients)),
				)
			}

		case event := <-h.broadcast:
			h.dispatch(event)
		}
	}
}

// Publish implements shared.EventPublisher. Events are queued for the
// hub loop; when the queue is full the event is dropped with a warning
// so domain operations never block on slow notification delivery.
func (h *Hub) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		envelope := Event{
			ID:            event.EventID(),
			Type:          event.EventType(),
			AggregateID:   event.AggregateID(),
			AggregateType: event.AggregateType(),
			TenantID:      event.TenantID(),
			OccurredAt:    event.OccurredAt(),
		}

		select {
		case h.broadcast <- envelope:
		case <-ctx.Done():
			return ctx.Err()
		default:
			h.logger.Warn("notify queue full, event dropped",
				zap.String("event_type", envelope.Type),
				zap.String("aggregate_id", envelope.AggregateID.String()),
			)
		}
	}
	return nil
}

// dispatch pushes an event to every client allowed to see it
func (h *Hub) dispatch(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal notify event", zap.Error(err))
		return
	}

	for client := range h.clients {
		if client.tenantID != uuid.Nil && client.tenantID != event.TenantID {
			continue
		}
		select {
		case client.send <- message:
		default:
			// Slow client, drop it instead of stalling the loop
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn("notify client buffer full, dropping client",
				zap.String("client_id", client.id),
			)
		}
	}
}

// Done is closed once the hub loop has exited
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Ensure Hub implements shared.EventPublisher
var _ shared.EventPublisher = (*Hub)(nil)
