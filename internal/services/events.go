package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	KindPartner    = "partner"
	KindIntimacy   = "intimacy"
	KindLogistics  = "logistics"
	KindMedia      = "media"
	KindAssessment = "assessment"
	KindTag        = "tag"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	eventWriteTimeout = 5 * time.Second
)

// ChangeEvent tells connected clients that a row changed so they can refetch.
// It never carries partner data.
type ChangeEvent struct {
	Kind   string    `json:"kind"`
	Action string    `json:"action"`
	ID     int64     `json:"id"`
	At     time.Time `json:"at"`
}

// Subscriber is a connected client; *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type EventHub struct {
	mu      sync.Mutex
	clients map[Subscriber]bool
	ch      chan ChangeEvent
	logger  *zap.Logger
}

func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		clients: map[Subscriber]bool{},
		ch:      make(chan ChangeEvent, 64),
		logger:  logger,
	}
}

// Run fans events out until ctx is done, then closes every client.
func (h *EventHub) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.ch:
			h.fanOut(event)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// fanOut writes outside the lock so a slow client cannot hold up Add or
// Remove. A client that misses the write deadline is dropped.
func (h *EventHub) fanOut(event ChangeEvent) {
	h.mu.Lock()
	clients := make([]Subscriber, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		err := client.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
		if err == nil {
			err = client.WriteJSON(event)
		}
		if err != nil {
			h.logger.Debug("dropping event subscriber", zap.Error(err))
			h.Remove(client)
			_ = client.Close()
		}
	}
}

func (h *EventHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		_ = client.Close()
		delete(h.clients, client)
	}
}

// Broadcast queues an event without blocking. Events are dropped when the
// buffer is full.
func (h *EventHub) Broadcast(event ChangeEvent) {
	if h == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	select {
	case h.ch <- event:
	default:
		h.logger.Warn("event buffer full, dropping", zap.String("kind", event.Kind), zap.Int64("id", event.ID))
	}
}

// Publish is shorthand for Broadcast.
func (h *EventHub) Publish(kind, action string, id int64) {
	h.Broadcast(ChangeEvent{Kind: kind, Action: action, ID: id})
}

func (h *EventHub) Add(client Subscriber) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
}

func (h *EventHub) Remove(client Subscriber) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
}

func (h *EventHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
