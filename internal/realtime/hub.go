package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

var ErrHubClosed = errors.New("hub is closed")

const subscriberBuffer = 16

// Hub is an in-process registry of rooms. Publishing never blocks: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscription]struct{}
	closed bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[*Subscription]struct{}),
		logger: logger.With(slog.String("caller", "Hub")),
	}
}

// Subscription receives the events of every room it joined until Close.
type Subscription struct {
	hub   *Hub
	rooms []string
	ch    chan Event
	once  sync.Once
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

func (h *Hub) Subscribe(rooms ...string) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	sub := &Subscription{hub: h, rooms: rooms, ch: make(chan Event, subscriberBuffer)}
	for _, room := range rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Subscription]struct{})
			h.rooms[room] = members
		}
		members[sub] = struct{}{}
	}
	return sub, nil
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, room := range sub.rooms {
		members := h.rooms[room]
		delete(members, sub)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(sub.ch)
}

// Deliver hands ev to every subscriber of room and returns how many took it.
func (h *Hub) Deliver(room string, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.rooms[room] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			h.logger.Warn("subscriber buffer full, dropping event",
				slog.String("room", room), slog.String("event", ev.Name))
		}
	}
	return delivered
}

func (h *Hub) PushToUser(ctx context.Context, userID uuid.UUID, name string, payload interface{}) error {
	return h.Broadcast(ctx, UserRoom(userID), name, payload)
}

func (h *Hub) Broadcast(_ context.Context, room, name string, payload interface{}) error {
	ev, err := NewEvent(name, payload)
	if err != nil {
		return err
	}
	h.Deliver(room, ev)
	return nil
}

// RoomSize reports the number of subscribers in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close ends every subscription. Later Subscribe calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	seen := make(map[*Subscription]struct{})
	for _, members := range h.rooms {
		for sub := range members {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			close(sub.ch)
		}
	}
	clear(h.rooms)
}
