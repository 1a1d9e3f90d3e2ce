package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

type envelope struct {
	Room  string `msgpack:"room"`
	Event Event  `msgpack:"event"`
}

// Relay publishes events on a Redis channel and delivers every event it
// receives on that channel into the local Hub, so all instances behind a load
// balancer reach their own connected clients.
type Relay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *slog.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
	wg     sync.WaitGroup
}

func NewRelay(client *redis.Client, channel string, hub *Hub, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger.With(slog.String("caller", "Relay"), slog.String("channel", channel)),
	}
}

// Start subscribes to the relay channel and waits for the subscription to be
// confirmed before returning.
func (r *Relay) Start(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	r.mu.Lock()
	r.pubsub = pubsub
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.logger.Info("relay subscriber stopped")

		for msg := range pubsub.Channel() {
			r.handle(msg.Payload)
		}
	}()

	r.logger.Info("relay subscriber started")
	return nil
}

func (r *Relay) handle(payload string) {
	var env envelope
	if err := msgpack.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Error("decode relay envelope", slog.Any("error", err))
		return
	}
	r.hub.Deliver(env.Room, env.Event)
}

func (r *Relay) PushToUser(ctx context.Context, userID uuid.UUID, name string, payload interface{}) error {
	return r.Broadcast(ctx, UserRoom(userID), name, payload)
}

func (r *Relay) Broadcast(ctx context.Context, room, name string, payload interface{}) error {
	ev, err := NewEvent(name, payload)
	if err != nil {
		return err
	}
	data, err := msgpack.Marshal(envelope{Room: room, Event: ev})
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, string(data)).Err()
}

func (r *Relay) Close() {
	r.mu.Lock()
	pubsub := r.pubsub
	r.pubsub = nil
	r.mu.Unlock()

	if pubsub != nil {
		_ = pubsub.Close()
	}
	r.wg.Wait()
}
