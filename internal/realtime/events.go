package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	EventBidReceived  = "bid:received"
	EventBidHired     = "bid:hired"
	EventBidRejected  = "bid:rejected"
	EventGigCreated   = "gig:created"
	EventGigUpdated   = "gig:updated"
	EventGigDeleted   = "gig:deleted"
	EventGigAssigned  = "gig:assigned"
	EventNotification = "notification"
)

// RoomGigs is the public room every gig list subscriber joins.
const RoomGigs = "gigs"

func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func GigRoom(gigID uuid.UUID) string {
	return "gig:" + gigID.String()
}

// Event is a named, JSON encoded payload delivered to a room.
type Event struct {
	Name string `msgpack:"name"`
	Data []byte `msgpack:"data"`
}

func NewEvent(name string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return Event{Name: name, Data: data}, nil
}

// Pusher delivers live events. Delivery is best effort: a nil error means the
// event was handed off, not that any client received it.
type Pusher interface {
	PushToUser(ctx context.Context, userID uuid.UUID, name string, payload interface{}) error
	Broadcast(ctx context.Context, room, name string, payload interface{}) error
}
