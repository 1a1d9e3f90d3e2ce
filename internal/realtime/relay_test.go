package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testChannel = "test:events"

func encodeEnvelope(t *testing.T, room, name string, payload interface{}) string {
	t.Helper()
	ev, err := NewEvent(name, payload)
	require.NoError(t, err)
	data, err := msgpack.Marshal(envelope{Room: room, Event: ev})
	require.NoError(t, err)
	return string(data)
}

func TestRelay_PushToUser(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	userID := uuid.New()
	payload := map[string]string{"gig_id": "g1"}
	mock.ExpectPublish(testChannel, encodeEnvelope(t, UserRoom(userID), EventBidRejected, payload)).SetVal(1)

	relay := NewRelay(client, testChannel, NewHub(nil), nil)
	err := relay.PushToUser(context.Background(), userID, EventBidRejected, payload)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelay_BroadcastError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	mock.ExpectPublish(testChannel, encodeEnvelope(t, RoomGigs, EventGigAssigned, nil)).
		SetErr(errors.New("connection refused"))

	relay := NewRelay(client, testChannel, NewHub(nil), nil)
	err := relay.Broadcast(context.Background(), RoomGigs, EventGigAssigned, nil)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelay_HandleDeliversIntoHub(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	gigID := uuid.New()
	sub, err := hub.Subscribe(GigRoom(gigID))
	require.NoError(t, err)

	relay := NewRelay(nil, testChannel, hub, nil)
	relay.handle(encodeEnvelope(t, GigRoom(gigID), EventGigAssigned, map[string]string{"status": "ASSIGNED"}))
	relay.handle("not msgpack")

	ev := receive(t, sub)
	assert.Equal(t, EventGigAssigned, ev.Name)
	assert.JSONEq(t, `{"status":"ASSIGNED"}`, string(ev.Data))
	assert.Empty(t, sub.Events())
}
