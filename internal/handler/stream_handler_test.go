package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/handler"
	"gigmarket/internal/realtime"
)

func TestStreamHandler_DeliversEvents(t *testing.T) {
	userID := uuid.New()
	gigID := uuid.New()

	hub := realtime.NewHub(nil)
	app := newTestApp(userID)
	app.Get("/stream", handler.NewStreamHandler(hub, time.Hour).Stream)

	type result struct {
		resp *http.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/stream?gig="+gigID.String(), nil), -1)
		done <- result{resp, err}
	}()

	require.Eventually(t, func() bool {
		return hub.RoomSize(realtime.GigRoom(gigID)) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.RoomSize(realtime.UserRoom(userID)))
	assert.Equal(t, 1, hub.RoomSize(realtime.RoomGigs))

	ev, err := realtime.NewEvent(realtime.EventGigAssigned, map[string]string{"gig_id": gigID.String()})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return hub.Deliver(realtime.GigRoom(gigID), ev) == 1
	}, time.Second, 5*time.Millisecond)
	hub.Close()

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end after hub close")
	}
	require.NoError(t, res.err)
	defer res.resp.Body.Close()

	assert.Equal(t, "text/event-stream", res.resp.Header.Get(fiber.HeaderContentType))
	body, err := io.ReadAll(res.resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "event: gig:assigned\ndata: {\"gig_id\":\""+gigID.String()+"\"}\n\n")
}

func TestStreamHandler_InvalidGig(t *testing.T) {
	hub := realtime.NewHub(nil)
	defer hub.Close()

	app := newTestApp(uuid.New())
	app.Get("/stream", handler.NewStreamHandler(hub, time.Hour).Stream)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/stream?gig=nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStreamHandler_HubClosed(t *testing.T) {
	hub := realtime.NewHub(nil)
	hub.Close()

	app := newTestApp(uuid.New())
	app.Get("/stream", handler.NewStreamHandler(hub, time.Hour).Stream)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/stream", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
