package handler

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"gigmarket/internal/middleware"
	"gigmarket/internal/realtime"
)

type StreamHandler struct {
	hub       *realtime.Hub
	heartbeat time.Duration
}

func NewStreamHandler(hub *realtime.Hub, heartbeat time.Duration) *StreamHandler {
	return &StreamHandler{hub: hub, heartbeat: heartbeat}
}

// Stream serves live events as text/event-stream. The caller always joins
// its own user room and the public gig list; ?gig=<id> adds that gig's room.
func (h *StreamHandler) Stream(c *fiber.Ctx) error {
	rooms := []string{realtime.UserRoom(middleware.GetCurrentUserID(c)), realtime.RoomGigs}
	if raw := c.Query("gig"); raw != "" {
		gigID, err := uuid.Parse(raw)
		if err != nil {
			return middleware.BadRequest("Invalid gig ID")
		}
		rooms = append(rooms, realtime.GigRoom(gigID))
	}

	sub, err := h.hub.Subscribe(rooms...)
	if err != nil {
		return middleware.NewError(fiber.StatusServiceUnavailable, "Event stream unavailable")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	heartbeat := h.heartbeat
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		fmt.Fprint(w, "retry: 3000\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeEvent(w *bufio.Writer, ev realtime.Event) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data); err != nil {
		return err
	}
	return w.Flush()
}
