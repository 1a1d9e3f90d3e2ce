package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	RequestIDContextKey = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// RequestInfo tags every request with an id, reusing the caller's
// X-Request-ID when present.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()[:8]
		}
		c.Locals(RequestIDContextKey, requestID)
		c.Set(HeaderRequestID, requestID)
		return c.Next()
	}
}

// Timeout bounds the context handed to services. A hire that runs out of time
// has its transaction rolled back by the driver.
func Timeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(RequestIDContextKey).(string)
	return id
}

func GetIPAddress(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 {
		return ips[0]
	}
	return c.IP()
}

func GetUserAgent(c *fiber.Ctx) string {
	return c.Get(fiber.HeaderUserAgent)
}
