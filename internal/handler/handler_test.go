package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/middleware"
)

// newTestApp returns an app that treats every request as coming from userID.
func newTestApp(userID uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))),
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDContextKey, userID)
		return c.Next()
	})
	return app
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
