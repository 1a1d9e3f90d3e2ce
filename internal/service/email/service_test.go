package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/config"
)

func TestNewService_DisabledWithoutAPIKey(t *testing.T) {
	svc := NewService(&config.Config{}, nil)

	_, ok := svc.(noopService)
	require.True(t, ok)
	assert.NoError(t, svc.SendHiredEmail(context.Background(), "f@example.com", "Freya", "Logo", "id"))
	assert.NoError(t, svc.SendWelcomeEmail(context.Background(), "f@example.com", "Freya"))
}

func TestRender_Hired(t *testing.T) {
	html, err := render("hired.html", struct {
		Title    string
		Name     string
		GigTitle string
		Link     string
	}{
		Title:    "You got the gig",
		Name:     "Freya",
		GigTitle: "<b>Logo</b>",
		Link:     "https://example.com/gigs/1",
	})

	require.NoError(t, err)
	assert.Contains(t, html, "Hi Freya")
	assert.Contains(t, html, "&lt;b&gt;Logo&lt;/b&gt;")
	assert.Contains(t, html, "https://example.com/gigs/1")
}
