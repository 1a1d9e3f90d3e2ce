package handler_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gigmarket/internal/domain"
	"gigmarket/internal/handler"
	"gigmarket/internal/mocks"
	"gigmarket/internal/service/gig"
)

func setupGigApp(userID uuid.UUID, svc *mocks.GigService) *fiber.App {
	app := newTestApp(userID)
	h := handler.NewGigHandler(svc)
	app.Get("/gigs", h.List)
	app.Get("/gigs/:gigId", h.Get)
	app.Put("/gigs/:gigId", h.Update)
	app.Delete("/gigs/:gigId", h.Delete)
	return app
}

func TestGigHandler_List(t *testing.T) {
	t.Run("defaults to open gigs", func(t *testing.T) {
		svc := new(mocks.GigService)
		svc.On("List", mock.Anything, domain.GigFilter{Search: "logo", Status: domain.GigOpen}, domain.PaginationParams{Page: 1, Limit: 10}).
			Return(domain.NewPaginatedResponse[domain.Gig](nil, 1, 10, 0), nil)

		app := setupGigApp(uuid.New(), svc)
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/gigs?search=logo", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := new(mocks.GigService)
		app := setupGigApp(uuid.New(), svc)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/gigs?status=closed", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestGigHandler_Get_NotFound(t *testing.T) {
	id := uuid.New()
	svc := new(mocks.GigService)
	svc.On("GetByID", mock.Anything, id).Return(nil, gig.ErrGigNotFound)

	app := setupGigApp(uuid.New(), svc)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/gigs/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGigHandler_Update(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	t.Run("not owner", func(t *testing.T) {
		svc := new(mocks.GigService)
		svc.On("Update", mock.Anything, userID, id, mock.AnythingOfType("domain.UpdateGigInput")).Return(nil, gig.ErrNotOwner)

		app := setupGigApp(userID, svc)
		req := httptest.NewRequest(fiber.MethodPut, "/gigs/"+id.String(), strings.NewReader(`{"title":"New title"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("title too short", func(t *testing.T) {
		svc := new(mocks.GigService)
		app := setupGigApp(userID, svc)

		req := httptest.NewRequest(fiber.MethodPut, "/gigs/"+id.String(), strings.NewReader(`{"title":"x"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGigHandler_Delete_HasBids(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	svc := new(mocks.GigService)
	svc.On("Delete", mock.Anything, userID, id).Return(gig.ErrHasBids)

	app := setupGigApp(userID, svc)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/gigs/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
