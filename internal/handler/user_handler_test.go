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
	"gigmarket/internal/middleware"
	"gigmarket/internal/mocks"
	"gigmarket/internal/service/user"
)

func setupUserApp(userID uuid.UUID, svc *mocks.UserService) *fiber.App {
	app := newTestApp(userID)
	h := handler.NewUserHandler(svc)
	app.Get("/users", h.List)
	app.Get("/users/me", h.GetProfile)
	app.Put("/users/me", h.UpdateProfile)
	return app
}

func TestUserHandler_List(t *testing.T) {
	callerID := uuid.New()
	others := []domain.User{{ID: uuid.New(), Name: "Bea", Email: "bea@example.com", PasswordHash: "secret-hash"}}

	svc := new(mocks.UserService)
	svc.On("List", mock.Anything, callerID, "bea").Return(others, nil).Once()

	resp, err := setupUserApp(callerID, svc).Test(httptest.NewRequest(fiber.MethodGet, "/users?search=bea", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	decode(t, resp, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Bea", body[0]["name"])
	assert.NotContains(t, body[0], "password_hash")
	svc.AssertExpectations(t)
}

func TestUserHandler_GetProfile_WithoutUser(t *testing.T) {
	resp, err := setupUserApp(uuid.New(), new(mocks.UserService)).Test(httptest.NewRequest(fiber.MethodGet, "/users/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.UserService)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"name":"Ana Lima"}`,
			setup: func(svc *mocks.UserService) {
				svc.On("UpdateProfile", mock.Anything, userID, mock.AnythingOfType("domain.UpdateUserInput")).
					Return(&domain.User{ID: userID, Name: "Ana Lima"}, nil)
			},
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "name too short",
			body:       `{"name":"A"}`,
			setup:      func(svc *mocks.UserService) {},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "rejected after sanitizing",
			body: `{"name":"<script>x()</script>"}`,
			setup: func(svc *mocks.UserService) {
				svc.On("UpdateProfile", mock.Anything, userID, mock.AnythingOfType("domain.UpdateUserInput")).
					Return(nil, user.ErrInvalidUser)
			},
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name: "unknown user",
			body: `{"name":"Ana Lima"}`,
			setup: func(svc *mocks.UserService) {
				svc.On("UpdateProfile", mock.Anything, userID, mock.AnythingOfType("domain.UpdateUserInput")).
					Return(nil, user.ErrUserNotFound)
			},
			wantStatus: fiber.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.UserService)
			tt.setup(svc)

			req := httptest.NewRequest(fiber.MethodPut, "/users/me", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := setupUserApp(userID, svc).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus != fiber.StatusOK {
				var body middleware.ErrorResponse
				decode(t, resp, &body)
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}
