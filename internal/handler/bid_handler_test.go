package handler_test

import (
	"errors"
	"fmt"
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
	"gigmarket/internal/service/bid"
	"gigmarket/internal/service/hiring"
)

func setupBidApp(userID uuid.UUID, svc *BidService) *fiber.App {
	app := newTestApp(userID)
	h := handler.NewBidHandler(svc)
	app.Post("/bids", h.Create)
	app.Get("/gigs/:gigId/bids", h.ListForGig)
	app.Get("/bids/:bidId", h.Get)
	app.Patch("/bids/:bidId", h.Update)
	app.Patch("/bids/:bidId/hire", h.Hire)
	return app
}

func TestBidHandler_Hire(t *testing.T) {
	ownerID := uuid.New()
	bidID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bid not found", err: hiring.ErrBidNotFound, wantStatus: fiber.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "not gig owner", err: hiring.ErrNotGigOwner, wantStatus: fiber.StatusUnauthorized, wantCode: "UNAUTHORIZED"},
		{name: "bid not pending", err: hiring.ErrBidNotPending, wantStatus: fiber.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "gig not open", err: hiring.ErrGigNotOpen, wantStatus: fiber.StatusBadRequest, wantCode: "BAD_REQUEST"},
		{name: "store failure", err: fmt.Errorf("hire bid: %w", errors.New("connection reset")), wantStatus: fiber.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(BidService)
			svc.On("Hire", mock.Anything, ownerID, bidID).Return(nil, tt.err)

			app := setupBidApp(ownerID, svc)
			resp, err := app.Test(httptest.NewRequest(fiber.MethodPatch, "/bids/"+bidID.String()+"/hire", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tt.wantCode, body.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestBidHandler_Hire_Success(t *testing.T) {
	ownerID := uuid.New()
	freelancerID := uuid.New()
	gigID := uuid.New()
	bidID := uuid.New()

	hired := &domain.Bid{
		ID:           bidID,
		GigID:        gigID,
		FreelancerID: freelancerID,
		Status:       domain.BidHired,
		Gig:          &domain.Gig{ID: gigID, Status: domain.GigAssigned, OwnerID: ownerID, HiredFreelancerID: &freelancerID},
	}

	svc := new(BidService)
	svc.On("Hire", mock.Anything, ownerID, bidID).Return(hired, nil)

	app := setupBidApp(ownerID, svc)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPatch, "/bids/"+bidID.String()+"/hire", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Bid domain.Bid `json:"bid"`
	}
	decode(t, resp, &body)
	assert.Equal(t, bidID, body.Bid.ID)
	assert.Equal(t, domain.BidHired, body.Bid.Status)
	require.NotNil(t, body.Bid.Gig)
	assert.Equal(t, domain.GigAssigned, body.Bid.Gig.Status)
}

func TestBidHandler_Hire_InvalidID(t *testing.T) {
	svc := new(BidService)
	app := setupBidApp(uuid.New(), svc)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPatch, "/bids/not-a-uuid/hire", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "Hire", mock.Anything, mock.Anything, mock.Anything)
}

func TestBidHandler_Create(t *testing.T) {
	freelancerID := uuid.New()
	gigID := uuid.New()

	t.Run("validation failure", func(t *testing.T) {
		svc := new(BidService)
		app := setupBidApp(freelancerID, svc)

		req := httptest.NewRequest(fiber.MethodPost, "/bids", strings.NewReader(`{"gig_id":"`+gigID.String()+`","message":"short","price":0}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already bid", func(t *testing.T) {
		svc := new(BidService)
		svc.On("Create", mock.Anything, freelancerID, mock.AnythingOfType("domain.CreateBidInput")).Return(nil, bid.ErrAlreadyBid)
		app := setupBidApp(freelancerID, svc)

		req := httptest.NewRequest(fiber.MethodPost, "/bids", strings.NewReader(`{"gig_id":"`+gigID.String()+`","message":"I can build this quickly","price":250}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("created", func(t *testing.T) {
		created := &domain.Bid{ID: uuid.New(), GigID: gigID, FreelancerID: freelancerID, Status: domain.BidPending, Price: 250}
		svc := new(BidService)
		svc.On("Create", mock.Anything, freelancerID, domain.CreateBidInput{
			GigID:   gigID,
			Message: "I can build this quickly",
			Price:   250,
		}).Return(created, nil)
		app := setupBidApp(freelancerID, svc)

		req := httptest.NewRequest(fiber.MethodPost, "/bids", strings.NewReader(`{"gig_id":"`+gigID.String()+`","message":"I can build this quickly","price":250}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var body domain.Bid
		decode(t, resp, &body)
		assert.Equal(t, created.ID, body.ID)
		assert.Equal(t, domain.BidPending, body.Status)
	})
}

func TestBidHandler_OwnershipFailuresAreUnauthorized(t *testing.T) {
	userID := uuid.New()
	gigID, bidID := uuid.New(), uuid.New()

	t.Run("bids of someone else's gig", func(t *testing.T) {
		svc := new(BidService)
		svc.On("ListForGig", mock.Anything, userID, gigID).Return(nil, bid.ErrNotGigOwner)

		resp, err := setupBidApp(userID, svc).Test(httptest.NewRequest(fiber.MethodGet, "/gigs/"+gigID.String()+"/bids", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("someone else's bid", func(t *testing.T) {
		svc := new(BidService)
		svc.On("GetByID", mock.Anything, userID, bidID).Return(nil, bid.ErrNotAllowed)

		resp, err := setupBidApp(userID, svc).Test(httptest.NewRequest(fiber.MethodGet, "/bids/"+bidID.String(), nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestBidHandler_Create_MessageEmptyAfterSanitizing(t *testing.T) {
	freelancerID := uuid.New()
	gigID := uuid.New()

	svc := new(BidService)
	svc.On("Create", mock.Anything, freelancerID, mock.AnythingOfType("domain.CreateBidInput")).
		Return(nil, fmt.Errorf("%w: message is required", bid.ErrInvalidBid))

	req := httptest.NewRequest(fiber.MethodPost, "/bids", strings.NewReader(`{"gig_id":"`+gigID.String()+`","message":"<script>alert(1234567890)</script>","price":5}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := setupBidApp(freelancerID, svc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "invalid bid: message is required", body.Message)
}

func TestBidHandler_Update_NotPending(t *testing.T) {
	freelancerID := uuid.New()
	bidID := uuid.New()

	svc := new(BidService)
	svc.On("Update", mock.Anything, freelancerID, bidID, mock.AnythingOfType("domain.UpdateBidInput")).Return(nil, bid.ErrBidNotPending)
	app := setupBidApp(freelancerID, svc)

	req := httptest.NewRequest(fiber.MethodPatch, "/bids/"+bidID.String(), strings.NewReader(`{"price":300}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
