package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gigmarket/internal/domain"
	"gigmarket/internal/middleware"
	"gigmarket/internal/service/bid"
	"gigmarket/internal/service/hiring"
)

type BidHandler struct {
	bidService bid.Service
}

func NewBidHandler(bidService bid.Service) *BidHandler {
	return &BidHandler{bidService: bidService}
}

func bidError(err error) error {
	switch {
	case errors.Is(err, bid.ErrBidNotFound):
		return middleware.NotFound("Bid not found")
	case errors.Is(err, bid.ErrGigNotFound):
		return middleware.NotFound("Gig not found")
	case errors.Is(err, bid.ErrAlreadyBid):
		return middleware.Conflict(err.Error())
	case errors.Is(err, bid.ErrNotGigOwner), errors.Is(err, bid.ErrNotBidOwner), errors.Is(err, bid.ErrNotAllowed):
		return middleware.Unauthorized(err.Error())
	case errors.Is(err, bid.ErrGigNotOpen), errors.Is(err, bid.ErrOwnGig), errors.Is(err, bid.ErrBidNotPending), errors.Is(err, bid.ErrInvalidBid):
		return middleware.BadRequest(err.Error())
	}
	return err
}

func (h *BidHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateBidInput
	if err := bind(c, &input); err != nil {
		return err
	}

	b, err := h.bidService.Create(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return bidError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(b)
}

func (h *BidHandler) ListForGig(c *fiber.Ctx) error {
	gigID, err := parseUUIDParam(c, "gigId", "gig")
	if err != nil {
		return err
	}

	bids, err := h.bidService.ListForGig(c.UserContext(), middleware.GetCurrentUserID(c), gigID)
	if err != nil {
		return bidError(err)
	}

	return c.Status(fiber.StatusOK).JSON(bids)
}

func (h *BidHandler) ListMine(c *fiber.Ctx) error {
	bids, err := h.bidService.ListMine(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(bids)
}

func (h *BidHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "bidId", "bid")
	if err != nil {
		return err
	}

	b, err := h.bidService.GetByID(c.UserContext(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		return bidError(err)
	}

	return c.Status(fiber.StatusOK).JSON(b)
}

func (h *BidHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "bidId", "bid")
	if err != nil {
		return err
	}

	var input domain.UpdateBidInput
	if err := bind(c, &input); err != nil {
		return err
	}

	b, err := h.bidService.Update(c.UserContext(), middleware.GetCurrentUserID(c), id, input)
	if err != nil {
		return bidError(err)
	}

	return c.Status(fiber.StatusOK).JSON(b)
}

// Hire answers 200 with the hired bid once the transaction has committed.
// Notifications are sent in the background and never affect the response.
func (h *BidHandler) Hire(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "bidId", "bid")
	if err != nil {
		return err
	}

	b, err := h.bidService.Hire(c.UserContext(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, hiring.ErrBidNotFound):
			return middleware.NotFound("Bid not found")
		case errors.Is(err, hiring.ErrNotGigOwner):
			return middleware.Unauthorized("Only the gig owner can hire")
		case errors.Is(err, hiring.ErrBidNotPending):
			return middleware.BadRequest("Bid is no longer pending")
		case errors.Is(err, hiring.ErrGigNotOpen):
			return middleware.BadRequest("Gig is no longer open")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Freelancer hired successfully",
		"bid":     b,
	})
}
