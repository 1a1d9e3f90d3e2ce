package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gigmarket/internal/domain"
	"gigmarket/internal/middleware"
	"gigmarket/internal/service/gig"
)

type GigHandler struct {
	gigService gig.Service
}

func NewGigHandler(gigService gig.Service) *GigHandler {
	return &GigHandler{gigService: gigService}
}

func gigError(err error) error {
	switch {
	case errors.Is(err, gig.ErrGigNotFound):
		return middleware.NotFound("Gig not found")
	case errors.Is(err, gig.ErrNotOwner):
		return middleware.Unauthorized(err.Error())
	case errors.Is(err, gig.ErrGigNotOpen), errors.Is(err, gig.ErrHasBids), errors.Is(err, gig.ErrInvalidGig):
		return middleware.BadRequest(err.Error())
	}
	return err
}

func (h *GigHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateGigInput
	if err := bind(c, &input); err != nil {
		return err
	}

	g, err := h.gigService.Create(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return gigError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

func (h *GigHandler) List(c *fiber.Ctx) error {
	filter := domain.GigFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Status: domain.GigStatus(strings.ToUpper(c.Query("status", string(domain.GigOpen)))),
	}
	if !filter.Status.IsValid() {
		return middleware.BadRequest("Invalid status filter")
	}

	result, err := h.gigService.List(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *GigHandler) ListMine(c *fiber.Ctx) error {
	gigs, err := h.gigService.ListMine(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(gigs)
}

func (h *GigHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "gigId", "gig")
	if err != nil {
		return err
	}

	g, err := h.gigService.GetByID(c.UserContext(), id)
	if err != nil {
		return gigError(err)
	}

	return c.Status(fiber.StatusOK).JSON(g)
}

func (h *GigHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "gigId", "gig")
	if err != nil {
		return err
	}

	var input domain.UpdateGigInput
	if err := bind(c, &input); err != nil {
		return err
	}

	g, err := h.gigService.Update(c.UserContext(), middleware.GetCurrentUserID(c), id, input)
	if err != nil {
		return gigError(err)
	}

	return c.Status(fiber.StatusOK).JSON(g)
}

func (h *GigHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "gigId", "gig")
	if err != nil {
		return err
	}

	if err := h.gigService.Delete(c.UserContext(), middleware.GetCurrentUserID(c), id); err != nil {
		return gigError(err)
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
