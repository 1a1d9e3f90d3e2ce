package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gigmarket/internal/domain"
	"gigmarket/internal/middleware"
	"gigmarket/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// List serves the user directory, optionally filtered by ?search=.
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext(), middleware.GetCurrentUserID(c), c.Query("search"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(users)
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	u := middleware.GetCurrentUser(c)
	if u == nil {
		return middleware.Unauthorized("User not found")
	}
	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var input domain.UpdateUserInput
	if err := bind(c, &input); err != nil {
		return err
	}

	u, err := h.userService.UpdateProfile(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			return middleware.NotFound("User not found")
		case errors.Is(err, user.ErrInvalidUser):
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u)
}
