package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gigmarket/internal/domain"
	"gigmarket/internal/middleware"
	"gigmarket/internal/pkg/validate"
	"gigmarket/internal/realtime"
	"gigmarket/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Gig          *GigHandler
	Bid          *BidHandler
	Notification *NotificationHandler
	Stream       *StreamHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub, secureCookies bool) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth, secureCookies),
		User:         NewUserHandler(services.User),
		Gig:          NewGigHandler(services.Gig),
		Bid:          NewBidHandler(services.Bid),
		Notification: NewNotificationHandler(services.Notification),
		Stream:       NewStreamHandler(hub, 25*time.Second),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	params.Page = c.QueryInt("page", params.Page)
	params.Limit = c.QueryInt("limit", params.Limit)
	params.Validate()
	return params
}

func parseUUIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}

// bind parses the JSON body into dest and runs its validate tags.
func bind(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return middleware.BadRequest(err.Error())
	}
	return nil
}
