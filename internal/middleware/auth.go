package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gigmarket/internal/domain"
	"gigmarket/internal/service/auth"
)

const (
	UserContextKey   = "user"
	UserIDContextKey = "user_id"

	AccessTokenCookie = "access_token"
)

// AuthRequired accepts the access token from the Authorization header or,
// for browsers and EventSource clients, from the access_token cookie.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return err
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		user, err := authService.GetUserByID(c.UserContext(), claims.UserID)
		if err != nil || user == nil {
			return Unauthorized("User not found")
		}

		c.Locals(UserContextKey, user)
		c.Locals(UserIDContextKey, user.ID)

		return c.Next()
	}
}

// OptionalAuth loads the caller when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := extractToken(c)
		if err != nil {
			return c.Next()
		}

		claims, err := authService.ValidateAccessToken(token)
		if err != nil {
			return c.Next()
		}

		if user, err := authService.GetUserByID(c.UserContext(), claims.UserID); err == nil && user != nil {
			c.Locals(UserContextKey, user)
			c.Locals(UserIDContextKey, user.ID)
		}

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", Unauthorized("Invalid authorization header format")
		}
		return parts[1], nil
	}

	if cookie := c.Cookies(AccessTokenCookie); cookie != "" {
		return cookie, nil
	}

	return "", Unauthorized("Missing authorization header")
}

func GetCurrentUser(c *fiber.Ctx) *domain.User {
	user, ok := c.Locals(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}

func GetCurrentUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}
