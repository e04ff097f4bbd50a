package middleware

import (
	"context"
	"log"
	"strings"

	"chatstream-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const UserLocalKey = "user"

// SessionResolver authenticates a bearer token to a user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.User, error)
}

// RequireAuth guards a route group with bearer authentication. Every failure
// mode collapses to the same 401 so internals never leak to the client.
func RequireAuth(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthenticated",
			})
		}

		user, err := resolver.Resolve(c.Context(), token)
		if err != nil {
			log.Printf("authentication failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthenticated",
			})
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserFromCtx returns the principal attached by RequireAuth.
func UserFromCtx(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(UserLocalKey).(models.User)
	return user, ok
}
