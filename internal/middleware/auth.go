package middleware

import (
	"strings"

	"procurehub-be/internal/identity"

	"github.com/gofiber/fiber/v2"
)

// Auth validates the bearer token issued by the identity collaborator and
// loads the actor onto the request context for the service layer.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		actor, err := identity.ParseToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.SetUserContext(identity.SetActorContext(c.UserContext(), *actor))
		return c.Next()
	}
}
