package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StoreTimeout bounds every store call made while serving the request. The
// deadline lands on the user context, so repositories see it through
// QueryRowContext/ExecContext and surface expiry as their Unavailable error.
func StoreTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
