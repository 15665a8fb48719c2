package middleware

import (
	"time"

	"procurehub-be/internal/identity"
	"procurehub-be/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger tags every request with an id and logs it in structured form.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := uuid.NewString()
		c.SetUserContext(logger.WithRequestID(c.UserContext(), requestID))
		c.Set("X-Request-ID", requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", c.IP()),
		}
		if actor, ok := identity.ActorFromContext(c.UserContext()); ok {
			fields = append(fields,
				zap.String("actor_id", actor.ID),
				zap.String("role", string(actor.Role)),
			)
		}

		logger.L().Info("http request", fields...)

		return err
	}
}
