package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestID propagates an X-Request-ID header, minting one when the
// caller sent none, and parks a request-scoped logger in Locals.
func RequestID(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("X-Request-ID", requestID)
		c.Locals("logger", log.With(zap.String("request_id", requestID)))
		return c.Next()
	}
}

// Logger returns the request-scoped logger, or the fallback when the
// RequestID middleware did not run.
func Logger(c *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Locals("logger").(*zap.Logger); ok {
		return l
	}
	return fallback
}
