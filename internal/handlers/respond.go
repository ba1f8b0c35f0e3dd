package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"boutique/internal/services"
)

// statusFor maps the service error taxonomy to HTTP status codes. This is
// the single place where transport status is decided.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInsufficientStock):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// fail converts a service error into the {success, message} envelope.
// Unexpected errors are logged and masked; typed errors surface their
// message.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.Path()), zap.Error(err))
		message = "Internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
