package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"boutique/internal/services"
)

// Session keys used across the auth flows.
const (
	SessionTokenKey         = "token"
	SessionResetEmailKey    = "reset_email"
	SessionVerifiedEmailKey = "verified_email"
)

// AuthRequired authenticates a request from the session cookie or, failing
// that, a Bearer header, and stores the identity in Locals for downstream
// handlers.
func AuthRequired(store *session.Store, auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tokenString string

		if sess, err := store.Get(c); err == nil {
			if v, ok := sess.Get(SessionTokenKey).(string); ok {
				tokenString = v
			}
		}
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Please log in first",
			})
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}
		c.Locals("user_id", uint(userID))
		if name, ok := claims["name"].(string); ok {
			c.Locals("name", name)
		}
		isAdmin, _ := claims["is_admin"].(bool)
		c.Locals("is_admin", isAdmin)

		return c.Next()
	}
}

// AdminRequired gates admin-only routes. It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Administrator access only",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID from Locals.
func UserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("user_id").(uint); ok {
		return id
	}
	return 0
}
