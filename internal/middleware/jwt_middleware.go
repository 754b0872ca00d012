package middleware

import (
	"strings"

	"plantshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocalAdminID is the fiber.Ctx locals key holding the authenticated admin id.
const LocalAdminID = "admin_id"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		// Expected format: "Bearer <token>"
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			return unauthorized(c)
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(tokenString))
		if err != nil {
			logger.Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c)
		}

		c.Locals(LocalAdminID, claims.Subject)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}
