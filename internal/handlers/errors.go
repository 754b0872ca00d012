package handlers

import (
	"errors"

	"plantshop/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// writeError maps the error taxonomy onto HTTP responses. Store and unknown
// errors are logged and answered with a generic 500 so driver details never
// reach the client.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error, validationMessage string) error {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   validationMessage,
			"details": verr.Fields,
		})
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid id"})
	case errors.Is(err, apperrors.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	message := "Internal server error"
	if errors.Is(err, apperrors.ErrStore) {
		message = "Database operation failed"
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}

// badRequest answers a request whose body could not be decoded.
func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   message,
		"message": err.Error(),
	})
}
