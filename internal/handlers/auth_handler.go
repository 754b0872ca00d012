package handlers

import (
	"plantshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		authService: authService,
		validate:    services.NewValidator(),
		logger:      logger,
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks the admin credentials and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("failed to parse login request body", zap.Error(err))
		return badRequest(c, "Invalid JSON body", err)
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payload",
		})
	}

	token, err := h.authService.LoginAdmin(req.ID, req.Password)
	if err != nil {
		h.logger.Info("admin login rejected", zap.String("ip", c.IP()))
		return writeError(c, h.logger, err, "Invalid payload")
	}

	h.logger.Info("admin logged in", zap.String("admin_id", req.ID))
	return c.JSON(fiber.Map{
		"token": token,
	})
}
