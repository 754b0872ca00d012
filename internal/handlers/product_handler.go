package handlers

import (
	"plantshop/internal/middleware"
	"plantshop/internal/models"
	"plantshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListProducts returns one page of products for the query string.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	q, err := services.NormalizeProductQuery(c.Queries())
	if err != nil {
		return writeError(c, h.logger, err, "Invalid query parameters")
	}

	page, err := h.service.ListProducts(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.logger, err, "Invalid query parameters")
	}
	return c.JSON(page)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.logger, err, "Invalid id")
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		h.logger.Debug("failed to parse product body", zap.Error(err))
		return badRequest(c, "Invalid JSON body", err)
	}

	created, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.logger, err, "Invalid payload")
	}

	h.logger.Info("product created",
		zap.String("product_id", created.ID),
		zap.Any("admin_id", c.Locals(middleware.LocalAdminID)))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateProduct replaces every mutable field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		h.logger.Debug("failed to parse product body", zap.Error(err))
		return badRequest(c, "Invalid JSON body", err)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.logger, err, "Invalid payload")
	}

	h.logger.Info("product updated",
		zap.String("product_id", updated.ID),
		zap.Any("admin_id", c.Locals(middleware.LocalAdminID)))
	return c.JSON(updated)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, h.logger, err, "Invalid id")
	}

	h.logger.Info("product deleted",
		zap.String("product_id", id),
		zap.Any("admin_id", c.Locals(middleware.LocalAdminID)))
	return c.JSON(fiber.Map{"success": true})
}
