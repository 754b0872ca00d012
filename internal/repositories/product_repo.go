package repositories

import (
	"context"

	"plantshop/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, q models.ProductQuery) (*models.ProductPage, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Replace overwrites every mutable field; id and createdAt are preserved.
	Replace(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}
