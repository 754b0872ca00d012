package services

import (
	"context"
	"encoding/json"
	"time"

	"plantshop/internal/models"
	"plantshop/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// EventPublisher delivers catalog events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	validate  *validator.Validate
	publisher EventPublisher
	logger    *zap.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		repo:      repo,
		validate:  NewValidator(),
		publisher: publisher,
		logger:    logger,
	}
}

// ListProducts returns one page of products for a normalized query.
func (s *ProductService) ListProducts(ctx context.Context, q models.ProductQuery) (*models.ProductPage, error) {
	return s.repo.List(ctx, q)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates the input, stamps createdAt and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	product := &models.Product{
		// Millisecond precision matches what the document store keeps.
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	in.Apply(product)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(models.EventProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct validates the input and replaces every mutable field of the product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	var replacement models.Product
	in.Apply(&replacement)

	updated, err := s.repo.Replace(ctx, id, &replacement)
	if err != nil {
		return nil, err
	}
	s.publish(models.EventProductUpdated, updated.ID, updated)
	return updated, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(models.EventProductDeleted, id, nil)
	return nil
}

// publish is best effort: a broker failure never fails the write that caused it.
func (s *ProductService) publish(eventType, productID string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(models.ProductEvent{
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to marshal product event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.logger.Warn("failed to publish product event",
			zap.String("type", eventType),
			zap.String("product_id", productID),
			zap.Error(err))
		return
	}
	s.logger.Debug("published product event", zap.String("type", eventType), zap.String("product_id", productID))
}
