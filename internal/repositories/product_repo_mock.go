package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"plantshop/internal/apperrors"
	"plantshop/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// List filters, sorts and paginates the stored products.
func (r *MockProductRepository) List(_ context.Context, q models.ProductQuery) (*models.ProductPage, error) {
	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesQuery(p, q) {
			matched = append(matched, clone(p))
		}
	}
	r.mu.RUnlock()

	field, desc := q.SortKey()
	sort.SliceStable(matched, func(i, j int) bool {
		if desc {
			return lessBy(field, matched[j], matched[i])
		}
		return lessBy(field, matched[i], matched[j])
	})

	total := int64(len(matched))
	start := q.Skip()
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit < end-start {
		end = start + q.Limit
	}
	return models.NewProductPage(matched[start:end], total, q), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
	}
	product = clone(product)
	return &product, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = clone(*product)
	return nil
}

// Replace overwrites an existing product's mutable fields.
func (r *MockProductRepository) Replace(_ context.Context, id string, product *models.Product) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s not found for update: %w", id, apperrors.ErrNotFound)
	}
	updated := clone(*product)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	r.products[id] = updated

	out := clone(updated)
	return &out, nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, apperrors.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func matchesQuery(p models.Product, q models.ProductQuery) bool {
	if q.Category != "" && !containsString(p.Categories, q.Category) {
		return false
	}
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, c := range p.Categories {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

func lessBy(field models.SortField, a, b models.Product) bool {
	switch field {
	case models.SortPrice:
		return a.Price < b.Price
	case models.SortName:
		return a.Name < b.Name
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// clone copies the categories slice so callers cannot mutate stored state.
func clone(p models.Product) models.Product {
	p.Categories = append([]string{}, p.Categories...)
	return p
}
