package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"plantshop/internal/apperrors"
	"plantshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// replaceColumns are the fields overwritten by Replace. id and created_at are never listed.
var replaceColumns = []string{"Name", "Price", "Categories", "Stock", "ImageURL", "Description", "CareTips", "Featured"}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves one page of products matching the query.
func (r *GORMProductRepository) List(ctx context.Context, q models.ProductQuery) (*models.ProductPage, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(filterScope(q)).Count(&total).Error; err != nil {
		return nil, apperrors.Store("failed to count products", err)
	}

	field, desc := q.SortKey()
	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(filterScope(q)).
		Order(clause.OrderByColumn{Column: clause.Column{Name: sortColumn(field)}, Desc: desc}).
		Offset(q.Skip()).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return nil, apperrors.Store("failed to list products", err)
	}
	return models.NewProductPage(products, total, q), nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, apperrors.Store(fmt.Sprintf("failed to get product by ID %s", id), err)
	}
	if product.Categories == nil {
		product.Categories = []string{}
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return apperrors.Store("failed to create product", err)
	}
	return nil
}

// Replace updates every mutable column of an existing product and returns the stored result.
func (r *GORMProductRepository) Replace(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}
	// Select forces zero values (stock 0, featured false) to be written too.
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Select(replaceColumns).
		Updates(product)
	if res.Error != nil {
		return nil, apperrors.Store("failed to update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product with ID %s not found for update: %w", id, apperrors.ErrNotFound)
	}
	return r.GetByID(ctx, id)
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Store("failed to delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

// filterScope applies search and category filters. Categories are stored as a
// JSON array, so membership is a match on the quoted value.
func filterScope(q models.ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Category != "" {
			db = db.Where(`categories LIKE ? ESCAPE '\'`, `%"`+escapeLike(q.Category)+`"%`)
		}
		if q.Search != "" {
			term := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
			db = db.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(categories) LIKE ? ESCAPE '\'`, term, term, term)
		}
		return db
	}
}

func sortColumn(field models.SortField) string {
	switch field {
	case models.SortPrice:
		return "price"
	case models.SortName:
		return "name"
	default:
		return "created_at"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
