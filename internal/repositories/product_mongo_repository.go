package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"plantshop/internal/apperrors"
	"plantshop/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const textIndexName = "plants_text"

// productDocument is the stored shape of a product; the id lives in _id.
type productDocument struct {
	Name        string    `bson:"name"`
	Price       float64   `bson:"price"`
	Categories  []string  `bson:"categories"`
	Stock       int       `bson:"stock"`
	ImageURL    string    `bson:"imageUrl"`
	Description string    `bson:"description"`
	CareTips    string    `bson:"careTips"`
	CreatedAt   time.Time `bson:"createdAt"`
	Featured    bool      `bson:"featured"`
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over the given collection.
func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

// EnsureIndexes creates the text index that backs search.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "description", Value: "text"},
			{Key: "categories", Value: "text"},
		},
		Options: options.Index().SetName(textIndexName),
	})
	if err != nil {
		return apperrors.Store("failed to create text index", err)
	}
	return nil
}

// List counts the matching documents and fetches the requested page concurrently.
func (r *MongoProductRepository) List(ctx context.Context, q models.ProductQuery) (*models.ProductPage, error) {
	filter := buildMongoFilter(q)
	findOpts := options.Find().
		SetSort(buildMongoSort(q)).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))

	var (
		total    int64
		products []models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.coll.CountDocuments(gctx, filter)
		if err != nil {
			return apperrors.Store("failed to count products", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		cur, err := r.coll.Find(gctx, filter, findOpts)
		if err != nil {
			return apperrors.Store("failed to find products", err)
		}
		var raws []bson.M
		if err := cur.All(gctx, &raws); err != nil {
			return apperrors.Store("failed to decode products", err)
		}
		products = make([]models.Product, 0, len(raws))
		for _, raw := range raws {
			products = append(products, productFromBSON(raw))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models.NewProductPage(products, total, q), nil
}

// GetByID returns the product stored under the given ObjectID hex string.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var raw bson.M
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, apperrors.Store(fmt.Sprintf("failed to get product by ID %s", id), err)
	}
	product := productFromBSON(raw)
	return &product, nil
}

// Create inserts the product and records the id assigned by the store.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	res, err := r.coll.InsertOne(ctx, toDocument(product))
	if err != nil {
		return apperrors.Store("failed to create product", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return apperrors.Store("failed to create product", fmt.Errorf("unexpected inserted id type %T", res.InsertedID))
	}
	product.ID = oid.Hex()
	return nil
}

// Replace sets every mutable field and returns the document as stored afterwards.
func (r *MongoProductRepository) Replace(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	doc := toDocument(product)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "price", Value: doc.Price},
		{Key: "categories", Value: doc.Categories},
		{Key: "stock", Value: doc.Stock},
		{Key: "imageUrl", Value: doc.ImageURL},
		{Key: "description", Value: doc.Description},
		{Key: "careTips", Value: doc.CareTips},
		{Key: "featured", Value: doc.Featured},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var raw bson.M
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %s not found for update: %w", id, apperrors.ErrNotFound)
		}
		return nil, apperrors.Store("failed to update product", err)
	}
	updated := productFromBSON(raw)
	return &updated, nil
}

// Delete removes the product with the given id.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return apperrors.Store("failed to delete product", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("product id %q: %w", id, apperrors.ErrInvalidArgument)
	}
	return oid, nil
}

func buildMongoFilter(q models.ProductQuery) bson.D {
	filter := bson.D{}
	if q.Search != "" {
		filter = append(filter, bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: q.Search}}})
	}
	if q.Category != "" {
		// Equality against an array field matches any element.
		filter = append(filter, bson.E{Key: "categories", Value: q.Category})
	}
	return filter
}

func buildMongoSort(q models.ProductQuery) bson.D {
	field, desc := q.SortKey()
	dir := 1
	if desc {
		dir = -1
	}
	key := "createdAt"
	switch field {
	case models.SortPrice:
		key = "price"
	case models.SortName:
		key = "name"
	}
	return bson.D{{Key: key, Value: dir}}
}

func toDocument(p *models.Product) productDocument {
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}
	return productDocument{
		Name:        p.Name,
		Price:       p.Price,
		Categories:  categories,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		CareTips:    p.CareTips,
		CreatedAt:   p.CreatedAt,
		Featured:    p.Featured,
	}
}

// productFromBSON unwraps driver-specific types and hands the record to the
// shared normalizer.
func productFromBSON(raw bson.M) models.Product {
	plain := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		plain[k] = plainValue(v)
	}
	return models.NormalizeProduct(plain)
}

func plainValue(v interface{}) interface{} {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil
		}
		return f
	case primitive.A:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
