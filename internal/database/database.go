// Package database opens the configured product store and owns its lifecycle.
package database

import (
	"context"
	"fmt"

	"plantshop/internal/config"
	"plantshop/internal/models"
	"plantshop/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is an open product store. It is created once at startup and shared by
// every request; the underlying driver pools connections.
type Store struct {
	Products repositories.ProductRepository
	driver   string
	ping     func(ctx context.Context) error
	close    func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.DBDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverPostgres:
		return openGORM(ctx, cfg.DBDriver, postgres.Open(cfg.DatabaseDSN), logger)
	case config.DriverSQLite:
		return openGORM(ctx, cfg.DBDriver, sqlite.Open(cfg.DatabaseDSN), logger)
	case config.DriverMemory:
		logger.Warn("using in-memory product store; data is lost on exit")
		return &Store{
			Products: repositories.NewMockProductRepository(),
			driver:   config.DriverMemory,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	repo := repositories.NewMongoProductRepository(coll)
	if err := repo.EnsureIndexes(ctx); err != nil {
		// Search degrades without the text index; listing still works.
		logger.Warn("failed to ensure text index", zap.Error(err))
	}

	logger.Info("connected to MongoDB",
		zap.String("database", cfg.MongoDatabase),
		zap.String("collection", cfg.MongoCollection))
	return &Store{
		Products: repo,
		driver:   config.DriverMongo,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}

func openGORM(ctx context.Context, driver string, dialector gorm.Dialector, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s database: %w", driver, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s connection pool: %w", driver, err)
	}

	logger.Info("connected to SQL database", zap.String("driver", driver))
	return &Store{
		Products: repositories.NewGORMProductRepository(db),
		driver:   driver,
		ping:     sqlDB.PingContext,
		close: func(context.Context) error {
			return sqlDB.Close()
		},
	}, nil
}

// Driver names the backend in use.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
