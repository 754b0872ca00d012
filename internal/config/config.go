// Package config loads process-wide settings once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Supported DB_DRIVER values.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config is the process-wide configuration. It is read-only after Load.
type Config struct {
	AppPort  string
	LogLevel string

	DBDriver          string
	MongoURI          string
	MongoDatabase     string
	MongoCollection   string
	DatabaseDSN       string
	AdminID           string
	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string
	RabbitMQURL       string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_DATABASE", "plantshop")
	v.SetDefault("MONGODB_COLLECTION", "plants")
}

// New returns a Viper instance reading environment variables and, when
// CONFIG_FILE is set, that file.
func New() (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return v, nil
}

// Load builds a Config from v and checks the settings required to start.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:           v.GetString("APP_PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		DBDriver:          strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		MongoURI:          v.GetString("MONGODB_URI"),
		MongoDatabase:     v.GetString("MONGODB_DATABASE"),
		MongoCollection:   v.GetString("MONGODB_COLLECTION"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		AdminID:           v.GetString("ADMIN_ID"),
		AdminPassword:     v.GetString("ADMIN_PASSWORD"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing startup setting.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required when DB_DRIVER is mongo"))
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required when DB_DRIVER is %s", c.DBDriver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return errors.Join(errs...)
}

// EventsEnabled reports whether catalog events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
