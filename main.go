package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plantshop/internal/app"
	"plantshop/internal/config"
	"plantshop/internal/database"
	"plantshop/internal/logging"
	"plantshop/internal/services"
	"plantshop/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// cli carries what PersistentPreRunE loads for every subcommand.
type cli struct {
	verbose bool
	cfg     *config.Config
	logger  *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "plantshop",
		Short:         "Plant catalog API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.serve(cmd.Context())
			},
		},
		newSeedCmd(c),
		newEventsCmd(c),
	)
	return root
}

func (c *cli) load() error {
	v, err := config.New()
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

// publisher connects to RabbitMQ when RABBITMQ_URL is set. The returned
// publisher is nil when events are disabled.
func (c *cli) publisher() (services.EventPublisher, func(), error) {
	if !c.cfg.EventsEnabled() {
		c.logger.Info("RABBITMQ_URL not set; catalog events disabled")
		return nil, func() {}, nil
	}
	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: c.cfg.RabbitMQURL})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
	}
	closeFn := func() {
		if err := mq.Close(); err != nil {
			c.logger.Warn("failed to close RabbitMQ client", zap.Error(err))
		}
	}
	return mq, closeFn, nil
}

func (c *cli) serve(ctx context.Context) error {
	log := c.logger

	store, err := database.Open(ctx, c.cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("failed to close store", zap.Error(err))
		}
	}()

	publisher, closePublisher, err := c.publisher()
	if err != nil {
		return err
	}
	defer closePublisher()

	authService := services.NewAuthService(services.AdminCredentials{
		ID:           c.cfg.AdminID,
		Password:     c.cfg.AdminPassword,
		PasswordHash: c.cfg.AdminPasswordHash,
	}, c.cfg.JWTSecret)
	if c.cfg.AdminID == "" {
		log.Warn("ADMIN_ID not set; login is disabled")
	}
	productService := services.NewProductService(store.Products, publisher, log)

	server := app.New(app.Deps{
		Products:  productService,
		Auth:      authService,
		Logger:    log,
		Ping:      store.Ping,
		AccessLog: true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", c.cfg.AppPort),
			zap.String("driver", store.Driver()))
		errCh <- server.Listen(c.cfg.AppPort)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("listener returned", zap.Error(err))
	}
	log.Info("server gracefully stopped")
	return nil
}
