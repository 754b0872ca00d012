package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"plantshop/internal/models"
	"plantshop/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var errEventsDisabled = errors.New("RABBITMQ_URL is required for the events command")

func newEventsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Log catalog events from RabbitMQ until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.EventsEnabled() {
				return errEventsDisabled
			}
			mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: c.cfg.RabbitMQURL})
			if err != nil {
				return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
			}

			done := make(chan struct{})
			defer close(done)
			go func() {
				select {
				case <-cmd.Context().Done():
				case <-done:
				}
				_ = mq.Close()
			}()

			c.logger.Info("consuming catalog events", zap.String("queue", rabbitmq.DefaultQueue))
			return mq.Consume("plantshop-events", logEvent(c.logger))
		},
	}
}

// logEvent decodes a catalog event and logs it. Undecodable bodies are
// rejected.
func logEvent(logger *zap.Logger) rabbitmq.Handler {
	return func(msg amqp.Delivery) error {
		var event models.ProductEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			logger.Warn("discarding malformed event",
				zap.Uint64("delivery_tag", msg.DeliveryTag),
				zap.Error(err))
			return err
		}
		logger.Info("catalog event",
			zap.String("routing_key", msg.RoutingKey),
			zap.String("type", event.Type),
			zap.String("product_id", event.ProductID),
			zap.Time("occurred_at", event.OccurredAt))
		return nil
	}
}
