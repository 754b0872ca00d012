package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

const (
	// DefaultExchange is the topic exchange catalog events are published to.
	DefaultExchange = "catalog"
	// DefaultQueue receives every product.* event.
	DefaultQueue = "catalog_events"
	// ProductBindingKey matches every product lifecycle routing key.
	ProductBindingKey = "product.*"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

func (c Config) withDefaults() Config {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.Queue == "" {
		c.Queue = DefaultQueue
	}
	return c
}

// NewClient connects to RabbitMQ, opens a channel and declares the catalog
// exchange together with its durable queue.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	if _, err := ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}

	if err := ch.QueueBind(cfg.Queue, ProductBindingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends a persistent JSON message to the catalog exchange.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

// Handler processes one delivery. Returning an error nacks the message.
type Handler func(msg amqp.Delivery) error

// Consume delivers messages from the catalog queue to handler until the
// channel closes. Messages are acked on success and nacked without requeue
// on failure.
func (c *Client) Consume(consumerTag string, handler Handler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,     // queue
		consumerTag, // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for msg := range msgs {
		if err := handler(msg); err != nil {
			if nackErr := msg.Nack(false, false); nackErr != nil {
				return fmt.Errorf("failed to nack message %d: %w", msg.DeliveryTag, nackErr)
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			return fmt.Errorf("failed to ack message %d: %w", msg.DeliveryTag, ackErr)
		}
	}
	return nil
}
