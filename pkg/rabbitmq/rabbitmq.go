package rabbitmq

import (
	"fmt"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// EventQueue is the durable queue carrying boutique domain events
// (user.registered, order.status_updated).
const EventQueue = "boutique_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel, and declares the event
// queue.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		EventQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", EventQueue, err)
	}

	log.Info("RabbitMQ client connected", zap.String("queue", EventQueue))

	return &Client{conn: conn, channel: ch, log: log}, nil
}

// Publish sends a domain event to the event queue. The routing key travels
// in the message Type so consumers can dispatch on it.
func (c *Client) Publish(routingKey string, body []byte) error {
	err := c.channel.Publish(
		"",         // default exchange
		EventQueue, // routed straight to the queue
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         routingKey,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	return nil
}

// ConsumeEvents delivers queued events to handler. A nil handler result
// acks the message; an error nacks it back onto the queue.
func (c *Client) ConsumeEvents(handler func(amqp.Delivery) error) error {
	deliveries, err := c.channel.Consume(
		EventQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", EventQueue, err)
	}

	for msg := range deliveries {
		if err := handler(msg); err != nil {
			c.log.Warn("event handler failed",
				zap.String("type", msg.Type), zap.Error(err))
			if nackErr := msg.Nack(false, true); nackErr != nil {
				c.log.Warn("failed to nack event", zap.Error(nackErr))
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			c.log.Warn("failed to ack event", zap.Error(ackErr))
		}
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
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}
