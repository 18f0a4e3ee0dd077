// Package rabbitmq publishes lifecycle events to a RabbitMQ topic exchange.
// Consumers bind with patterns like "order.transition.*" to follow the
// lifecycle or "order.earning.created" to feed reporting.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orderflow/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange is the topic exchange all lifecycle events are published to.
const Exchange = "orders.lifecycle"

// RabbitEventPublisher implements ports.EventPublisher over amqp091.
// Messages are persistent JSON; delivery beyond the broker is the
// consumers' concern.
type RabbitEventPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// NewRabbitEventPublisher connects to the broker and declares the exchange.
func NewRabbitEventPublisher(url string, logger *slog.Logger) (*RabbitEventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &RabbitEventPublisher{
		conn:   conn,
		ch:     ch,
		logger: logger.With("component", "rabbitmq_publisher"),
	}, nil
}

// Close releases the channel and connection.
func (p *RabbitEventPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishOrderTransitioned emits a transition event routed by target status,
// e.g. "order.transition.delivered".
func (p *RabbitEventPublisher) PublishOrderTransitioned(ctx context.Context, event ports.OrderTransitionedEvent) error {
	key := "order.transition." + strings.ToLower(event.ToStatus)
	return p.publish(ctx, key, event)
}

// PublishPaymentConfirmed emits a payment confirmation event.
func (p *RabbitEventPublisher) PublishPaymentConfirmed(ctx context.Context, event ports.PaymentConfirmedEvent) error {
	return p.publish(ctx, "order.payment.confirmed", event)
}

// PublishEarningCreated emits an earning event for reporting consumers.
func (p *RabbitEventPublisher) PublishEarningCreated(ctx context.Context, event ports.EarningCreatedEvent) error {
	return p.publish(ctx, "order.earning.created", event)
}

func (p *RabbitEventPublisher) publish(ctx context.Context, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, Exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}

	p.logger.DebugContext(ctx, "event published", "routing_key", key)
	return nil
}
