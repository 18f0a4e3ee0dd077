// Package eventlog provides a log-only EventPublisher used when no message
// broker is configured. Events still leave a structured trace, so a local or
// degraded deployment keeps its audit trail.
package eventlog

import (
	"context"
	"log/slog"

	"orderflow/internal/core/ports"
)

// SlogEventPublisher implements ports.EventPublisher by writing events to the
// structured log. It never fails.
type SlogEventPublisher struct {
	logger *slog.Logger
}

// NewSlogEventPublisher creates a log-only event publisher.
func NewSlogEventPublisher(logger *slog.Logger) *SlogEventPublisher {
	return &SlogEventPublisher{
		logger: logger.With("component", "event_log"),
	}
}

// PublishOrderTransitioned logs a transition event.
func (p *SlogEventPublisher) PublishOrderTransitioned(ctx context.Context, event ports.OrderTransitionedEvent) error {
	p.logger.InfoContext(ctx, "order transitioned",
		"order_id", event.OrderID,
		"order_code", event.OrderCode,
		"from_status", event.FromStatus,
		"to_status", event.ToStatus,
		"actor_role", event.ActorRole,
	)
	return nil
}

// PublishPaymentConfirmed logs a payment confirmation event.
func (p *SlogEventPublisher) PublishPaymentConfirmed(ctx context.Context, event ports.PaymentConfirmedEvent) error {
	p.logger.InfoContext(ctx, "payment confirmed",
		"order_id", event.OrderID,
		"order_code", event.OrderCode,
		"payment_ref", event.PaymentRef,
	)
	return nil
}

// PublishEarningCreated logs an earning event.
func (p *SlogEventPublisher) PublishEarningCreated(ctx context.Context, event ports.EarningCreatedEvent) error {
	p.logger.InfoContext(ctx, "earning created",
		"earning_id", event.EarningID,
		"order_id", event.OrderID,
		"rider_id", event.RiderID,
		"amount_cents", event.AmountCents,
		"basis", event.Basis,
	)
	return nil
}
