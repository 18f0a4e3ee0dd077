package ports

import (
	"context"
	"time"
)

// OrderTransitionedEvent notifies the other interested party that an order
// moved along the lifecycle graph. Emitted only after the state write
// commits; consumers see every applied transition exactly as the store
// recorded it.
type OrderTransitionedEvent struct {
	OrderID    string    `json:"order_id"`
	OrderCode  string    `json:"order_code"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorRole  string    `json:"actor_role"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentConfirmedEvent notifies downstream consumers that the external
// charge for an order was confirmed. Emitted at most once per order no
// matter how often the provider replays the signal.
type PaymentConfirmedEvent struct {
	OrderID    string    `json:"order_id"`
	OrderCode  string    `json:"order_code"`
	PaymentRef string    `json:"payment_ref"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EarningCreatedEvent feeds reporting once a rider payout is recorded.
type EarningCreatedEvent struct {
	EarningID   string    `json:"earning_id"`
	OrderID     string    `json:"order_id"`
	RiderID     string    `json:"rider_id"`
	AmountCents int64     `json:"amount_cents"`
	Basis       string    `json:"basis"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher delivers lifecycle events to the notification collaborator.
// Publishing is fire-and-forget from the caller's perspective: a failed
// publish is logged by the adapter and must never fail or roll back the
// transition that produced the event.
type EventPublisher interface {
	PublishOrderTransitioned(ctx context.Context, event OrderTransitionedEvent) error
	PublishPaymentConfirmed(ctx context.Context, event PaymentConfirmedEvent) error
	PublishEarningCreated(ctx context.Context, event EarningCreatedEvent) error
}
