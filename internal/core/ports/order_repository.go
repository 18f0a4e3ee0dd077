// Package ports defines the persistence and messaging contracts between the
// application core and its adapters, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// ErrConcurrentModification indicates a conditional write matched zero rows
// because another actor changed the order between the read and the write.
// Handlers re-read the order and classify the outcome for the caller; this
// error never surfaces beyond the application layer.
var ErrConcurrentModification = errors.New("order was modified concurrently")

// OrderRepository defines the persistence contract for order aggregates.
//
// The order's row in the store is the sole arbitration token for concurrent
// transitions: every status write is conditional on the status the aggregate
// was loaded with, so two racing actors can never both succeed from the same
// stale state. In-memory locks would be unsound across replicated processes;
// the conditional write is the only guard needed.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate with its line items by ID.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByPaymentRef retrieves the order correlated with an external charge.
	// Used by the payment confirmation handler to resolve provider signals.
	GetByPaymentRef(ctx context.Context, paymentRef string) (*order.Order, error)

	// UpdateFromStatus persists the aggregate's lifecycle state conditionally
	// on the status it held when loaded: "update ... where id = ? and
	// status = ?". Returns ErrConcurrentModification when the condition no
	// longer holds.
	UpdateFromStatus(ctx context.Context, aggregate *order.Order, from order.Status) error

	// Claim persists a rider claim as a single atomic conditional write:
	// "update ... where id = ? and status = READY_FOR_PICKUP and rider_id is
	// null". Exactly one concurrent caller succeeds; the rest get
	// ErrConcurrentModification and must re-read to classify the loss.
	Claim(ctx context.Context, aggregate *order.Order) error

	// ConfirmPayment persists the payment confirmation flag conditionally on
	// it being unset, making signal replays observable as
	// ErrConcurrentModification rather than double side effects.
	ConfirmPayment(ctx context.Context, aggregate *order.Order) error

	// GetDeliveredWithoutEarning retrieves delivered orders that have no
	// earning recorded yet. Feeds the out-of-band payout retry.
	GetDeliveredWithoutEarning(ctx context.Context) ([]*order.Order, error)
}
