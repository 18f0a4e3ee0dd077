package ports

import (
	"context"

	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"
)

// EarningRepository defines the persistence contract for earning records.
// The store enforces a uniqueness constraint on the order reference, which is
// what makes the payout computation at-most-once under delivery retries.
type EarningRepository interface {
	// Add persists a new earning. If an earning already exists for the same
	// order, Add returns earning.ErrPayoutAlreadyComputed; callers load and
	// return the existing record instead of failing.
	Add(ctx context.Context, aggregate *earning.Earning) error

	// GetByOrderID retrieves the earning recorded for an order, if any.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*earning.Earning, error)
}
