package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetRiderEarningsQueryIsNotConstructed = errors.New(
	"GetRiderEarningsQuery must be created via NewGetRiderEarningsQuery constructor",
)

// GetRiderEarningsQuery retrieves the payout records of a rider, newest
// first, together with the running total.
type GetRiderEarningsQuery struct { //nolint:recvcheck //using for validation
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRiderEarningsQuery creates an earnings query for the given rider.
func NewGetRiderEarningsQuery(riderID kernel.UUID) (GetRiderEarningsQuery, error) {
	query := GetRiderEarningsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setRiderID(riderID); err != nil {
		return GetRiderEarningsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRiderEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetRiderEarningsQueryIsNotConstructed)
}

// RiderID returns the identifier of the rider.
func (q GetRiderEarningsQuery) RiderID() kernel.UUID {
	return q.riderID
}

func (q *GetRiderEarningsQuery) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}

	q.riderID = riderID
	return nil
}

// RiderEarningItem is one payout record in the earnings listing.
type RiderEarningItem struct {
	EarningID   kernel.UUID
	OrderID     kernel.UUID
	AmountCents int64
	Basis       string
	CreatedAt   time.Time
}

// GetRiderEarningsQueryResponse lists a rider's payouts newest first.
type GetRiderEarningsQueryResponse struct {
	RiderID    kernel.UUID
	Earnings   []RiderEarningItem
	TotalCents int64
}
