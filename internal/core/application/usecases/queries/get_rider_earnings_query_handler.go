package queries

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRiderEarningsQueryHandler lists a rider's recorded payouts.
type GetRiderEarningsQueryHandler struct {
	db *gorm.DB
}

// NewGetRiderEarningsQueryHandler creates a handler for earnings queries.
func NewGetRiderEarningsQueryHandler(db *gorm.DB) GetRiderEarningsQueryHandler {
	return GetRiderEarningsQueryHandler{db: db}
}

// Handle executes the earnings query. A rider with no payouts gets an empty
// listing, not an error.
func (h GetRiderEarningsQueryHandler) Handle(
	ctx context.Context,
	query GetRiderEarningsQuery,
) (GetRiderEarningsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRiderEarningsQueryResponse{}, err
	}

	response := GetRiderEarningsQueryResponse{
		RiderID:  query.RiderID(),
		Earnings: make([]RiderEarningItem, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			amount_cents,
			basis,
			created_at
		FROM earnings
		WHERE rider_id = ?
		ORDER BY created_at DESC, id
	`, query.RiderID().String()).Rows()
	if err != nil {
		return GetRiderEarningsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          uuid.UUID
			orderID     uuid.UUID
			amountCents int64
			basis       string
			createdAt   time.Time
		)

		if err := rows.Scan(&id, &orderID, &amountCents, &basis, &createdAt); err != nil {
			return GetRiderEarningsQueryResponse{}, err
		}

		earningID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetRiderEarningsQueryResponse{}, idErr
		}
		orderUUID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return GetRiderEarningsQueryResponse{}, idErr
		}

		response.Earnings = append(response.Earnings, RiderEarningItem{
			EarningID:   earningID,
			OrderID:     orderUUID,
			AmountCents: amountCents,
			Basis:       basis,
			CreatedAt:   createdAt,
		})
		response.TotalCents += amountCents
	}

	if err := rows.Err(); err != nil {
		return GetRiderEarningsQueryResponse{}, err
	}

	return response, nil
}
