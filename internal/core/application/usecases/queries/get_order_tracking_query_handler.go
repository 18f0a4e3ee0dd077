package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTrackingQueryHandler reads tracking data for a single order.
type GetOrderTrackingQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackingQueryHandler creates a handler for tracking queries.
// Requires a GORM database connection for query execution.
func NewGetOrderTrackingQueryHandler(db *gorm.DB) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db}
}

// Handle executes the tracking query. Returns errs.ErrObjectNotFound when the
// order does not exist.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			code,
			status,
			rider_id,
			cancel_reason,
			created_at,
			assigned_at,
			picked_up_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		id           uuid.UUID
		code         string
		status       int
		riderID      *uuid.UUID
		cancelReason string
		createdAt    time.Time
		assignedAt   sql.NullTime
		pickedUpAt   sql.NullTime
		deliveredAt  sql.NullTime
	)

	err := row.Scan(
		&id, &code, &status, &riderID, &cancelReason,
		&createdAt, &assignedAt, &pickedUpAt, &deliveredAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderTrackingQueryResponse{},
			errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	response := GetOrderTrackingQueryResponse{
		OrderID:      orderID,
		Code:         code,
		Status:       order.Status(status),
		CancelReason: cancelReason,
		CreatedAt:    createdAt,
		AssignedAt:   nullableTime(assignedAt),
		PickedUpAt:   nullableTime(pickedUpAt),
		DeliveredAt:  nullableTime(deliveredAt),
	}

	if riderID != nil {
		rid, ridErr := kernel.UUIDFromBytes(riderID[:])
		if ridErr != nil {
			return GetOrderTrackingQueryResponse{}, ridErr
		}
		response.RiderID = &rid
	}

	return response, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
