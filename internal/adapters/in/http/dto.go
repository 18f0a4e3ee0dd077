package http

import (
	"time"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// CurrentStatus carries the order's actual status on lifecycle
	// conflicts, so callers can resynchronize without a second request.
	CurrentStatus string `json:"current_status,omitempty"`
}

// TransitionResponse reports the status an order ended up in after a
// lifecycle operation.
type TransitionResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// CancelRequest carries the reason for a cancellation or rejection.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// OverrideRequest carries an administrative override.
type OverrideRequest struct {
	TargetStatus string `json:"target_status"`
	Reason       string `json:"reason"`
}

// TrackingResponse is the read model of an order's lifecycle position.
type TrackingResponse struct {
	OrderID      string     `json:"order_id"`
	Code         string     `json:"code"`
	Status       string     `json:"status"`
	RiderID      *string    `json:"rider_id,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt   *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
}

// EarningResponse is one payout record in the rider earnings listing.
type EarningResponse struct {
	EarningID   string    `json:"earning_id"`
	OrderID     string    `json:"order_id"`
	AmountCents int64     `json:"amount_cents"`
	Basis       string    `json:"basis"`
	CreatedAt   time.Time `json:"created_at"`
}

// EarningsResponse lists a rider's payouts with the running total.
type EarningsResponse struct {
	RiderID    string            `json:"rider_id"`
	Earnings   []EarningResponse `json:"earnings"`
	TotalCents int64             `json:"total_cents"`
}
