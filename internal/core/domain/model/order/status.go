package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Preparing ──> ReadyForPickup ──> PickedUp ──> Delivered
//	   │            │               │               │
//	   └────────────┴───────────────┴───────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal: once reached, no further transition
// is legal. Which actor may drive each edge is defined by the transition
// table in transitions.go, not by Status itself.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after checkout creates the order.
	// The order waits here for payment confirmation and restaurant acceptance.
	Pending

	// Preparing indicates the restaurant accepted the order and is cooking.
	Preparing

	// ReadyForPickup indicates the food is ready and waiting for a rider.
	// This is the contention point for rider claims.
	ReadyForPickup

	// PickedUp indicates exactly one rider holds custody of the order.
	PickedUp

	// Delivered is the successful terminal status. Reaching it triggers the
	// payout computation.
	Delivered

	// Cancelled is the unsuccessful terminal status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Preparing:      "PREPARING",
		ReadyForPickup: "READY_FOR_PICKUP",
		PickedUp:       "PICKED_UP",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "PENDING",
		Preparing:      "PREPARING",
		ReadyForPickup: "READY_FOR_PICKUP",
		PickedUp:       "PICKED_UP",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// StatusFromString parses the wire representation of a status (e.g.
// "READY_FOR_PICKUP"). Used when reconstructing from persistence and when an
// admin override names a target status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%q is not a valid status", s),
	)
}

// Validate checks if the Status value is one of the defined lifecycle states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the wire representation of the status, e.g. "PICKED_UP".
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status absorbs all further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}
