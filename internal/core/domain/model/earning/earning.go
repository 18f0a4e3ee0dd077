// Package earning provides the Earning aggregate: the immutable record of a
// rider's payout for one delivered order. At most one earning exists per
// order, enforced by a uniqueness constraint on the order reference, so
// repeated delivery-transition retries can never double-pay.
package earning

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrEarningIsNotConstructed is returned when an Earning instance was not
	// created through NewEarning or RestoreEarning.
	ErrEarningIsNotConstructed = errors.New("Earning must be created via NewEarning or RestoreEarning constructor")

	// ErrPayoutAlreadyComputed indicates an earning already exists for the
	// order. It is a short-circuit outcome, not a failure: callers load and
	// return the existing record.
	ErrPayoutAlreadyComputed = errors.New("payout was already computed for this order")
)

// Earning is the payout record derived from a delivered order. Once created
// it never changes; recomputation for audit re-derives the same amount from
// the order's money snapshot and the payout policy recorded in Basis.
type Earning struct {
	id        kernel.UUID
	orderID   kernel.UUID
	riderID   kernel.UUID
	amount    kernel.Money
	basis     string
	createdAt time.Time

	isConstructed bool
}

// NewEarning creates the payout record for one delivered order.
// Basis names the policy that produced the amount (e.g. "delivery_fee_plus_tip")
// so an auditor can recompute it.
func NewEarning(
	id kernel.UUID,
	orderID kernel.UUID,
	riderID kernel.UUID,
	amount kernel.Money,
	basis string,
	createdAt time.Time,
) (*Earning, error) {
	e := &Earning{
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setOrderID(orderID),
		e.setRiderID(riderID),
		e.setAmount(amount),
		e.setBasis(basis),
		e.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEarning reconstructs an earning from persistence.
func RestoreEarning(
	id kernel.UUID,
	orderID kernel.UUID,
	riderID kernel.UUID,
	amount kernel.Money,
	basis string,
	createdAt time.Time,
) (*Earning, error) {
	return NewEarning(id, orderID, riderID, amount, basis, createdAt)
}

// Validate ensures the Earning instance was properly constructed.
func (e *Earning) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEarningIsNotConstructed
	}
	return nil
}

// ID returns the earning's unique identifier.
func (e *Earning) ID() kernel.UUID {
	return e.id
}

// OrderID returns the delivered order this payout belongs to.
func (e *Earning) OrderID() kernel.UUID {
	return e.orderID
}

// RiderID returns the rider being paid.
func (e *Earning) RiderID() kernel.UUID {
	return e.riderID
}

// Amount returns the payout amount.
func (e *Earning) Amount() kernel.Money {
	return e.amount
}

// Basis returns the name of the policy that produced the amount.
func (e *Earning) Basis() string {
	return e.basis
}

// CreatedAt returns when the payout was computed.
func (e *Earning) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Earning) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Earning) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	e.orderID = orderID
	return nil
}

func (e *Earning) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	e.riderID = riderID
	return nil
}

func (e *Earning) setAmount(amount kernel.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	e.amount = amount
	return nil
}

func (e *Earning) setBasis(basis string) error {
	if basis == "" {
		return errs.NewValueIsRequiredError("payout basis")
	}
	e.basis = basis
	return nil
}

func (e *Earning) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	e.createdAt = createdAt
	return nil
}
