package services

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// ErrOrderNotDelivered is returned when a payout is requested for an order
// that has not reached the Delivered status.
var ErrOrderNotDelivered = errors.New("payout requires a delivered order")

// PayoutCalculator derives a rider's earning from a delivered order under the
// configured payout policy.
//
// The computation is a pure function of the order's money snapshot and the
// policy: integer-cents arithmetic only, so recomputation for audit always
// reproduces the same amount. Exactly-once semantics are enforced elsewhere,
// by the uniqueness constraint on the earning's order reference.
//
// Example:
//
//	calculator, _ := NewPayoutCalculator(NewFeePlusTipPolicy())
//	e, err := calculator.Calculate(deliveredOrder, time.Now())
//	if err != nil {
//	    // order not delivered, or no rider recorded
//	}
//	// e.Amount() == deliveryFee + tip
type PayoutCalculator struct {
	policy PayoutPolicy
}

// NewPayoutCalculator creates a calculator bound to a validated policy.
func NewPayoutCalculator(policy PayoutPolicy) (PayoutCalculator, error) {
	if err := policy.Validate(); err != nil {
		return PayoutCalculator{}, err
	}
	return PayoutCalculator{policy: policy}, nil
}

// Policy returns the configured payout policy.
func (c PayoutCalculator) Policy() PayoutPolicy {
	return c.policy
}

// Calculate produces the earning record for a delivered order. The order must
// be Delivered and carry the rider who completed it.
func (c PayoutCalculator) Calculate(o *order.Order, at time.Time) (*earning.Earning, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Status() != order.Delivered {
		return nil, fmt.Errorf("%w: current status is %s", ErrOrderNotDelivered, o.Status())
	}
	rider := o.Rider()
	if rider == nil {
		return nil, fmt.Errorf("%w: no rider recorded on the order", ErrOrderNotDelivered)
	}

	amount, err := c.amountFor(o)
	if err != nil {
		return nil, err
	}

	return earning.NewEarning(
		kernel.NewUUID(),
		o.ID(),
		*rider,
		amount,
		c.policy.Basis(),
		at,
	)
}

func (c PayoutCalculator) amountFor(o *order.Order) (kernel.Money, error) {
	switch c.policy.kind {
	case PolicyFeePlusTip:
		return o.DeliveryFee().Add(o.Tip())
	case PolicyFlat:
		return c.policy.flatAmount, nil
	case PolicyFeeShare:
		share, err := o.DeliveryFee().Percent(c.policy.feePercent)
		if err != nil {
			return kernel.Money{}, err
		}
		return share.Add(o.Tip())
	default:
		return kernel.Money{}, ErrPayoutPolicyIsNotConstructed
	}
}
