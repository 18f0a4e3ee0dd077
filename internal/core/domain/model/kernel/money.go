package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// ErrMoneyIsNotConstructed indicates that a Money value was not created through
// NewMoneyFromCents. The zero value of Money is invalid.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("Money must be created via NewMoneyFromCents")

// Money is a value object representing a monetary amount in integer cents.
// All arithmetic is exact integer arithmetic, so repeated computation over the
// same inputs always produces the same result. The system operates in a single
// currency, so Money carries no currency code.
//
// The zero value of Money is invalid; construct amounts with NewMoneyFromCents
// (or ZeroMoney for an explicit zero amount such as a missing tip).
//
// Example usage:
//
//	subtotal, _ := kernel.NewMoneyFromCents(2000)
//	fee, _ := kernel.NewMoneyFromCents(300)
//	total, _ := subtotal.Add(fee)
//	fmt.Println(total.String()) // "23.00"
type Money struct {
	cents int64
	guard ConstructorGuard
}

// NewMoneyFromCents creates a Money value from an amount in cents.
// Negative amounts are rejected: the order lifecycle never deals in refunds
// or negative line items.
func NewMoneyFromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money",
			fmt.Errorf("%d cents is negative", cents),
		)
	}
	return Money{
		cents: cents,
		guard: NewConstructorGuard(),
	}, nil
}

// ZeroMoney returns a properly constructed zero amount.
// Useful for orders without a tip.
func ZeroMoney() Money {
	return Money{
		cents: 0,
		guard: NewConstructorGuard(),
	}
}

// Cents returns the amount in integer cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
// Both operands must be properly constructed.
func (m Money) Add(other Money) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if err := other.Validate(); err != nil {
		return Money{}, err
	}
	return Money{
		cents: m.cents + other.cents,
		guard: NewConstructorGuard(),
	}, nil
}

// Percent returns the given integer percentage of the amount, truncated toward
// zero. Truncation keeps the result deterministic for audit recomputation.
func (m Money) Percent(percent int64) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if percent < 0 || percent > 100 {
		return Money{}, errs.NewValueIsOutOfRangeError("percent", percent, 0, 100)
	}
	return Money{
		cents: m.cents * percent / 100,
		guard: NewConstructorGuard(),
	}, nil
}

// IsEqual compares two amounts for exact equality.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String renders the amount with two decimal places, e.g. "25.00".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// Validate checks that the Money value was created through a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
