package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var (
	ErrConfirmPaymentCommandIsNotConstructed = errors.New(
		"ConfirmPaymentCommand must be created via NewConfirmPaymentCommand constructor",
	)
	ErrPaymentRefIsRequired = errors.New("payment reference is required")
)

// ConfirmPaymentCommand represents a verified payment-success signal from the
// external payment provider. Providers redeliver signals; handling is
// idempotent on the payment reference.
type ConfirmPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentRef string

	guard guard.ConstructorGuard
}

// NewConfirmPaymentCommand creates a command to confirm an order's payment.
func NewConfirmPaymentCommand(paymentRef string) (ConfirmPaymentCommand, error) {
	command := ConfirmPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setPaymentRef(paymentRef); err != nil {
		return ConfirmPaymentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmPaymentCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentCommandIsNotConstructed)
}

// PaymentRef returns the provider's payment reference.
func (c ConfirmPaymentCommand) PaymentRef() string {
	return c.paymentRef
}

func (c *ConfirmPaymentCommand) setPaymentRef(paymentRef string) error {
	if paymentRef == "" {
		return ErrPaymentRefIsRequired
	}

	c.paymentRef = paymentRef
	return nil
}
