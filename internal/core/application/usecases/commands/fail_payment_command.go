package commands

import (
	"errors"

	"orderflow/internal/pkg/guard"
)

var ErrFailPaymentCommandIsNotConstructed = errors.New(
	"FailPaymentCommand must be created via NewFailPaymentCommand constructor",
)

// FailPaymentCommand represents a verified payment-failure signal from the
// external payment provider. Idempotent like its confirmation counterpart.
type FailPaymentCommand struct { //nolint:recvcheck //using for validation
	paymentRef string
	reason     string

	guard guard.ConstructorGuard
}

// NewFailPaymentCommand creates a command to handle a failed payment.
// The reason defaults to a generic message when the provider sends none.
func NewFailPaymentCommand(paymentRef, reason string) (FailPaymentCommand, error) {
	command := FailPaymentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setPaymentRef(paymentRef); err != nil {
		return FailPaymentCommand{}, err
	}
	command.setReason(reason)

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c FailPaymentCommand) Validate() error {
	return c.guard.Validate(ErrFailPaymentCommandIsNotConstructed)
}

// PaymentRef returns the provider's payment reference.
func (c FailPaymentCommand) PaymentRef() string {
	return c.paymentRef
}

// Reason returns the failure description recorded on the order.
func (c FailPaymentCommand) Reason() string {
	return c.reason
}

func (c *FailPaymentCommand) setPaymentRef(paymentRef string) error {
	if paymentRef == "" {
		return ErrPaymentRefIsRequired
	}

	c.paymentRef = paymentRef
	return nil
}

func (c *FailPaymentCommand) setReason(reason string) {
	if reason == "" {
		reason = "payment failed"
	}

	c.reason = reason
}
