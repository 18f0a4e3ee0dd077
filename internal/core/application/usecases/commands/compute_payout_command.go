package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrComputePayoutCommandIsNotConstructed = errors.New(
	"ComputePayoutCommand must be created via NewComputePayoutCommand constructor",
)

// ComputePayoutCommand represents a request to record the rider earning for a
// delivered order. Safe to issue any number of times for the same order.
type ComputePayoutCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewComputePayoutCommand creates a command to compute a rider payout.
func NewComputePayoutCommand(orderID kernel.UUID) (ComputePayoutCommand, error) {
	command := ComputePayoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setOrderID(orderID); err != nil {
		return ComputePayoutCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ComputePayoutCommand) Validate() error {
	return c.guard.Validate(ErrComputePayoutCommandIsNotConstructed)
}

// OrderID returns the identifier of the delivered order.
func (c ComputePayoutCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ComputePayoutCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
