package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var (
	ErrAdminOverrideCommandIsNotConstructed = errors.New(
		"AdminOverrideCommand must be created via NewAdminOverrideCommand constructor",
	)
	ErrOverrideReasonIsRequired = errors.New("override reason is required")
)

// AdminOverrideCommand represents an administrative intervention on an order,
// typically cancelling it from a state no other role can cancel from. The
// target status is still checked against the lifecycle table under the admin
// role, so an override can never resurrect a terminal order.
type AdminOverrideCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	actorID      kernel.UUID
	targetStatus order.Status
	reason       string

	guard guard.ConstructorGuard
}

// NewAdminOverrideCommand creates a command for an administrative override.
// The reason is mandatory; interventions are audited.
func NewAdminOverrideCommand(
	orderID, actorID kernel.UUID,
	targetStatus order.Status,
	reason string,
) (AdminOverrideCommand, error) {
	command := AdminOverrideCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setActorID(actorID),
		command.setTargetStatus(targetStatus),
		command.setReason(reason),
	); err != nil {
		return AdminOverrideCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AdminOverrideCommand) Validate() error {
	return c.guard.Validate(ErrAdminOverrideCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being overridden.
func (c AdminOverrideCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ActorID returns the identifier of the administrator.
func (c AdminOverrideCommand) ActorID() kernel.UUID {
	return c.actorID
}

// TargetStatus returns the status the administrator is forcing.
func (c AdminOverrideCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// Reason returns the audit reason for the intervention.
func (c AdminOverrideCommand) Reason() string {
	return c.reason
}

func (c *AdminOverrideCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AdminOverrideCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func (c *AdminOverrideCommand) setTargetStatus(targetStatus order.Status) error {
	if err := targetStatus.Validate(); err != nil {
		return err
	}

	c.targetStatus = targetStatus
	return nil
}

func (c *AdminOverrideCommand) setReason(reason string) error {
	if reason == "" {
		return ErrOverrideReasonIsRequired
	}

	c.reason = reason
	return nil
}
