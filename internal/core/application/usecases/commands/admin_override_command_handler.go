package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// AdminOverrideCommandHandler applies an administrative status override.
// Cancellation overrides record the reason on the order; any other target is
// applied through the regular transition path under the admin role.
type AdminOverrideCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAdminOverrideCommandHandler creates a handler for admin interventions.
func NewAdminOverrideCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AdminOverrideCommandHandler {
	return AdminOverrideCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the override and returns the resulting status.
func (h AdminOverrideCommandHandler) Handle(ctx context.Context, command AdminOverrideCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	now := time.Now().UTC()

	mutate := func(o *order.Order) error {
		if command.TargetStatus() == order.Cancelled {
			return o.Cancel(command.ActorID(), order.RoleAdmin, command.Reason(), now)
		}
		return o.TransitionTo(command.TargetStatus(), command.ActorID(), order.RoleAdmin, now)
	}

	aggregate, from, err := applyTransition(ctx, h.uowFactory.Create(), command.OrderID(), mutate)
	if err != nil {
		return order.Unknown, err
	}

	h.logger.InfoContext(ctx, "admin override applied",
		"order_id", command.OrderID().String(),
		"from_status", from.String(),
		"to_status", aggregate.Status().String(),
		"reason", command.Reason(),
	)

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, order.RoleAdmin, now)

	return aggregate.Status(), nil
}
