package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// AcceptOrderCommandHandler moves a pending order into preparation.
// The transition is role-gated by the lifecycle table and persisted with a
// conditional write, so a concurrent cancellation cannot be silently
// overwritten.
type AcceptOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewAcceptOrderCommandHandler creates a handler for order acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the acceptance command and returns the resulting status.
// Domain rule violations surface as order package sentinels
// (order.ErrInvalidTransition, order.ErrUnauthorized, order.ErrTerminalState).
func (h AcceptOrderCommandHandler) Handle(ctx context.Context, command AcceptOrderCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	now := time.Now().UTC()

	aggregate, from, err := applyTransition(ctx, h.uowFactory.Create(), command.OrderID(),
		func(o *order.Order) error {
			return o.TransitionTo(order.Preparing, command.ActorID(), command.Role(), now)
		})
	if err != nil {
		return order.Unknown, err
	}

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, command.Role(), now)

	return aggregate.Status(), nil
}
