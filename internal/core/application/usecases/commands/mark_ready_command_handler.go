package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// MarkReadyCommandHandler moves an order from preparation to the claimable
// ready state, opening the rider claim window.
type MarkReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewMarkReadyCommandHandler creates a handler for the ready announcement.
func NewMarkReadyCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) MarkReadyCommandHandler {
	return MarkReadyCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the ready command and returns the resulting status.
func (h MarkReadyCommandHandler) Handle(ctx context.Context, command MarkReadyCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	now := time.Now().UTC()

	aggregate, from, err := applyTransition(ctx, h.uowFactory.Create(), command.OrderID(),
		func(o *order.Order) error {
			return o.TransitionTo(order.ReadyForPickup, command.ActorID(), command.Role(), now)
		})
	if err != nil {
		return order.Unknown, err
	}

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, command.Role(), now)

	return aggregate.Status(), nil
}
