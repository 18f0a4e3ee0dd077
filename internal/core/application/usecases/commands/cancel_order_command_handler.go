package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order on behalf of a customer,
// restaurant or administrator. The domain decides per role and per current
// status whether the cancellation is allowed; a customer, for example, loses
// the right to cancel once preparation has started.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the cancellation and returns the resulting status.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	now := time.Now().UTC()

	aggregate, from, err := applyTransition(ctx, h.uowFactory.Create(), command.OrderID(),
		func(o *order.Order) error {
			return o.Cancel(command.ActorID(), command.Role(), command.Reason(), now)
		})
	if err != nil {
		return order.Unknown, err
	}

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, command.Role(), now)

	return aggregate.Status(), nil
}
