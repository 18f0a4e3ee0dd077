package commands

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// MarkDeliveredCommandHandler completes an order and triggers the rider
// payout. The delivery transition commits in its own transaction before the
// payout is attempted: a payout failure leaves the order delivered, and the
// retry job picks up the earning later. The payout must never roll back a
// handoff that already happened in the physical world.
type MarkDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	payout     ComputePayoutCommandHandler
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewMarkDeliveredCommandHandler creates a handler for delivery completion.
func NewMarkDeliveredCommandHandler(
	uowFactory OrderUoWFactory,
	payout ComputePayoutCommandHandler,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		payout:     payout,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the delivery confirmation and returns the resulting
// status. When the acting role is rider, the domain verifies the actor is the
// assigned rider before allowing the transition.
func (h MarkDeliveredCommandHandler) Handle(ctx context.Context, command MarkDeliveredCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	now := time.Now().UTC()

	aggregate, from, err := applyTransition(ctx, h.uowFactory.Create(), command.OrderID(),
		func(o *order.Order) error {
			return o.TransitionTo(order.Delivered, command.ActorID(), command.Role(), now)
		})
	if err != nil {
		return order.Unknown, err
	}

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, command.Role(), now)

	payoutCommand, err := NewComputePayoutCommand(command.OrderID())
	if err != nil {
		return aggregate.Status(), err
	}

	if _, err := h.payout.Handle(ctx, payoutCommand); err != nil {
		h.logger.ErrorContext(ctx, "payout failed after delivery, leaving for retry",
			"order_id", command.OrderID().String(),
			"error", err,
		)
	}

	return aggregate.Status(), nil
}
