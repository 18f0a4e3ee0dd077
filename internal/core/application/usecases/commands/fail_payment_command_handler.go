package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// FailPaymentCommandHandler cancels an order whose charge failed. A replayed
// failure signal finds the order already cancelled and acknowledges without
// touching it; a failure arriving after delivery is rejected, since the food
// is gone and reconciliation is a human problem.
type FailPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewFailPaymentCommandHandler creates a handler for payment failures.
func NewFailPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) FailPaymentCommandHandler {
	return FailPaymentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the failure signal.
func (h FailPaymentCommandHandler) Handle(ctx context.Context, command FailPaymentCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	aggregate, err := repo.GetByPaymentRef(ctx, command.PaymentRef())
	if err != nil {
		return err
	}

	from := aggregate.Status()
	if err := aggregate.CancelForPaymentFailure(command.Reason(), now); err != nil {
		return err
	}

	if aggregate.Status() == from {
		// Replay: the order is already cancelled.
		return nil
	}

	if err := repo.UpdateFromStatus(ctx, aggregate, from); err != nil {
		if errors.Is(err, ports.ErrConcurrentModification) {
			// Another actor moved the order first. The provider redelivers
			// failure signals, so the retry classifies against fresh state.
			h.logger.InfoContext(ctx, "payment failure lost a race, awaiting redelivery",
				"order_id", aggregate.ID().String(),
				"payment_ref", command.PaymentRef(),
			)
		}
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, order.RoleAdmin, now)

	return nil
}
