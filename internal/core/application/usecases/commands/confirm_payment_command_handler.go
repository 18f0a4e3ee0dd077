package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/ports"
)

// ConfirmPaymentCommandHandler records a payment confirmation exactly once.
// The flag write is conditional on the flag being unset, so a redelivered
// signal, or two copies of the same signal racing each other, produces one
// state change and one event no matter the interleaving.
type ConfirmPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewConfirmPaymentCommandHandler creates a handler for payment confirmations.
func NewConfirmPaymentCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes the confirmation. Replays acknowledge successfully without
// re-emitting the confirmation event.
func (h ConfirmPaymentCommandHandler) Handle(ctx context.Context, command ConfirmPaymentCommand) error {
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

	if changed := aggregate.ConfirmPayment(); !changed {
		h.logger.InfoContext(ctx, "payment signal replayed, already confirmed",
			"order_id", aggregate.ID().String(),
			"payment_ref", command.PaymentRef(),
		)
		return nil
	}

	if err := repo.ConfirmPayment(ctx, aggregate); err != nil {
		if errors.Is(err, ports.ErrConcurrentModification) {
			// A racing copy of the same signal confirmed first.
			return nil
		}
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.PaymentConfirmedEvent{
		OrderID:    aggregate.ID().String(),
		OrderCode:  aggregate.Code(),
		PaymentRef: command.PaymentRef(),
		OccurredAt: now,
	}

	if err := h.publisher.PublishPaymentConfirmed(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to publish payment confirmation event",
			"order_id", event.OrderID,
			"error", err,
		)
	}

	return nil
}
