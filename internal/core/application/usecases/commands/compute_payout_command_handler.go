package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
)

// ComputePayoutCommandHandler records the rider earning for a delivered
// order. The earning store's uniqueness constraint on the order reference is
// what makes the computation exactly-once: a duplicate insert is detected,
// the existing record is returned and no second earning can ever exist. The
// handler is shared by the delivery command and the out-of-band retry job.
type ComputePayoutCommandHandler struct {
	uowFactory UoWFactory
	calculator services.PayoutCalculator
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewComputePayoutCommandHandler creates a handler for payout computation.
func NewComputePayoutCommandHandler(
	uowFactory UoWFactory,
	calculator services.PayoutCalculator,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ComputePayoutCommandHandler {
	return ComputePayoutCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle computes and persists the earning for the order, or returns the
// already-recorded earning when one exists. Re-running after a previous
// success emits no second event and creates no second record.
func (h ComputePayoutCommandHandler) Handle(ctx context.Context, command ComputePayoutCommand) (*earning.Earning, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	record, err := h.calculator.Calculate(aggregate, now)
	if err != nil {
		return nil, err
	}

	earningRepo := uow.EarningRepository()

	if err := earningRepo.Add(ctx, record); err != nil {
		if !errors.Is(err, earning.ErrPayoutAlreadyComputed) {
			return nil, err
		}

		// The failed insert aborted the transaction; postgres rejects
		// every statement on it until rollback. The existing record
		// must be read outside the dead transaction.
		_ = uow.Rollback(ctx)

		existing, getErr := h.uowFactory.Create().EarningRepository().GetByOrderID(ctx, aggregate.ID())
		if getErr != nil {
			return nil, getErr
		}
		return existing, nil
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	event := ports.EarningCreatedEvent{
		EarningID:   record.ID().String(),
		OrderID:     record.OrderID().String(),
		RiderID:     record.RiderID().String(),
		AmountCents: record.Amount().Cents(),
		Basis:       record.Basis(),
		OccurredAt:  now,
	}

	if err := h.publisher.PublishEarningCreated(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to publish earning event",
			"order_id", event.OrderID,
			"error", err,
		)
	}

	return record, nil
}
