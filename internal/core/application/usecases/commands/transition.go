package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

const transitionRetryAttempts = 3

// applyTransition loads an order, applies a lifecycle mutation and persists it
// conditionally on the status the aggregate was loaded with. When the
// conditional write loses a race the order is re-read and the mutation is
// re-applied against the winning state, so the caller always receives the
// domain outcome for the state that actually holds in the store.
//
// mutate must be a pure domain call (TransitionTo, Cancel or a wrapper):
// it is invoked once per attempt against fresh state.
func applyTransition(
	ctx context.Context,
	uow OrderUoW,
	orderID kernel.UUID,
	mutate func(o *order.Order) error,
) (*order.Order, order.Status, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	var lastErr error
	for attempt := 0; attempt < transitionRetryAttempts; attempt++ {
		aggregate, err := repo.Get(ctx, orderID)
		if err != nil {
			return nil, order.Unknown, err
		}

		from := aggregate.Status()
		if err := mutate(aggregate); err != nil {
			return nil, order.Unknown, err
		}

		err = repo.UpdateFromStatus(ctx, aggregate, from)
		if errors.Is(err, ports.ErrConcurrentModification) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, order.Unknown, err
		}

		if err := uow.Commit(ctx); err != nil {
			return nil, order.Unknown, err
		}

		return aggregate, from, nil
	}

	return nil, order.Unknown, lastErr
}

// publishTransitioned emits the post-commit notification for an applied
// transition. Publish failures are logged and swallowed: the state change has
// already committed and must not be reported as failed.
func publishTransitioned(
	ctx context.Context,
	publisher ports.EventPublisher,
	logger *slog.Logger,
	aggregate *order.Order,
	from order.Status,
	role order.Role,
	at time.Time,
) {
	event := ports.OrderTransitionedEvent{
		OrderID:    aggregate.ID().String(),
		OrderCode:  aggregate.Code(),
		FromStatus: from.String(),
		ToStatus:   aggregate.Status().String(),
		ActorRole:  role.String(),
		OccurredAt: at,
	}

	if err := publisher.PublishOrderTransitioned(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish order transition event",
			"order_id", event.OrderID,
			"to_status", event.ToStatus,
			"error", err,
		)
	}
}
