package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ClaimOrderCommandHandler resolves competing rider claims for an order.
// The store is the arbiter: the claim persists through a single conditional
// write that only matches a ready, unassigned order, so exactly one of any
// number of concurrent claimants succeeds. A loser re-reads the order and
// receives the domain outcome for the state that won the race, either
// order.ErrAlreadyClaimed or order.ErrNotClaimable.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewClaimOrderCommandHandler creates a handler for rider claim attempts.
func NewClaimOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle processes a claim attempt and returns the resulting status when the
// rider wins. A claim is never retried on a lost race: losing means another
// rider holds the order now, which is a final answer, not a transient fault.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) (order.Status, error) {
	if err := command.Validate(); err != nil {
		return order.Unknown, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	aggregate, err := repo.Get(ctx, command.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	from := aggregate.Status()
	if err := aggregate.ClaimBy(command.RiderID(), now); err != nil {
		return order.Unknown, err
	}

	if err := repo.Claim(ctx, aggregate); err != nil {
		if !errors.Is(err, ports.ErrConcurrentModification) {
			return order.Unknown, err
		}
		return order.Unknown, h.classifyLostClaim(ctx, repo, command)
	}

	if err := uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	publishTransitioned(ctx, h.publisher, h.logger, aggregate, from, order.RoleRider, now)

	return aggregate.Status(), nil
}

// classifyLostClaim re-reads the order after a lost conditional write and
// replays the claim against the winning state to produce the correct domain
// sentinel for the caller.
func (h ClaimOrderCommandHandler) classifyLostClaim(
	ctx context.Context,
	repo ports.OrderRepository,
	command ClaimOrderCommand,
) error {
	fresh, err := repo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err := fresh.ClaimBy(command.RiderID(), time.Now().UTC()); err != nil {
		return err
	}

	// The fresh state still looks claimable but our write matched nothing.
	// Another transaction is in flight; report the order as held.
	return order.ErrAlreadyClaimed
}
