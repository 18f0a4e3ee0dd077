package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComputePayoutCommandHandler_Handle_CreatesEarning(t *testing.T) {
	ctx := t.Context()
	riderID := kernel.NewUUID()
	aggregate := fixtureOrder(t, order.Delivered, &riderID)
	cmd, err := commands.NewComputePayoutCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	earningRepo := new(MockEarningRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("EarningRepository").Return(earningRepo).Once()
	earningRepo.On("Add", mock.Anything, mock.AnythingOfType("*earning.Earning")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishEarningCreated", mock.Anything, mock.Anything).Return(nil).Once()

	h := newPayoutHandler(t, factory, publisher)
	record, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	// fee 3.00 plus tip 2.00
	assert.Equal(t, int64(500), record.Amount().Cents())
	assert.Equal(t, "delivery_fee_plus_tip", record.Basis())
	assert.True(t, record.RiderID().IsEqual(riderID))
	earningRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

// A duplicate insert means the payout was already computed; the existing
// record comes back and no second earning or event is produced. The failed
// insert leaves the first transaction unusable, so the fallback read must
// happen only after rollback, through a fresh unit of work.
func TestComputePayoutCommandHandler_Handle_AlreadyComputed(t *testing.T) {
	ctx := t.Context()
	riderID := kernel.NewUUID()
	aggregate := fixtureOrder(t, order.Delivered, &riderID)
	cmd, err := commands.NewComputePayoutCommand(aggregate.ID())
	require.NoError(t, err)

	existing, err := earning.NewEarning(
		kernel.NewUUID(), aggregate.ID(), riderID,
		mustMoney(t, 500), "delivery_fee_plus_tip", time.Now().UTC())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	earningRepo := new(MockEarningRepository)
	freshEarningRepo := new(MockEarningRepository)
	uow := new(MockUoW)
	freshUow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("EarningRepository").Return(earningRepo).Once()
	freshUow.On("EarningRepository").Return(freshEarningRepo).Once()

	mock.InOrder(
		earningRepo.On("Add", mock.Anything, mock.AnythingOfType("*earning.Earning")).
			Return(earning.ErrPayoutAlreadyComputed).Once(),
		uow.On("Rollback", ctx).Return(nil),
		freshEarningRepo.On("GetByOrderID", mock.Anything, aggregate.ID()).Return(existing, nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	factory.On("Create").Return(freshUow).Once()

	publisher := new(MockEventPublisher)

	h := newPayoutHandler(t, factory, publisher)
	record, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Same(t, existing, record)
	publisher.AssertNotCalled(t, "PublishEarningCreated", mock.Anything, mock.Anything)
	earningRepo.AssertNotCalled(t, "GetByOrderID", mock.Anything, mock.Anything)
	earningRepo.AssertExpectations(t)
	freshEarningRepo.AssertExpectations(t)
}

func TestComputePayoutCommandHandler_Handle_OrderNotDelivered(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Preparing, nil)
	cmd, err := commands.NewComputePayoutCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newPayoutHandler(t, factory, new(MockEventPublisher))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, services.ErrOrderNotDelivered)
}
