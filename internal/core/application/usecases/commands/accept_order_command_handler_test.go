package commands_test

import (
	"errors"
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Pending, nil)
	cmd, err := commands.NewAcceptOrderCommand(aggregate.ID(), kernel.NewUUID(), order.RoleRestaurant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		repo.On("UpdateFromStatus", mock.Anything, aggregate, order.Pending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderTransitioned", mock.Anything, mock.Anything).Return(nil).Once()

	h := commands.NewAcceptOrderCommandHandler(factory, publisher, testLogger())
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, status)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_WrongRole(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Pending, nil)
	cmd, err := commands.NewAcceptOrderCommand(aggregate.ID(), kernel.NewUUID(), order.RoleCustomer)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAcceptOrderCommandHandler(factory, new(MockEventPublisher), testLogger())
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrUnauthorized)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewAcceptOrderCommandHandler(
		new(MockOrderUoWFactory), new(MockEventPublisher), testLogger())
	_, err := h.Handle(t.Context(), commands.AcceptOrderCommand{})
	require.ErrorIs(t, err, commands.ErrAcceptOrderCommandIsNotConstructed)
}

func TestAcceptOrderCommandHandler_Handle_PublishFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Pending, nil)
	cmd, err := commands.NewAcceptOrderCommand(aggregate.ID(), kernel.NewUUID(), order.RoleRestaurant)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	repo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("UpdateFromStatus", mock.Anything, aggregate, order.Pending).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderTransitioned", mock.Anything, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	h := commands.NewAcceptOrderCommandHandler(factory, publisher, testLogger())
	status, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, status)
	publisher.AssertExpectations(t)
}
