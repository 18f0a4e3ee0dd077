package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*order.Order, error) {
	args := m.Called(ctx, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateFromStatus(ctx context.Context, o *order.Order, from order.Status) error {
	args := m.Called(ctx, o, from)
	return args.Error(0)
}

func (m *MockOrderRepository) Claim(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) ConfirmPayment(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) GetDeliveredWithoutEarning(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) Add(ctx context.Context, e *earning.Earning) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEarningRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*earning.Earning, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*earning.Earning), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoW struct{ MockOrderUoW }

func (m *MockUoW) EarningRepository() ports.EarningRepository {
	args := m.Called()
	return args.Get(0).(ports.EarningRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderTransitioned(ctx context.Context, event ports.OrderTransitionedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishPaymentConfirmed(ctx context.Context, event ports.PaymentConfirmedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishEarningCreated(ctx context.Context, event ports.EarningCreatedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustMoney(t *testing.T, cents int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromCents(cents)
	require.NoError(t, err)
	return m
}

func fixtureAddress(t *testing.T) order.Address {
	t.Helper()
	a, err := order.NewAddress("12 Baker Street", "Springfield", "62704")
	require.NoError(t, err)
	return a
}

func fixtureItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem("Margherita", mustMoney(t, 1000), 2)
	require.NoError(t, err)
	return []order.Item{item}
}

// fixtureOrder builds an order in the given status with delivery fee 3.00 and
// tip 2.00. Delivered and picked-up orders carry riderID as the assigned
// rider.
func fixtureOrder(t *testing.T, status order.Status, riderID *kernel.UUID) *order.Order {
	t.Helper()

	created := time.Now().UTC().Add(-time.Hour)

	var assignedAt, pickedUpAt, deliveredAt *time.Time
	if status == order.PickedUp || status == order.Delivered {
		ts := created.Add(10 * time.Minute)
		assignedAt, pickedUpAt = &ts, &ts
	}
	if status == order.Delivered {
		ts := created.Add(30 * time.Minute)
		deliveredAt = &ts
	}

	o, err := order.RestoreOrder(
		kernel.NewUUID(),
		"ORD-0001",
		kernel.NewUUID(),
		kernel.NewUUID(),
		riderID,
		status,
		"pay_test_ref",
		true,
		"",
		mustMoney(t, 2000),
		mustMoney(t, 300),
		mustMoney(t, 200),
		mustMoney(t, 2500),
		fixtureAddress(t),
		fixtureItems(t),
		created,
		assignedAt,
		pickedUpAt,
		deliveredAt,
	)
	require.NoError(t, err)
	return o
}
