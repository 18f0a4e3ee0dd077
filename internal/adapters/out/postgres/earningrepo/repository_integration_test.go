package earningrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/earningrepo"
	"orderflow/internal/core/domain/model/earning"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// EarningRepositoryIntegrationTestSuite verifies that the unique index on
// the order reference makes earning persistence exactly-once.
type EarningRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *earningrepo.GormEarningRepository
	tracker    *MockAggregateTracker
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError turns the unique violation into gorm.ErrDuplicatedKey,
	// which the repository maps to the domain error.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&earningrepo.EarningDTO{}))
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE earnings").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = earningrepo.NewGormEarningRepository(suite.db, suite.tracker)
}

func (suite *EarningRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAddAndGetByOrderID_RoundTrip() {
	ctx := context.Background()

	record := suite.createTestEarning(kernel.NewUUID())
	suite.tracker.On("TrackAggregate", record.ID(), record).Once()

	suite.Require().NoError(suite.repository.Add(ctx, record))

	retrieved, err := suite.repository.GetByOrderID(ctx, record.OrderID())
	suite.Require().NoError(err)
	suite.Equal(record.ID(), retrieved.ID())
	suite.Equal(record.OrderID(), retrieved.OrderID())
	suite.Equal(record.RiderID(), retrieved.RiderID())
	suite.Equal(int64(500), retrieved.Amount().Cents())
	suite.Equal("delivery_fee_plus_tip", retrieved.Basis())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAdd_SecondEarningForSameOrder_Rejected() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	first := suite.createTestEarning(orderID)
	second := suite.createTestEarning(orderID)

	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	err := suite.repository.Add(ctx, second)
	suite.Require().ErrorIs(err, earning.ErrPayoutAlreadyComputed)

	// The first record is untouched.
	retrieved, err := suite.repository.GetByOrderID(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(first.ID(), retrieved.ID())

	var count int64
	suite.Require().NoError(suite.db.Model(&earningrepo.EarningDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)

	suite.tracker.AssertExpectations(suite.T())
}

// A rejected duplicate leaves the enclosing transaction aborted: postgres
// refuses every further statement on it until rollback. Callers that want
// the existing record after a duplicate must read outside that transaction.
func (suite *EarningRepositoryIntegrationTestSuite) TestAdd_DuplicateInsideTransaction_AbortsTransaction() {
	ctx := context.Background()
	orderID := kernel.NewUUID()

	first := suite.createTestEarning(orderID)
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	txRepo := earningrepo.NewGormEarningRepository(tx, suite.tracker)

	second := suite.createTestEarning(orderID)
	suite.Require().ErrorIs(txRepo.Add(ctx, second), earning.ErrPayoutAlreadyComputed)

	// The same transaction can no longer serve the fallback read.
	retrieved, err := txRepo.GetByOrderID(ctx, orderID)
	suite.Nil(retrieved)
	suite.Require().Error(err)
	var notFoundErr *errs.ObjectNotFoundError
	suite.False(errors.As(err, &notFoundErr))

	suite.Require().NoError(tx.Rollback().Error)

	// A connection outside the dead transaction sees the record.
	retrieved, err = suite.repository.GetByOrderID(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(first.ID(), retrieved.ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EarningRepositoryIntegrationTestSuite) TestGetByOrderID_NoEarning_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.GetByOrderID(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

// createTestEarning builds a 5.00 earning for the given order.
func (suite *EarningRepositoryIntegrationTestSuite) createTestEarning(orderID kernel.UUID) *earning.Earning {
	amount, err := kernel.NewMoneyFromCents(500)
	suite.Require().NoError(err)

	record, err := earning.NewEarning(
		kernel.NewUUID(),
		orderID,
		kernel.NewUUID(),
		amount,
		"delivery_fee_plus_tip",
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return record
}

func TestEarningRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EarningRepositoryIntegrationTestSuite))
}
