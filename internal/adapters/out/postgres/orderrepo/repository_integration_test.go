package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var createdAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the order repository against a
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.LineItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_line_items, orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_StoresOrderWithLineItems() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID(), true, createdAt)

	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(stored.IsEqual(o))
	suite.Equal(order.Pending, stored.Status())
	suite.Equal(kernel.Money(14500), stored.Total())
	suite.Equal(kernel.Money(2000), stored.DeliveryFee())
	suite.Require().Len(stored.LineItems(), 2)
	suite.Equal("rice-25kg", stored.LineItems()[0].ProductRef())
	suite.Equal("oil-5l", stored.LineItems()[1].ProductRef())
	suite.Equal(0, stored.Version())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateIsAConflict() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID(), false, createdAt)

	suite.tracker.On("TrackAggregate", o.ID(), o).Once()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	err := suite.repository.Add(ctx, o)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AdvancesVersion() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID(), true, createdAt)
	suite.tracker.On("TrackAggregate", o.ID(), o)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	driverID := kernel.NewUUID()
	suite.Require().NoError(o.Accept(o.DistributorID(), createdAt))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Require().NoError(o.AssignDriver(o.DistributorID(), driverID, createdAt))
	suite.Require().NoError(suite.repository.Update(ctx, o))
	suite.Equal(2, o.Version())

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.InDelivery, stored.Status())
	suite.Equal(driverID, *stored.DriverID())
	suite.NotNil(stored.ConfirmedAt())
	suite.Equal(2, stored.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleVersionIsAConflict() {
	ctx := suite.T().Context()
	o := suite.newOrder(kernel.NewUUID(), false, createdAt)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	stale, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(o.Accept(o.DistributorID(), createdAt))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	suite.Require().NoError(stale.Reject(stale.DistributorID(), createdAt))
	err = suite.repository.Update(ctx, stale)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
	suite.Equal(0, stale.Version(), "a lost race leaves the version alone")

	stored, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, stored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetActiveByDistributor_OldestFirst() {
	ctx := suite.T().Context()
	distributorID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	later := suite.newOrder(distributorID, false, createdAt.Add(time.Hour))
	earlier := suite.newOrder(distributorID, true, createdAt)
	rejected := suite.newOrder(distributorID, false, createdAt)
	suite.Require().NoError(rejected.Reject(distributorID, createdAt))
	foreign := suite.newOrder(kernel.NewUUID(), false, createdAt)

	for _, o := range []*order.Order{later, earlier, rejected, foreign} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	active, err := suite.repository.GetActiveByDistributor(ctx, distributorID)
	suite.Require().NoError(err)
	suite.Require().Len(active, 2)
	suite.Equal(earlier.ID(), active[0].ID())
	suite.Equal(later.ID(), active[1].ID())
	suite.Len(active[0].LineItems(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(
	distributorID kernel.UUID,
	isDelivery bool,
	at time.Time,
) *order.Order {
	rice, err := order.NewLineItem("rice-25kg", 2, 5000)
	suite.Require().NoError(err)
	oil, err := order.NewLineItem("oil-5l", 1, 2500)
	suite.Require().NoError(err)

	var fee kernel.Money
	if isDelivery {
		fee = 2000
	}

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), distributorID, isDelivery,
		[]order.LineItem{rice, oil}, fee, at)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
