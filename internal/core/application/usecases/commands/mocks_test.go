package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/model/wallet"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByDistributor(ctx context.Context, id kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAvailable(ctx context.Context, zone string) ([]*driver.Driver, error) {
	args := m.Called(ctx, zone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockCodeRepository struct{ mock.Mock }

func (m *MockCodeRepository) Add(ctx context.Context, c *validationcode.Code) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCodeRepository) Update(ctx context.Context, c *validationcode.Code) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCodeRepository) GetLatest(ctx context.Context, orderID kernel.UUID) (*validationcode.Code, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validationcode.Code), args.Error(1)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) AddAccount(ctx context.Context, a *wallet.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockWalletRepository) UpdateAccount(ctx context.Context, a *wallet.Account) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockWalletRepository) GetAccount(ctx context.Context, ownerID kernel.UUID) (*wallet.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Account), args.Error(1)
}

func (m *MockWalletRepository) AddTransaction(ctx context.Context, tx *wallet.Transaction) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockWalletRepository) HasSettlement(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWalletRepository) GetTransactions(
	ctx context.Context, ownerID kernel.UUID, limit int,
) ([]*wallet.Transaction, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Transaction), args.Error(1)
}

func (m *MockWalletRepository) GetTransactionsByOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]*wallet.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wallet.Transaction), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, evs ...events.Event) error {
	return m.Called(ctx, evs).Error(0)
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]events.Event, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]events.Event), args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	return m.Called(ctx, ids, at).Error(0)
}

func (m *MockOutboxRepository) DeletePublishedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}

func (m *MockUoW) ValidationCodeRepository() ports.ValidationCodeRepository {
	return m.Called().Get(0).(ports.ValidationCodeRepository)
}

func (m *MockUoW) WalletRepository() ports.WalletRepository {
	return m.Called().Get(0).(ports.WalletRepository)
}

func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	return m.Called().Get(0).(commands.DriverUoW)
}

type MockWalletUoWFactory struct{ mock.Mock }

func (m *MockWalletUoWFactory) Create() commands.WalletUoW {
	return m.Called().Get(0).(commands.WalletUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	return m.Called().Get(0).(commands.OutboxUoW)
}

type MockCodeGenerator struct{ mock.Mock }

func (m *MockCodeGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type MockAttemptLimiter struct{ mock.Mock }

func (m *MockAttemptLimiter) Allow(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	return m.Called(ctx, evs).Error(0)
}

// repos wires a MockUoW to its repositories. Accessors may be called any number of times.
type repos struct {
	orders  *MockOrderRepository
	drivers *MockDriverRepository
	codes   *MockCodeRepository
	wallets *MockWalletRepository
	outbox  *MockOutboxRepository
}

func newMockUoW() (*MockUoW, repos) {
	r := repos{
		orders:  new(MockOrderRepository),
		drivers: new(MockDriverRepository),
		codes:   new(MockCodeRepository),
		wallets: new(MockWalletRepository),
		outbox:  new(MockOutboxRepository),
	}
	uow := new(MockUoW)
	uow.On("OrderRepository").Return(r.orders).Maybe()
	uow.On("DriverRepository").Return(r.drivers).Maybe()
	uow.On("ValidationCodeRepository").Return(r.codes).Maybe()
	uow.On("WalletRepository").Return(r.wallets).Maybe()
	uow.On("OutboxRepository").Return(r.outbox).Maybe()
	return uow, r
}

func (r repos) assertExpectations(t mock.TestingT) {
	r.orders.AssertExpectations(t)
	r.drivers.AssertExpectations(t)
	r.codes.AssertExpectations(t)
	r.wallets.AssertExpectations(t)
	r.outbox.AssertExpectations(t)
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testPolicy() commands.Policy {
	p := commands.DefaultPolicy()
	p.Now = func() time.Time { return fixedNow }
	return p
}
