package services_test

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/model/wallet"

	"github.com/stretchr/testify/mock"
)

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

type MockCodeGenerator struct{ mock.Mock }

func (m *MockCodeGenerator) Generate() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
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
