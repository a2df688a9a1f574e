package services_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var codeNow = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func activeCode(t *testing.T, orderID kernel.UUID, value string, role validationcode.Role) *validationcode.Code {
	t.Helper()
	c, err := validationcode.NewCode(kernel.NewUUID(), orderID, value, role, codeNow)
	require.NoError(t, err)
	return c
}

func TestValidationCodeService_Issue(t *testing.T) {
	t.Run("first code for the order", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()

		repo := new(MockCodeRepository)
		generator := new(MockCodeGenerator)
		mock.InOrder(
			repo.On("GetLatest", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("code", orderID)).Once(),
			generator.On("Generate").Return("482913", nil).Once(),
			repo.On("Add", ctx, mock.AnythingOfType("*validationcode.Code")).Return(nil).Once(),
		)

		code, err := services.NewValidationCodeService(repo, generator, 5).Issue(ctx, orderID, validationcode.Pickup, codeNow)

		require.NoError(t, err)
		assert.Equal(t, "482913", code.Value())
		assert.Equal(t, validationcode.Active, code.Status())
		assert.True(t, code.OrderID().IsEqual(orderID))
		repo.AssertExpectations(t)
		generator.AssertExpectations(t)
	})

	t.Run("reissue revokes the live code and never repeats its value", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()
		previous := activeCode(t, orderID, "111111", validationcode.Delivery)

		repo := new(MockCodeRepository)
		generator := new(MockCodeGenerator)
		mock.InOrder(
			repo.On("GetLatest", ctx, orderID).Return(previous, nil).Once(),
			repo.On("Update", ctx, previous).Return(nil).Once(),
			generator.On("Generate").Return("111111", nil).Once(),
			generator.On("Generate").Return("222222", nil).Once(),
			repo.On("Add", ctx, mock.AnythingOfType("*validationcode.Code")).Return(nil).Once(),
		)

		code, err := services.NewValidationCodeService(repo, generator, 5).Issue(ctx, orderID, validationcode.Delivery, codeNow)

		require.NoError(t, err)
		assert.Equal(t, validationcode.Revoked, previous.Status())
		assert.Equal(t, "222222", code.Value())
		repo.AssertExpectations(t)
	})

	t.Run("generator failure is returned", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()

		repo := new(MockCodeRepository)
		generator := new(MockCodeGenerator)
		repo.On("GetLatest", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("code", orderID)).Once()
		generator.On("Generate").Return("", errors.New("entropy exhausted")).Once()

		_, err := services.NewValidationCodeService(repo, generator, 5).Issue(ctx, orderID, validationcode.Pickup, codeNow)

		require.EqualError(t, err, "entropy exhausted")
		repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}

func TestValidationCodeService_Verify(t *testing.T) {
	t.Run("correct value consumes the code", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()
		code := activeCode(t, orderID, "482913", validationcode.Pickup)

		repo := new(MockCodeRepository)
		repo.On("GetLatest", ctx, orderID).Return(code, nil).Once()
		repo.On("Update", ctx, code).Return(nil).Once()

		err := services.NewValidationCodeService(repo, nil, 5).Verify(ctx, orderID, "482913", validationcode.Pickup, codeNow)

		require.NoError(t, err)
		assert.Equal(t, validationcode.Consumed, code.Status())
		repo.AssertExpectations(t)
	})

	t.Run("wrong value writes the failed attempt", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()
		code := activeCode(t, orderID, "482913", validationcode.Pickup)

		repo := new(MockCodeRepository)
		repo.On("GetLatest", ctx, orderID).Return(code, nil).Once()
		repo.On("Update", ctx, code).Return(nil).Once()

		err := services.NewValidationCodeService(repo, nil, 5).Verify(ctx, orderID, "000000", validationcode.Pickup, codeNow)

		require.ErrorIs(t, err, errs.ErrCodeInvalid)
		assert.Equal(t, 1, code.FailedAttempts())
		repo.AssertExpectations(t)
	})

	t.Run("lost compare-and-swap surfaces the conflict", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()
		code := activeCode(t, orderID, "482913", validationcode.Pickup)
		conflict := errs.NewConcurrencyConflictError("validation code", code.ID())

		repo := new(MockCodeRepository)
		repo.On("GetLatest", ctx, orderID).Return(code, nil).Once()
		repo.On("Update", ctx, code).Return(conflict).Once()

		err := services.NewValidationCodeService(repo, nil, 5).Verify(ctx, orderID, "482913", validationcode.Pickup, codeNow)

		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	})

	t.Run("role mismatch writes nothing", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()
		code := activeCode(t, orderID, "482913", validationcode.Pickup)

		repo := new(MockCodeRepository)
		repo.On("GetLatest", ctx, orderID).Return(code, nil).Once()

		err := services.NewValidationCodeService(repo, nil, 5).Verify(ctx, orderID, "482913", validationcode.Delivery, codeNow)

		require.ErrorIs(t, err, errs.ErrCodeInvalid)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("no code issued", func(t *testing.T) {
		ctx := t.Context()
		orderID := kernel.NewUUID()

		repo := new(MockCodeRepository)
		repo.On("GetLatest", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("code", orderID)).Once()

		err := services.NewValidationCodeService(repo, nil, 5).Verify(ctx, orderID, "482913", validationcode.Pickup, codeNow)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValidationCodeService_Active(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	code := activeCode(t, orderID, "482913", validationcode.Pickup)
	require.NoError(t, code.Revoke())

	repo := new(MockCodeRepository)
	repo.On("GetLatest", ctx, orderID).Return(code, nil).Once()

	_, err := services.NewValidationCodeService(repo, nil, 5).Active(ctx, orderID)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCodeRoleFor(t *testing.T) {
	item, _ := order.NewLineItem("water", 1, 500)
	pickup, _ := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), false, []order.LineItem{item}, 0, codeNow)
	delivery, _ := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), true, []order.LineItem{item}, 100, codeNow)

	assert.Equal(t, validationcode.Pickup, services.CodeRoleFor(pickup))
	assert.Equal(t, validationcode.Delivery, services.CodeRoleFor(delivery))
}
