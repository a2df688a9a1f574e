package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	testCases := []struct {
		name        string
		isDelivery  bool
		expectedFee kernel.Money
	}{
		{name: "pickup order has no fee", isDelivery: false, expectedFee: 0},
		{name: "delivery order pays the policy fee", isDelivery: true, expectedFee: 2000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			p := newParties()
			cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), p.client, p.distributor, tc.isDelivery, lineItems(t))

			var saved *order.Order
			uow, r := newMockUoW()
			mock.InOrder(
				uow.On("Begin", ctx).Return(nil).Once(),
				r.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).
					Run(func(args mock.Arguments) { saved = args.Get(1).(*order.Order) }).
					Return(nil).Once(),
				uow.On("Commit", ctx).Return(nil).Once(),
				uow.On("Rollback", ctx).Return(nil).Once(),
			)

			factory := new(MockOrderUoWFactory)
			factory.On("Create").Return(uow).Once()

			h := commands.NewCreateOrderCommandHandler(factory, testPolicy())
			err := h.Handle(ctx, cmd)

			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.Equal(t, order.Pending, saved.Status())
			assert.Equal(t, tc.expectedFee, saved.DeliveryFee())
			assert.Equal(t, kernel.Money(12500)+tc.expectedFee, saved.Total())
			assert.Equal(t, fixedNow, saved.CreatedAt())
			uow.AssertExpectations(t)
			factory.AssertExpectations(t)
		})
	}
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(factory, testPolicy())

	err := h.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), p.client, p.distributor, false, lineItems(t))

	uow, _ := newMockUoW()
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, testPolicy())
	err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	cmd, _ := commands.NewCreateOrderCommand(kernel.NewUUID(), p.client, p.distributor, false, lineItems(t))

	uow, r := newMockUoW()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		r.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, testPolicy())
	err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	uow.AssertExpectations(t)
}
