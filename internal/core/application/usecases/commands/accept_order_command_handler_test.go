package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAcceptOrderCommandHandler_Handle_PickupIssuesCode(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	o := pendingOrder(t, p, false)
	cmd, _ := commands.NewAcceptOrderCommand(o.ID(), p.distributor)

	var issued *validationcode.Code
	uow, r := newMockUoW()
	generator := new(MockCodeGenerator)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		r.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		r.codes.On("GetLatest", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("code", o.ID())).Once(),
		generator.On("Generate").Return("731904", nil).Once(),
		r.codes.On("Add", ctx, mock.AnythingOfType("*validationcode.Code")).
			Run(func(args mock.Arguments) { issued = args.Get(1).(*validationcode.Code) }).
			Return(nil).Once(),
		r.orders.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err := commands.NewAcceptOrderCommandHandler(factory, generator, testPolicy()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, o.Status())
	require.NotNil(t, issued)
	assert.Equal(t, validationcode.Pickup, issued.Role())
	require.Len(t, o.DomainEvents(), 1)
	assert.Equal(t, events.OrderConfirmed, o.DomainEvents()[0].Type)
	uow.AssertExpectations(t)
	r.assertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_DeliveryWaitsForDriver(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	o := pendingOrder(t, p, true)
	cmd, _ := commands.NewAcceptOrderCommand(o.ID(), p.distributor)

	uow, r := newMockUoW()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		r.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		r.orders.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err := commands.NewAcceptOrderCommandHandler(factory, new(MockCodeGenerator), testPolicy()).Handle(ctx, cmd)

	require.NoError(t, err)
	r.codes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAcceptOrderCommandHandler_Handle_OnlyDistributor(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	o := pendingOrder(t, p, true)
	cmd, _ := commands.NewAcceptOrderCommand(o.ID(), p.client)

	uow, r := newMockUoW()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		r.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	err := commands.NewAcceptOrderCommandHandler(factory, nil, testPolicy()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrActorNotAllowed)
	assert.Equal(t, order.Pending, o.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAcceptOrderCommandHandler_Handle_LostRaceRereadsOrder(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	stale := pendingOrder(t, p, true)
	cmd, _ := commands.NewAcceptOrderCommand(stale.ID(), p.distributor)

	// The winner's write is what the second read returns.
	fresh, err := order.RestoreOrder(stale.Snapshot())
	require.NoError(t, err)
	require.NoError(t, fresh.Accept(p.distributor, fixedNow))

	first, firstRepos := newMockUoW()
	mock.InOrder(
		first.On("Begin", ctx).Return(nil).Once(),
		firstRepos.orders.On("Get", ctx, stale.ID()).Return(stale, nil).Once(),
		firstRepos.orders.On("Update", ctx, stale).
			Return(errs.NewConcurrencyConflictError("order", stale.ID())).Once(),
		first.On("Rollback", ctx).Return(nil).Once(),
	)

	second, secondRepos := newMockUoW()
	mock.InOrder(
		second.On("Begin", ctx).Return(nil).Once(),
		secondRepos.orders.On("Get", ctx, stale.ID()).Return(fresh, nil).Once(),
		second.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(first).Once()
	factory.On("Create").Return(second).Once()

	err = commands.NewAcceptOrderCommandHandler(factory, nil, testPolicy()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	factory.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestAcceptOrderCommandHandler_Handle_RetriesAreBounded(t *testing.T) {
	ctx := t.Context()
	p := newParties()
	policy := testPolicy()
	policy.MaxConflictRetries = 2

	factory := new(MockUoWFactory)
	var orderID kernel.UUID
	for range policy.MaxConflictRetries + 1 {
		o := pendingOrder(t, p, true)
		orderID = o.ID()
		uow, r := newMockUoW()
		uow.On("Begin", ctx).Return(nil).Once()
		r.orders.On("Get", ctx, mock.Anything).Return(o, nil).Once()
		r.orders.On("Update", ctx, o).Return(errs.NewConcurrencyConflictError("order", o.ID())).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory.On("Create").Return(uow).Once()
	}
	cmd, _ := commands.NewAcceptOrderCommand(orderID, p.distributor)

	err := commands.NewAcceptOrderCommandHandler(factory, nil, policy).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	factory.AssertExpectations(t)
}
