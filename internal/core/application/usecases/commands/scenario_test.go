package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type sequenceGenerator struct {
	n atomic.Int64
}

func (g *sequenceGenerator) Generate() (string, error) {
	return fmt.Sprintf("%06d", 400000+g.n.Add(1)), nil
}

// WorkflowSuite drives whole order lifecycles through the handlers against the
// in-memory unit of work.
type WorkflowSuite struct {
	suite.Suite

	factory *memory.UnitOfWorkFactory
	parties parties
	policy  commands.Policy

	uows       commands.UoWFactory
	orderUoWs  commands.OrderUoWFactory
	driverUoWs commands.DriverUoWFactory
	generator  *sequenceGenerator
}

type (
	uowFactoryFunc       func() commands.UoW
	orderUoWFactoryFunc  func() commands.OrderUoW
	driverUoWFactoryFunc func() commands.DriverUoW
)

func (f uowFactoryFunc) Create() commands.UoW             { return f() }
func (f orderUoWFactoryFunc) Create() commands.OrderUoW   { return f() }
func (f driverUoWFactoryFunc) Create() commands.DriverUoW { return f() }

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.factory = memory.NewUnitOfWorkFactory(memory.NewStore())
	s.parties = newParties()
	s.policy = testPolicy()
	s.generator = &sequenceGenerator{}

	s.uows = uowFactoryFunc(func() commands.UoW { return s.factory.Create() })
	s.orderUoWs = orderUoWFactoryFunc(func() commands.OrderUoW { return s.factory.Create() })
	s.driverUoWs = driverUoWFactoryFunc(func() commands.DriverUoW { return s.factory.Create() })
}

func (s *WorkflowSuite) createOrder(isDelivery bool, items []order.LineItem) kernel.UUID {
	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, s.parties.client, s.parties.distributor, isDelivery, items)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCreateOrderCommandHandler(s.orderUoWs, s.policy).Handle(s.T().Context(), cmd))
	return orderID
}

func (s *WorkflowSuite) accept(orderID kernel.UUID) error {
	cmd, err := commands.NewAcceptOrderCommand(orderID, s.parties.distributor)
	s.Require().NoError(err)
	return commands.NewAcceptOrderCommandHandler(s.uows, s.generator, s.policy).Handle(s.T().Context(), cmd)
}

func (s *WorkflowSuite) completePickup(orderID kernel.UUID, code string) error {
	cmd, err := commands.NewCompletePickupCommand(orderID, s.parties.distributor, code)
	s.Require().NoError(err)
	return commands.NewCompletePickupCommandHandler(s.uows, nil, s.policy).Handle(s.T().Context(), cmd)
}

func (s *WorkflowSuite) order(orderID kernel.UUID) *order.Order {
	o, err := s.factory.Create().OrderRepository().Get(s.T().Context(), orderID)
	s.Require().NoError(err)
	return o
}

func (s *WorkflowSuite) latestCode(orderID kernel.UUID) *validationcode.Code {
	c, err := s.factory.Create().ValidationCodeRepository().GetLatest(s.T().Context(), orderID)
	s.Require().NoError(err)
	return c
}

func (s *WorkflowSuite) balance(ownerID kernel.UUID) kernel.Money {
	account, err := s.factory.Create().WalletRepository().GetAccount(s.T().Context(), ownerID)
	if err != nil {
		s.Require().ErrorIs(err, errs.ErrObjectNotFound)
		return 0
	}
	return account.Balance()
}

func (s *WorkflowSuite) outboxTypes() []events.Type {
	evs, err := s.factory.Create().OutboxRepository().GetUnpublished(s.T().Context(), 0)
	s.Require().NoError(err)
	types := make([]events.Type, 0, len(evs))
	for _, e := range evs {
		types = append(types, e.Type)
	}
	return types
}

func (s *WorkflowSuite) Test_PickupOrderIsSettledWithItsCode() {
	orderID := s.createOrder(false, lineItems(s.T()))
	s.Require().NoError(s.accept(orderID))

	code := s.latestCode(orderID)
	s.Equal(validationcode.Pickup, code.Role())
	s.Equal(validationcode.Active, code.Status())

	s.Require().NoError(s.completePickup(orderID, code.Value()))

	o := s.order(orderID)
	s.Equal(order.Delivered, o.Status())
	s.Equal(kernel.Money(12500), s.balance(s.parties.distributor))
	s.Equal(validationcode.Consumed, s.latestCode(orderID).Status())
	s.Equal([]events.Type{events.OrderConfirmed, events.OrderDelivered}, s.outboxTypes())
}

func (s *WorkflowSuite) Test_DeliveryOrderPaysDistributorAndDriver() {
	t := s.T()
	rice, err := order.NewLineItem("rice-25kg", 3, 6000)
	s.Require().NoError(err)
	orderID := s.createOrder(true, []order.LineItem{rice})
	s.Equal(kernel.Money(20000), s.order(orderID).Total())

	register, err := commands.NewRegisterDriverCommand(s.parties.driver, "Awa Diop", "plateau")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterDriverCommandHandler(s.driverUoWs).Handle(t.Context(), register))

	s.Require().NoError(s.accept(orderID))
	_, err = s.factory.Create().ValidationCodeRepository().GetLatest(t.Context(), orderID)
	s.Require().ErrorIs(err, errs.ErrObjectNotFound, "delivery codes wait for the driver")

	assign, err := commands.NewAssignDriverCommand(orderID, s.parties.driver, s.parties.distributor)
	s.Require().NoError(err)
	s.Require().NoError(commands.NewAssignDriverCommandHandler(s.uows, s.generator, s.policy).Handle(t.Context(), assign))

	s.Equal(order.InDelivery, s.order(orderID).Status())
	code := s.latestCode(orderID)
	s.Equal(validationcode.Delivery, code.Role())

	d, err := s.factory.Create().DriverRepository().Get(t.Context(), s.parties.driver)
	s.Require().NoError(err)
	s.Equal(driver.Occupied, d.Status())

	complete, err := commands.NewCompleteDeliveryCommand(orderID, s.parties.driver, code.Value())
	s.Require().NoError(err)
	s.Require().NoError(commands.NewCompleteDeliveryCommandHandler(s.uows, nil, s.policy).Handle(t.Context(), complete))

	s.Equal(order.Delivered, s.order(orderID).Status())
	s.Equal(kernel.Money(18000), s.balance(s.parties.distributor))
	s.Equal(kernel.Money(2000), s.balance(s.parties.driver))

	d, err = s.factory.Create().DriverRepository().Get(t.Context(), s.parties.driver)
	s.Require().NoError(err)
	s.True(d.IsAvailable())

	lines, err := s.factory.Create().WalletRepository().GetTransactionsByOrder(t.Context(), orderID)
	s.Require().NoError(err)
	var settled kernel.Money
	for _, line := range lines {
		settled += line.Amount()
	}
	s.Equal(s.order(orderID).Total(), settled)
	s.Equal([]events.Type{events.OrderConfirmed, events.DriverAssigned, events.OrderDelivered}, s.outboxTypes())
}

func (s *WorkflowSuite) Test_WrongCodesLeaveTheOrderConfirmed() {
	orderID := s.createOrder(false, lineItems(s.T()))
	s.Require().NoError(s.accept(orderID))
	code := s.latestCode(orderID)

	wrong := "000000"
	s.Require().NotEqual(code.Value(), wrong)

	for range 2 {
		s.Require().ErrorIs(s.completePickup(orderID, wrong), errs.ErrCodeInvalid)
	}

	s.Equal(order.Confirmed, s.order(orderID).Status())
	s.Equal(kernel.Money(0), s.balance(s.parties.distributor))
	stored := s.latestCode(orderID)
	s.Equal(validationcode.Active, stored.Status())
	s.Equal(2, stored.FailedAttempts())

	s.Require().NoError(s.completePickup(orderID, code.Value()), "the right code still works")
	s.Equal(order.Delivered, s.order(orderID).Status())
}

func (s *WorkflowSuite) Test_ReplayedCompletionIsReported() {
	orderID := s.createOrder(false, lineItems(s.T()))
	s.Require().NoError(s.accept(orderID))
	code := s.latestCode(orderID)
	s.Require().NoError(s.completePickup(orderID, code.Value()))

	s.Require().ErrorIs(s.completePickup(orderID, code.Value()), errs.ErrAlreadyConsumed)
	s.Equal(kernel.Money(12500), s.balance(s.parties.distributor), "settled once")
}

func (s *WorkflowSuite) Test_ConcurrentAcceptConfirmsOnce() {
	orderID := s.createOrder(false, lineItems(s.T()))
	cmd, err := commands.NewAcceptOrderCommand(orderID, s.parties.distributor)
	s.Require().NoError(err)
	handler := commands.NewAcceptOrderCommandHandler(s.uows, s.generator, s.policy)

	const racers = 8
	results := s.race(racers, func(ctx context.Context) error { return handler.Handle(ctx, cmd) })

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.Require().ErrorIs(err, errs.ErrInvalidTransition)
	}

	s.Equal(1, succeeded)
	s.Equal([]events.Type{events.OrderConfirmed}, s.outboxTypes())
	s.Equal(1, s.order(orderID).Version())
}

func (s *WorkflowSuite) Test_ConcurrentCompletionConsumesOnce() {
	orderID := s.createOrder(false, lineItems(s.T()))
	s.Require().NoError(s.accept(orderID))

	cmd, err := commands.NewCompletePickupCommand(orderID, s.parties.distributor, s.latestCode(orderID).Value())
	s.Require().NoError(err)
	handler := commands.NewCompletePickupCommandHandler(s.uows, nil, s.policy)

	results := s.race(4, func(ctx context.Context) error { return handler.Handle(ctx, cmd) })

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.Require().ErrorIs(err, errs.ErrAlreadyConsumed)
	}

	s.Equal(1, succeeded)
	s.Equal(kernel.Money(12500), s.balance(s.parties.distributor))
	s.Equal([]events.Type{events.OrderConfirmed, events.OrderDelivered}, s.outboxTypes())
}

func (s *WorkflowSuite) Test_ConcurrentAssignmentOccupiesDriverOnce() {
	register, err := commands.NewRegisterDriverCommand(s.parties.driver, "Awa Diop", "plateau")
	s.Require().NoError(err)
	s.Require().NoError(commands.NewRegisterDriverCommandHandler(s.driverUoWs).Handle(s.T().Context(), register))

	orderIDs := []kernel.UUID{
		s.createOrder(true, lineItems(s.T())),
		s.createOrder(true, lineItems(s.T())),
	}
	assigns := make([]commands.AssignDriverCommand, 0, len(orderIDs))
	for _, orderID := range orderIDs {
		s.Require().NoError(s.accept(orderID))
		cmd, err := commands.NewAssignDriverCommand(orderID, s.parties.driver, s.parties.distributor)
		s.Require().NoError(err)
		assigns = append(assigns, cmd)
	}
	handler := commands.NewAssignDriverCommandHandler(s.uows, s.generator, s.policy)

	var next atomic.Int32
	results := s.race(len(assigns), func(ctx context.Context) error {
		return handler.Handle(ctx, assigns[next.Add(1)-1])
	})

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		s.Require().Truef(errors.Is(err, errs.ErrDriverUnavailable) || errors.Is(err, errs.ErrConcurrencyConflict),
			"unexpected error: %v", err)
	}
	s.Equal(1, succeeded)

	var inDelivery, confirmed int
	for _, orderID := range orderIDs {
		switch o := s.order(orderID); o.Status() {
		case order.InDelivery:
			inDelivery++
			s.Require().NotNil(o.DriverID())
			s.True(o.DriverID().IsEqual(s.parties.driver))
		case order.Confirmed:
			confirmed++
			s.Nil(o.DriverID())
		}
	}
	s.Equal(1, inDelivery)
	s.Equal(1, confirmed)

	d, err := s.factory.Create().DriverRepository().Get(s.T().Context(), s.parties.driver)
	s.Require().NoError(err)
	s.Equal(driver.Occupied, d.Status())
}

// race releases n goroutines at once and collects their results.
func (s *WorkflowSuite) race(n int, fn func(ctx context.Context) error) []error {
	ctx := s.T().Context()
	results := make([]error, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			results[i] = fn(ctx)
		}()
	}
	close(start)
	wg.Wait()
	return results
}
