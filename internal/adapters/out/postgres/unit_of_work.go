// Package postgres provides the GORM-based implementation of the Unit of Work pattern.
// The unit of work maintains the aggregates affected by a business transaction and
// writes their domain events to the outbox in the same database transaction.
//
// Key Features:
//   - Transaction management across the order, code, driver, wallet and outbox repositories
//   - Aggregate tracking for the transactional outbox
//   - Optimistic versions on every aggregate; lost races surface as errs.ConcurrencyConflictError
//   - Repository factory pattern for consistent database connections
//
// Usage Patterns:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().Get(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	if err = o.Accept(actorID, now); err != nil {
//	    return err
//	}
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx) // OrderConfirmed is stored with the order row
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Rows are written in a fixed order (code, order, driver, accounts, outbox)
//     so that concurrent workflows do not deadlock
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/coderepo"
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/pgerrs"
	"fulfillment/internal/adapters/out/postgres/walletrepo"
	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	DomainEvents() []events.Event
	ClearDomainEvents()
}

// Migrate creates or updates every table the adapter uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&coderepo.CodeDTO{},
		&driverrepo.DriverDTO{},
		&walletrepo.AccountDTO{},
		&walletrepo.TransactionDTO{},
		&outboxrepo.MessageDTO{},
	)
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance with its own transaction state and
// aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction and the transactional outbox.
//
// Repositories report every aggregate they write through TrackAggregate. Commit
// inserts the pending domain events of those aggregates into the outbox inside
// the transaction, then commits. Events are cleared from the aggregates only
// once the commit succeeded.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit writes the outbox and finalizes the transaction.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active, and
// errs.ConcurrencyConflictError when PostgreSQL reports a serialization failure,
// a deadlock or a unique violation.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	tx := uow.tx
	sources := uow.eventSources()

	if err := outboxrepo.NewGormOutboxRepository(tx).Add(ctx, pendingEvents(sources)...); err != nil {
		_ = tx.Rollback().Error
		uow.tx = nil
		return pgerrs.Translate(err, "outbox", "commit")
	}

	err := tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return pgerrs.Translate(err, "transaction", "commit")
	}

	for _, source := range sources {
		source.ClearDomainEvents()
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository provides access to order persistence within the unit of work.
// Operations run in the current transaction if one is active, otherwise on the
// main connection.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn())
}

func (uow *GormUnitOfWork) ValidationCodeRepository() ports.ValidationCodeRepository {
	return coderepo.NewGormCodeRepository(uow.conn())
}

func (uow *GormUnitOfWork) WalletRepository() ports.WalletRepository {
	return walletrepo.NewGormWalletRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Outside of a transaction nothing is tracked and events stay on the aggregate.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	if uow.tx == nil {
		return
	}

	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// eventSources returns the tracked aggregates that record events, each once.
func (uow *GormUnitOfWork) eventSources() []eventSource {
	sources := make([]eventSource, 0, len(uow.trackedAggregates))
	seen := make(map[eventSource]struct{}, len(uow.trackedAggregates))
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}
	return sources
}

func pendingEvents(sources []eventSource) []events.Event {
	var evs []events.Event
	for _, source := range sources {
		evs = append(evs, source.DomainEvents()...)
	}
	return evs
}
