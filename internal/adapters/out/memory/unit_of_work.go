package memory

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/model/wallet"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrNoTransaction is returned by Commit and Rollback outside of Begin.
var ErrNoTransaction = errors.New("no transaction in progress")

// eventSource is an aggregate that records domain events.
type eventSource interface {
	DomainEvents() []events.Event
	ClearDomainEvents()
}

// UnitOfWorkFactory creates units of work over one shared Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	u := &UnitOfWork{store: f.store}
	u.reset()
	return u
}

// UnitOfWork stages writes and applies them atomically on Commit. Outside of
// Begin every write is committed on its own.
type UnitOfWork struct {
	store *Store
	inTx  bool

	orders       changes[order.Snapshot]
	codes        changes[validationcode.Snapshot]
	drivers      changes[driverRow]
	accounts     changes[accountRow]
	transactions []wallet.TransactionSnapshot
	outbox       []events.Event
	published    map[kernel.UUID]time.Time
	purgeBefore  *time.Time

	tracked []eventSource
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.inTx {
		return nil
	}
	u.reset()
	u.inTx = true
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.inTx {
		return ErrNoTransaction
	}
	defer func() {
		u.inTx = false
		u.reset()
	}()
	return u.flush()
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.inTx {
		return ErrNoTransaction
	}
	u.inTx = false
	u.reset()
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) DriverRepository() ports.DriverRepository {
	return &driverRepository{uow: u}
}

func (u *UnitOfWork) ValidationCodeRepository() ports.ValidationCodeRepository {
	return &codeRepository{uow: u}
}

func (u *UnitOfWork) WalletRepository() ports.WalletRepository {
	return &walletRepository{uow: u}
}

func (u *UnitOfWork) OutboxRepository() ports.OutboxRepository {
	return &outboxRepository{uow: u}
}

// track registers an aggregate whose events Commit drains. Outside of a
// transaction events stay on the aggregate.
func (u *UnitOfWork) track(aggregate eventSource) {
	if !u.inTx {
		return
	}
	for _, t := range u.tracked {
		if t == aggregate {
			return
		}
	}
	u.tracked = append(u.tracked, aggregate)
}

// written finishes a repository write: outside of a transaction it is committed at once.
func (u *UnitOfWork) written() error {
	if u.inTx {
		return nil
	}
	defer u.reset()
	return u.flush()
}

func (u *UnitOfWork) reset() {
	u.orders = make(changes[order.Snapshot])
	u.codes = make(changes[validationcode.Snapshot])
	u.drivers = make(changes[driverRow])
	u.accounts = make(changes[accountRow])
	u.transactions = nil
	u.outbox = nil
	u.published = make(map[kernel.UUID]time.Time)
	u.purgeBefore = nil
	u.tracked = nil
}

// flush validates every staged write against the committed state and applies
// all of them, or none.
func (u *UnitOfWork) flush() error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, conflict := u.codes.conflicts(s.codes); conflict {
		return errs.NewConcurrencyConflictError("validation code", id)
	}
	if id, conflict := u.orders.conflicts(s.orders); conflict {
		return errs.NewConcurrencyConflictError("order", id)
	}
	if id, conflict := u.drivers.conflicts(s.drivers); conflict {
		return errs.NewConcurrencyConflictError("driver", id)
	}
	if id, conflict := u.accounts.conflicts(s.accounts); conflict {
		return errs.NewConcurrencyConflictError("account", id)
	}
	if err := u.checkSettlementLines(); err != nil {
		return err
	}

	u.codes.applyTo(s.codes)
	u.orders.applyTo(s.orders)
	u.drivers.applyTo(s.drivers)
	u.accounts.applyTo(s.accounts)
	s.transactions = append(s.transactions, u.transactions...)

	for _, e := range u.outbox {
		s.outbox = append(s.outbox, outboxRow{event: e})
	}
	for _, aggregate := range u.tracked {
		for _, e := range aggregate.DomainEvents() {
			s.outbox = append(s.outbox, outboxRow{event: e})
		}
		aggregate.ClearDomainEvents()
	}

	for i := range s.outbox {
		if at, ok := u.published[s.outbox[i].event.ID]; ok && s.outbox[i].publishedAt == nil {
			s.outbox[i].publishedAt = &at
		}
	}
	if u.purgeBefore != nil {
		kept := s.outbox[:0]
		for _, r := range s.outbox {
			if r.publishedAt == nil || !r.publishedAt.Before(*u.purgeBefore) {
				kept = append(kept, r)
			}
		}
		s.outbox = kept
	}

	return nil
}

// checkSettlementLines enforces one ledger line per (related order, account).
// Caller holds the store lock.
func (u *UnitOfWork) checkSettlementLines() error {
	type key struct{ orderID, accountID kernel.UUID }

	seen := make(map[key]struct{}, len(u.store.transactions))
	for _, tx := range u.store.transactions {
		if tx.RelatedOrderID != nil {
			seen[key{*tx.RelatedOrderID, tx.AccountID}] = struct{}{}
		}
	}
	for _, tx := range u.transactions {
		if tx.RelatedOrderID == nil {
			continue
		}
		k := key{*tx.RelatedOrderID, tx.AccountID}
		if _, dup := seen[k]; dup {
			return errs.NewConcurrencyConflictError("settlement", tx.RelatedOrderID.String())
		}
		seen[k] = struct{}{}
	}
	return nil
}
