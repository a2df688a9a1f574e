// Package memory is the in-process storage adapter used in development mode and
// by scenario tests. It offers the same guarantees as the postgres adapter:
// transactions see a consistent view plus their own writes, optimistic versions
// are validated at commit, unique constraints are enforced, and domain events of
// the touched aggregates reach the outbox in the same commit.
package memory

import (
	"sync"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/core/domain/model/wallet"
)

// Store holds the committed state. Share one Store between the unit of work
// factory and everything that must see the same data.
type Store struct {
	mu  sync.Mutex
	seq atomic.Int64

	orders       table[order.Snapshot]
	codes        table[validationcode.Snapshot]
	drivers      table[driverRow]
	accounts     table[accountRow]
	transactions []wallet.TransactionSnapshot
	outbox       []outboxRow
}

func NewStore() *Store {
	return &Store{
		orders:   make(table[order.Snapshot]),
		codes:    make(table[validationcode.Snapshot]),
		drivers:  make(table[driverRow]),
		accounts: make(table[accountRow]),
	}
}

func (s *Store) nextSeq() int64 {
	return s.seq.Add(1)
}

type driverRow struct {
	Name    string
	Zone    string
	Status  driver.Status
	OrderID *kernel.UUID
}

type accountRow struct {
	Balance  kernel.Money
	Currency string
}

type outboxRow struct {
	event       events.Event
	publishedAt *time.Time
}

// row is a committed record with its optimistic version and insertion order.
type row[T any] struct {
	value   T
	version int
	seq     int64
}

type table[T any] map[kernel.UUID]row[T]

// pendingWrite is a write staged by a unit of work. Inserts carry insert=true;
// updates carry the committed version they were based on.
type pendingWrite[T any] struct {
	value    T
	version  int
	expected int
	insert   bool
	seq      int64
}

type changes[T any] map[kernel.UUID]pendingWrite[T]

func (c changes[T]) insert(id kernel.UUID, value T, version int, seq int64) {
	c[id] = pendingWrite[T]{value: value, version: version, insert: true, seq: seq}
}

// update stages a new value. A second update of the same record within one unit
// of work keeps the version the first one was based on.
func (c changes[T]) update(id kernel.UUID, value T, expected int) {
	w, staged := c[id]
	if !staged {
		c[id] = pendingWrite[T]{value: value, version: expected + 1, expected: expected}
		return
	}
	w.value = value
	w.version = expected + 1
	c[id] = w
}

// conflicts checks staged writes against committed rows. Caller holds the store lock.
func (c changes[T]) conflicts(t table[T]) (kernel.UUID, bool) {
	for id, w := range c {
		committed, exists := t[id]
		if w.insert && exists {
			return id, true
		}
		if !w.insert && (!exists || committed.version != w.expected) {
			return id, true
		}
	}
	return kernel.UUID{}, false
}

// applyTo writes staged values into the table. Caller holds the store lock.
func (c changes[T]) applyTo(t table[T]) {
	for id, w := range c {
		seq := w.seq
		if committed, exists := t[id]; exists {
			seq = committed.seq
		}
		t[id] = row[T]{value: w.value, version: w.version, seq: seq}
	}
}

// entry is a record visible to a unit of work: committed, or staged by it.
type entry[T any] struct {
	id      kernel.UUID
	value   T
	version int
	seq     int64
}

// visible merges the committed table with the unit of work's own writes.
func visible[T any](s *Store, t table[T], c changes[T]) []entry[T] {
	s.mu.Lock()
	result := make([]entry[T], 0, len(t)+len(c))
	for id, r := range t {
		if _, staged := c[id]; staged {
			continue
		}
		result = append(result, entry[T]{id: id, value: r.value, version: r.version, seq: r.seq})
	}
	committedSeq := make(map[kernel.UUID]int64, len(c))
	for id := range c {
		if r, ok := t[id]; ok {
			committedSeq[id] = r.seq
		}
	}
	s.mu.Unlock()

	for id, w := range c {
		seq := w.seq
		if committedSeqOf, ok := committedSeq[id]; ok {
			seq = committedSeqOf
		}
		result = append(result, entry[T]{id: id, value: w.value, version: w.version, seq: seq})
	}
	return result
}

// lookup returns one visible record.
func lookup[T any](s *Store, t table[T], c changes[T], id kernel.UUID) (entry[T], bool) {
	if w, staged := c[id]; staged {
		return entry[T]{id: id, value: w.value, version: w.version, seq: w.seq}, true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := t[id]
	if !ok {
		return entry[T]{}, false
	}
	return entry[T]{id: id, value: r.value, version: r.version, seq: r.seq}, true
}
