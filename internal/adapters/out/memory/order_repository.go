package memory

import (
	"context"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.uow.orders.insert(aggregate.ID(), aggregate.Snapshot(), aggregate.Version(), r.uow.store.nextSeq())
	r.uow.track(aggregate)
	return r.uow.written()
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot := aggregate.Snapshot()
	snapshot.Version++
	r.uow.orders.update(aggregate.ID(), snapshot, aggregate.Version())
	r.uow.track(aggregate)
	if err := r.uow.written(); err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	e, ok := lookup(r.uow.store, r.uow.store.orders, r.uow.orders, id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return restoreOrder(e)
}

func (r *orderRepository) GetActiveByDistributor(_ context.Context, distributorID kernel.UUID) ([]*order.Order, error) {
	entries := visible(r.uow.store, r.uow.store.orders, r.uow.orders)

	active := make([]entry[order.Snapshot], 0)
	for _, e := range entries {
		if e.value.DistributorID == distributorID && e.value.Status.IsActive() {
			active = append(active, e)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].value.CreatedAt.Equal(active[j].value.CreatedAt) {
			return active[i].value.CreatedAt.Before(active[j].value.CreatedAt)
		}
		return active[i].seq < active[j].seq
	})

	orders := make([]*order.Order, 0, len(active))
	for _, e := range active {
		o, err := restoreOrder(e)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func restoreOrder(e entry[order.Snapshot]) (*order.Order, error) {
	snapshot := e.value
	snapshot.Version = e.version
	return order.RestoreOrder(snapshot)
}
