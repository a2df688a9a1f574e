package memory

import (
	"context"
	"sort"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

type driverRepository struct {
	uow *UnitOfWork
}

func (r *driverRepository) Add(_ context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.uow.drivers.insert(aggregate.ID(), driverRowOf(aggregate), aggregate.Version(), r.uow.store.nextSeq())
	return r.uow.written()
}

func (r *driverRepository) Update(_ context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.uow.drivers.update(aggregate.ID(), driverRowOf(aggregate), aggregate.Version())
	if err := r.uow.written(); err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	return nil
}

func (r *driverRepository) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	e, ok := lookup(r.uow.store, r.uow.store.drivers, r.uow.drivers, id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id)
	}
	return restoreDriver(e)
}

func (r *driverRepository) GetAvailable(_ context.Context, zone string) ([]*driver.Driver, error) {
	drivers := make([]*driver.Driver, 0)
	for _, e := range visible(r.uow.store, r.uow.store.drivers, r.uow.drivers) {
		d, err := restoreDriver(e)
		if err != nil {
			return nil, err
		}
		if d.IsAvailable() && d.ServesZone(zone) {
			drivers = append(drivers, d)
		}
	}

	sort.Slice(drivers, func(i, j int) bool {
		if drivers[i].Name() != drivers[j].Name() {
			return drivers[i].Name() < drivers[j].Name()
		}
		return drivers[i].ID().String() < drivers[j].ID().String()
	})
	return drivers, nil
}

func driverRowOf(d *driver.Driver) driverRow {
	return driverRow{
		Name:    d.Name(),
		Zone:    d.Zone(),
		Status:  d.Status(),
		OrderID: d.OrderID(),
	}
}

func restoreDriver(e entry[driverRow]) (*driver.Driver, error) {
	return driver.RestoreDriver(e.id, e.value.Name, e.value.Zone, e.value.Status, e.value.OrderID, e.version)
}
