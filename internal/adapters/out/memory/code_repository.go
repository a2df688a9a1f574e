package memory

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/validationcode"
	"fulfillment/internal/pkg/errs"
)

type codeRepository struct {
	uow *UnitOfWork
}

func (r *codeRepository) Add(_ context.Context, code *validationcode.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}

	r.uow.codes.insert(code.ID(), code.Snapshot(), code.Version(), r.uow.store.nextSeq())
	return r.uow.written()
}

func (r *codeRepository) Update(_ context.Context, code *validationcode.Code) error {
	if err := code.Validate(); err != nil {
		return err
	}

	r.uow.codes.update(code.ID(), code.Snapshot(), code.Version())
	if err := r.uow.written(); err != nil {
		return err
	}

	code.AdvanceVersion()
	return nil
}

func (r *codeRepository) GetLatest(_ context.Context, orderID kernel.UUID) (*validationcode.Code, error) {
	var (
		latest entry[validationcode.Snapshot]
		found  bool
	)
	for _, e := range visible(r.uow.store, r.uow.store.codes, r.uow.codes) {
		if e.value.OrderID != orderID {
			continue
		}
		if !found || e.seq > latest.seq {
			latest, found = e, true
		}
	}
	if !found {
		return nil, errs.NewObjectNotFoundError("validation code", orderID)
	}

	snapshot := latest.value
	snapshot.Version = latest.version
	return validationcode.RestoreCode(snapshot)
}
