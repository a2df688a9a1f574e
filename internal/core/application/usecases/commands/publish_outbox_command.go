package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPublishOutboxCommandIsNotConstructed = errors.New(
	"PublishOutboxCommand must be created via NewPublishOutboxCommand constructor",
)

const maxOutboxBatchSize = 1000

// PublishOutboxCommand relays one batch of committed domain events.
type PublishOutboxCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewPublishOutboxCommand(batchSize int) (PublishOutboxCommand, error) {
	if batchSize < 1 || batchSize > maxOutboxBatchSize {
		return PublishOutboxCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, maxOutboxBatchSize)
	}
	return PublishOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c PublishOutboxCommand) Validate() error {
	return c.guard.Validate(ErrPublishOutboxCommandIsNotConstructed)
}

func (c PublishOutboxCommand) BatchSize() int {
	return c.batchSize
}
