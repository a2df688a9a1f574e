package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCleanupOutboxCommandIsNotConstructed = errors.New(
	"CleanupOutboxCommand must be created via NewCleanupOutboxCommand constructor",
)

// CleanupOutboxCommand deletes published events older than the retention.
type CleanupOutboxCommand struct { //nolint:recvcheck //using for validation
	retention time.Duration

	guard guard.ConstructorGuard
}

func NewCleanupOutboxCommand(retention time.Duration) (CleanupOutboxCommand, error) {
	if retention <= 0 {
		return CleanupOutboxCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"retention", fmt.Errorf("%s is not positive", retention))
	}
	return CleanupOutboxCommand{retention: retention, guard: guard.NewConstructorGuard()}, nil
}

func (c CleanupOutboxCommand) Validate() error {
	return c.guard.Validate(ErrCleanupOutboxCommandIsNotConstructed)
}

func (c CleanupOutboxCommand) Retention() time.Duration {
	return c.retention
}
