package commands

import (
	"errors"
	"fmt"
	"time"

	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var ErrPurgeOutboxCommandIsNotConstructed = errors.New(
	"PurgeOutboxCommand must be created via NewPurgeOutboxCommand constructor",
)

// PurgeOutboxCommand removes published outbox messages older than the retention.
type PurgeOutboxCommand struct {
	retention time.Duration

	guard guard.ConstructorGuard
}

// NewPurgeOutboxCommand creates the command for a positive retention.
func NewPurgeOutboxCommand(retention time.Duration) (PurgeOutboxCommand, error) {
	if retention <= 0 {
		return PurgeOutboxCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"retention", fmt.Errorf("%s is not positive", retention))
	}

	return PurgeOutboxCommand{
		retention: retention,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeOutboxCommand) Validate() error {
	return c.guard.Validate(ErrPurgeOutboxCommandIsNotConstructed)
}

func (c PurgeOutboxCommand) Retention() time.Duration {
	return c.retention
}
