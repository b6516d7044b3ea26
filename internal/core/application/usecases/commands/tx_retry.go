package commands

import (
	"context"
	"errors"
	"time"

	"courierdispatch/internal/core/ports"

	"github.com/sethvargo/go-retry"
)

// TxRetryPolicy bounds how a handler repeats a transaction aborted with
// ports.ErrTransactionConflict.
type TxRetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

// DefaultTxRetryPolicy retries a conflicting transaction three times with backoff
// starting at 25ms.
var DefaultTxRetryPolicy = TxRetryPolicy{MaxRetries: 3, BaseDelay: 25 * time.Millisecond}

// Run calls fn until it succeeds, fails with an error other than a transaction
// conflict, or the retries are exhausted. fn must open its own unit of work.
func (p TxRetryPolicy) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	backoff := retry.WithMaxRetries(p.MaxRetries, retry.NewExponential(base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, ports.ErrTransactionConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
