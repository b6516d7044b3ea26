package ports

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by CourierProfileCache.Get when no entry is stored.
var ErrCacheMiss = errors.New("cache miss")

// CourierProfileCache stores rendered courier profiles keyed by courier id.
type CourierProfileCache interface {
	Get(ctx context.Context, courierID int64) ([]byte, error)
	Set(ctx context.Context, courierID int64, profile []byte) error
	Invalidate(ctx context.Context, courierID int64) error
}
