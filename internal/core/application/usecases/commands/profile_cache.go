package commands

import (
	"context"

	"courierdispatch/internal/core/ports"
)

// invalidateProfile drops the cached profile of a courier after a committed change.
// A failed invalidation leaves the entry to expire with its TTL.
func invalidateProfile(ctx context.Context, cache ports.CourierProfileCache, courierID int64) {
	if cache == nil {
		return
	}
	_ = cache.Invalidate(ctx, courierID)
}
