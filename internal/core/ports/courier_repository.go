// Package ports defines the contracts between the application core and the
// infrastructure: repositories, the unit of work, the profile cache and the
// event publisher.
package ports

import (
	"context"

	"courierdispatch/internal/core/domain/model/courier"
)

// CourierRepository defines the persistence contract for courier aggregates.
// Every method runs inside the transaction of the unit of work that produced the
// repository.
type CourierRepository interface {
	// Add persists a new courier. A courier with the same id must not exist.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by id.
	// Returns errs.ErrObjectNotFound when no courier has that id.
	Get(ctx context.Context, id int64) (*courier.Courier, error)

	// GetForUpdate retrieves a courier by id and locks its row until the transaction
	// ends. Assign, patch and complete take this lock first, which serialises all work
	// on one courier.
	GetForUpdate(ctx context.Context, id int64) (*courier.Courier, error)

	// ExistingIDs returns the subset of ids that are already stored, in ascending order.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	// ReplaceRegions overwrites the stored regions with the aggregate's regions.
	ReplaceRegions(ctx context.Context, aggregate *courier.Courier) error

	// ReplaceWorkingHours overwrites the stored working hours with the aggregate's.
	ReplaceWorkingHours(ctx context.Context, aggregate *courier.Courier) error

	// ChangeType stores the aggregate's type.
	ChangeType(ctx context.Context, aggregate *courier.Courier) error

	// SetWeight stores the aggregate's current weight.
	SetWeight(ctx context.Context, aggregate *courier.Courier) error
}
