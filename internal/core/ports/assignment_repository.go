package ports

import (
	"context"
	"time"

	"courierdispatch/internal/core/domain/model/assignment"
)

// AssignmentRepository defines the persistence contract for assignments.
type AssignmentRepository interface {
	// Add persists a new open assignment.
	// Returns errs.ErrObjectAlreadyExists when the order already has an open assignment.
	Add(ctx context.Context, a *assignment.Assignment) error

	// ListOpen returns the courier's open assignments ordered by order id.
	ListOpen(ctx context.Context, courierID int64) ([]*assignment.Assignment, error)

	// GetOpen returns the open assignment of the order to the courier.
	// Returns errs.ErrObjectNotFound when there is none.
	GetOpen(ctx context.Context, courierID, orderID int64) (*assignment.Assignment, error)

	// Delete removes the courier's open assignments of the given orders.
	Delete(ctx context.Context, courierID int64, orderIDs []int64) error

	// LatestCompletionTime returns the latest complete time among the courier's
	// completed assignments, or nil when the courier has delivered nothing yet.
	LatestCompletionTime(ctx context.Context, courierID int64) (*time.Time, error)

	// Complete stores the complete time and delivery time of a completed assignment.
	Complete(ctx context.Context, a *assignment.Assignment) error
}
