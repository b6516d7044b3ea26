package ports

import (
	"context"

	"courierdispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. An order with the same id must not exist.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id.
	// Returns errs.ErrObjectNotFound when no order has that id.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetMany retrieves the orders with the given ids, ordered by id.
	// Returns errs.ErrObjectNotFound when any id is missing.
	GetMany(ctx context.Context, ids []int64) ([]*order.Order, error)

	// ExistingIDs returns the subset of ids that are already stored, in ascending order.
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)

	// ListAvailable returns orders that are not taken, lie in one of regions and
	// weigh at most maxWeight, lightest first and then by id. Returned rows are locked
	// until the transaction ends; rows locked by another transaction are skipped.
	ListAvailable(ctx context.Context, regions []int64, maxWeight float64) ([]*order.Order, error)

	// SetTaken stores the aggregate's taken flag.
	SetTaken(ctx context.Context, aggregate *order.Order) error
}
