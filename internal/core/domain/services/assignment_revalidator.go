package services

import (
	"cmp"
	"slices"
	"time"

	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/order"
)

// AssignmentRevalidator drops the open assignments a courier can no longer serve after
// a patch.
//
// Passes run in a fixed order and only for the aspects the patch changed:
//  1. regions: orders outside the new regions
//  2. working hours: orders whose delivery windows miss every new working window
//  3. type: the heaviest orders, one at a time, while the courier is overloaded
//
// After every pass the courier's weight is recomputed from the orders it still holds.
type AssignmentRevalidator struct{}

// NewAssignmentRevalidator creates a new AssignmentRevalidator instance.
func NewAssignmentRevalidator() AssignmentRevalidator {
	return AssignmentRevalidator{}
}

// Revalidate applies the passes selected by changes.
//
// Parameters:
//   - c: the patched courier
//   - open: the orders of the courier's open assignments
//   - changes: the aspects touched by the patch
//   - at: the timestamp of the recorded OrdersUnassigned events
//
// Returns:
//   - []*order.Order: evicted orders, released and ready to be stored; each order appears once
//   - error: validation errors for unconstructed aggregates
func (r AssignmentRevalidator) Revalidate(
	c *courier.Courier,
	open []*order.Order,
	changes courier.Changes,
	at time.Time,
) ([]*order.Order, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for _, o := range open {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}

	var evicted []*order.Order
	kept := slices.Clone(open)

	if changes.Regions {
		var dropped []*order.Order
		kept, dropped = partition(kept, func(o *order.Order) bool {
			return RegionCompatible(o.Region(), c.Regions())
		})
		evicted = append(evicted, r.release(c, kept, dropped, courier.UnassignedByRegions, at)...)
	}

	if changes.WorkingHours {
		var dropped []*order.Order
		kept, dropped = partition(kept, func(o *order.Order) bool {
			return TimeCompatible(o.DeliveryHours(), c.WorkingHours())
		})
		evicted = append(evicted, r.release(c, kept, dropped, courier.UnassignedByWorkingHours, at)...)
	}

	if changes.Type {
		slices.SortStableFunc(kept, func(a, b *order.Order) int {
			return cmp.Or(cmp.Compare(a.Weight(), b.Weight()), cmp.Compare(a.ID(), b.ID()))
		})

		var dropped []*order.Order
		c.RecomputeWeight(kept)
		for c.IsOverloaded() && len(kept) > 0 {
			heaviest := kept[len(kept)-1]
			kept = kept[:len(kept)-1]
			dropped = append(dropped, heaviest)
			c.RecomputeWeight(kept)
		}
		evicted = append(evicted, r.release(c, kept, dropped, courier.UnassignedByType, at)...)
	}

	return evicted, nil
}

func (r AssignmentRevalidator) release(
	c *courier.Courier,
	kept, dropped []*order.Order,
	reason courier.UnassignReason,
	at time.Time,
) []*order.Order {
	ids := make([]int64, 0, len(dropped))
	for _, o := range dropped {
		o.Release()
		ids = append(ids, o.ID())
	}
	c.RecomputeWeight(kept)
	c.RecordOrdersUnassigned(ids, reason, at)
	return dropped
}

func partition(orders []*order.Order, keep func(*order.Order) bool) ([]*order.Order, []*order.Order) {
	var kept, dropped []*order.Order
	for _, o := range orders {
		if keep(o) {
			kept = append(kept, o)
		} else {
			dropped = append(dropped, o)
		}
	}
	return kept, dropped
}
