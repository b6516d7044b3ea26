package services

import (
	"time"

	"courierdispatch/internal/core/domain/model/assignment"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/order"
)

// OrderDispatcher selects orders for a courier in a single greedy pass.
//
// Business rules:
//   - The pool is walked in the order given (lightest first, as the repository returns it)
//   - The walk stops at the first order for which the running total, starting at the
//     weight already carried, would exceed the remaining capacity
//   - Orders outside the courier's regions or working hours are skipped and stay available
//   - Every order selected in one call shares the same assign time
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher()
//	pool, _ := orderRepo.ListAvailable(ctx, c.Regions(), c.RemainingCapacity())
//	assignments, err := dispatcher.Dispatch(c, pool, time.Now().UTC())
type OrderDispatcher struct{}

// NewOrderDispatcher creates a new OrderDispatcher instance.
func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Dispatch assigns orders from pool to the courier.
//
// Selected orders are marked taken and their weight is added to the courier. An
// OrdersAssigned event is recorded on the courier when anything is selected.
//
// Parameters:
//   - c: the courier, locked by the caller for the duration of the transaction
//   - pool: candidate orders sorted by weight ascending, then id
//   - assignTime: the timestamp stored on every created assignment
//
// Returns:
//   - []*assignment.Assignment: the new open assignments in selection order, empty when
//     nothing fits
//   - error: validation errors for unconstructed aggregates
func (d OrderDispatcher) Dispatch(
	c *courier.Courier,
	pool []*order.Order,
	assignTime time.Time,
) ([]*assignment.Assignment, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		assignments []*assignment.Assignment
		orderIDs    []int64
		total       = c.CurrentWeight()
		remaining   = c.RemainingCapacity()
	)

	for _, o := range pool {
		if err := o.Validate(); err != nil {
			return nil, err
		}

		if !FitsCapacity(total, o.Weight(), remaining) {
			break
		}

		if o.IsTaken() || !d.isCompatible(c, o) {
			continue
		}

		if err := c.TakeOrder(o); err != nil {
			return nil, err
		}
		if err := o.Take(); err != nil {
			return nil, err
		}

		a, err := assignment.NewAssignment(c.ID(), o.ID(), assignTime)
		if err != nil {
			return nil, err
		}

		assignments = append(assignments, a)
		orderIDs = append(orderIDs, o.ID())
		total = c.CurrentWeight()
	}

	c.RecordOrdersAssigned(orderIDs, assignTime)

	return assignments, nil
}

func (d OrderDispatcher) isCompatible(c *courier.Courier, o *order.Order) bool {
	return RegionCompatible(o.Region(), c.Regions()) &&
		TimeCompatible(o.DeliveryHours(), c.WorkingHours())
}
