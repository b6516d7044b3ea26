package courier

import (
	"slices"
	"time"
)

const (
	OrdersAssignedEventName   = "courier.orders_assigned"
	OrderCompletedEventName   = "courier.order_completed"
	OrdersUnassignedEventName = "courier.orders_unassigned"
)

// UnassignReason names the re-validation pass that dropped an assignment.
type UnassignReason string

const (
	UnassignedByRegions      UnassignReason = "regions"
	UnassignedByWorkingHours UnassignReason = "working_hours"
	UnassignedByType         UnassignReason = "courier_type"
)

// OrdersAssigned is recorded when an assignment batch selects at least one order.
type OrdersAssigned struct {
	CourierID  int64     `json:"courier_id"`
	OrderIDs   []int64   `json:"order_ids"`
	AssignTime time.Time `json:"assign_time"`
}

func (e OrdersAssigned) EventName() string     { return OrdersAssignedEventName }
func (e OrdersAssigned) AggregateID() int64    { return e.CourierID }
func (e OrdersAssigned) OccurredAt() time.Time { return e.AssignTime }

// OrderCompleted is recorded when the courier delivers an order.
type OrderCompleted struct {
	CourierID    int64     `json:"courier_id"`
	OrderID      int64     `json:"order_id"`
	CompleteTime time.Time `json:"complete_time"`
	DeliveryTime int64     `json:"delivery_time"`
}

func (e OrderCompleted) EventName() string     { return OrderCompletedEventName }
func (e OrderCompleted) AggregateID() int64    { return e.CourierID }
func (e OrderCompleted) OccurredAt() time.Time { return e.CompleteTime }

// OrdersUnassigned is recorded when re-validation drops open assignments.
type OrdersUnassigned struct {
	CourierID int64          `json:"courier_id"`
	OrderIDs  []int64        `json:"order_ids"`
	Reason    UnassignReason `json:"reason"`
	At        time.Time      `json:"at"`
}

func (e OrdersUnassigned) EventName() string     { return OrdersUnassignedEventName }
func (e OrdersUnassigned) AggregateID() int64    { return e.CourierID }
func (e OrdersUnassigned) OccurredAt() time.Time { return e.At }

// RecordOrdersAssigned records an OrdersAssigned event. Empty batches are not recorded.
func (c *Courier) RecordOrdersAssigned(orderIDs []int64, assignTime time.Time) {
	if len(orderIDs) == 0 {
		return
	}
	c.events = append(c.events, OrdersAssigned{
		CourierID:  c.id,
		OrderIDs:   slices.Clone(orderIDs),
		AssignTime: assignTime,
	})
}

// RecordOrderCompleted records an OrderCompleted event.
func (c *Courier) RecordOrderCompleted(orderID int64, completeTime time.Time, deliveryTime int64) {
	c.events = append(c.events, OrderCompleted{
		CourierID:    c.id,
		OrderID:      orderID,
		CompleteTime: completeTime,
		DeliveryTime: deliveryTime,
	})
}

// RecordOrdersUnassigned records an OrdersUnassigned event. Empty batches are not recorded.
func (c *Courier) RecordOrdersUnassigned(orderIDs []int64, reason UnassignReason, at time.Time) {
	if len(orderIDs) == 0 {
		return
	}
	c.events = append(c.events, OrdersUnassigned{
		CourierID: c.id,
		OrderIDs:  slices.Clone(orderIDs),
		Reason:    reason,
		At:        at,
	})
}
