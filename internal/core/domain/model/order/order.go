package order

import (
	"errors"
	"fmt"
	"slices"

	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderIsAlreadyTaken is returned by Take when another assignment holds the order.
	ErrOrderIsAlreadyTaken = errors.New("order is already taken")
)

// Order represents a delivery order. It is the aggregate root for the order's
// weight, region, delivery windows and taken flag.
//
// Order follows these invariants:
//   - ID is positive
//   - Weight is within [kernel.MinOrderWeight, kernel.MaxOrderWeight], rounded to two decimals
//   - Region is positive
//   - DeliveryHours is non-empty
type Order struct {
	// id is the client-supplied identifier
	id int64

	// weight in kilograms, rounded to two decimals
	weight float64

	// region the order must be delivered to
	region int64

	// deliveryHours are the windows in which the customer accepts delivery
	deliveryHours []kernel.TimeInterval

	// taken is true while an assignment holds the order and after it is delivered
	taken bool

	guard guard.ConstructorGuard
}

// NewOrder creates a new, not yet taken order.
//
// Parameters:
//   - id: positive identifier
//   - weight: weight in kilograms; validated against [0.01, 50] before rounding
//   - region: positive region number
//   - deliveryHours: non-empty list of delivery windows
//
// Returns:
//   - *Order: the created order
//   - error: joined validation errors for every invalid parameter
//
// Example:
//
//	hours := []kernel.TimeInterval{kernel.MustParseTimeInterval("09:00-18:00")}
//	o, err := order.NewOrder(1, 0.23, 12, hours)
func NewOrder(id int64, weight float64, region int64, deliveryHours []kernel.TimeInterval) (*Order, error) {
	return RestoreOrder(id, weight, region, deliveryHours, false)
}

// RestoreOrder rebuilds an order from persisted state, including its taken flag.
func RestoreOrder(
	id int64,
	weight float64,
	region int64,
	deliveryHours []kernel.TimeInterval,
	taken bool,
) (*Order, error) {
	o := &Order{
		taken: taken,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setWeight(weight),
		o.setRegion(region),
		o.setDeliveryHours(deliveryHours),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order identifier.
func (o *Order) ID() int64 {
	return o.id
}

// Weight returns the order weight in kilograms.
func (o *Order) Weight() float64 {
	return o.weight
}

// Region returns the delivery region.
func (o *Order) Region() int64 {
	return o.region
}

// DeliveryHours returns a copy of the delivery windows.
func (o *Order) DeliveryHours() []kernel.TimeInterval {
	return slices.Clone(o.deliveryHours)
}

// IsTaken reports whether an assignment currently holds the order or it was delivered.
func (o *Order) IsTaken() bool {
	return o.taken
}

// Take marks the order as held by an assignment.
//
// Returns:
//   - error: ErrOrderIsAlreadyTaken if the order is already held
func (o *Order) Take() error {
	if o.taken {
		return fmt.Errorf("order %d: %w", o.id, ErrOrderIsAlreadyTaken)
	}
	o.taken = true
	return nil
}

// Release returns the order to the pool of unassigned orders.
func (o *Order) Release() {
	o.taken = false
}

func (o *Order) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("order_id", fmt.Errorf("%d is not positive", id))
	}
	o.id = id
	return nil
}

func (o *Order) setWeight(weight float64) error {
	if weight < kernel.MinOrderWeight || weight > kernel.MaxOrderWeight {
		return errs.NewValueIsOutOfRangeError("weight", weight, kernel.MinOrderWeight, kernel.MaxOrderWeight)
	}
	o.weight = kernel.RoundWeight(weight)
	return nil
}

func (o *Order) setRegion(region int64) error {
	if region <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("region", fmt.Errorf("%d is not positive", region))
	}
	o.region = region
	return nil
}

func (o *Order) setDeliveryHours(hours []kernel.TimeInterval) error {
	if len(hours) == 0 {
		return errs.NewValueIsRequiredError("delivery_hours")
	}
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("delivery_hours", err)
		}
	}
	o.deliveryHours = slices.Clone(hours)
	return nil
}
