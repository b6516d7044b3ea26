package courier

import (
	"errors"
	"fmt"
	"slices"

	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/domain/model/order"
	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var (
	// ErrCourierIsNotConstructed is returned when a Courier instance was not created through
	// NewCourier or RestoreCourier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")

	// ErrCapacityExceeded is returned by TakeOrder when the order does not fit.
	ErrCapacityExceeded = errors.New("courier capacity exceeded")

	// ErrEmptyPatch is returned by ApplyPatch when no field is set.
	ErrEmptyPatch = errors.New("patch must change at least one field")
)

// Courier is the aggregate root for a courier's transport type, regions,
// working hours and carried weight.
//
// Courier follows these invariants:
//   - ID is positive
//   - Type is one of Foot, Bike, Car
//   - Regions is a non-empty set of positive integers
//   - WorkingHours is non-empty
//   - CurrentWeight is the rounded sum of the courier's open orders and, at rest,
//     does not exceed Type().Capacity()
type Courier struct {
	// id is the client-supplied identifier
	id int64

	// courierType fixes capacity and earnings coefficient
	courierType Type

	// regions served by the courier, in insertion order without duplicates
	regions []int64

	// workingHours are the windows in which the courier delivers
	workingHours []kernel.TimeInterval

	// currentWeight is the total weight of open assigned orders
	currentWeight float64

	// events recorded since the aggregate was loaded
	events []kernel.DomainEvent

	guard guard.ConstructorGuard
}

// NewCourier creates a courier carrying nothing.
//
// Parameters:
//   - id: positive identifier
//   - courierType: transport type
//   - regions: non-empty list of positive regions; duplicates are dropped
//   - workingHours: non-empty list of working windows
//
// Returns:
//   - *Courier: the created courier
//   - error: joined validation errors for every invalid parameter
//
// Example:
//
//	hours := []kernel.TimeInterval{kernel.MustParseTimeInterval("11:35-14:05")}
//	c, err := courier.NewCourier(1, courier.Foot, []int64{1, 12, 22}, hours)
func NewCourier(id int64, courierType Type, regions []int64, workingHours []kernel.TimeInterval) (*Courier, error) {
	return RestoreCourier(id, courierType, regions, workingHours, 0)
}

// RestoreCourier rebuilds a courier from persisted state.
//
// The stored weight is accepted as is, even above capacity: a courier may be
// persisted over capacity only inside a patch transaction, before re-validation.
func RestoreCourier(
	id int64,
	courierType Type,
	regions []int64,
	workingHours []kernel.TimeInterval,
	currentWeight float64,
) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setType(courierType),
		c.setRegions(regions),
		c.setWorkingHours(workingHours),
		c.setCurrentWeight(currentWeight),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate ensures the courier was created through a constructor.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// ID returns the courier identifier.
func (c *Courier) ID() int64 {
	return c.id
}

// Type returns the transport type.
func (c *Courier) Type() Type {
	return c.courierType
}

// Regions returns a copy of the served regions.
func (c *Courier) Regions() []int64 {
	return slices.Clone(c.regions)
}

// WorkingHours returns a copy of the working windows.
func (c *Courier) WorkingHours() []kernel.TimeInterval {
	return slices.Clone(c.workingHours)
}

// CurrentWeight returns the total weight of the courier's open orders.
func (c *Courier) CurrentWeight() float64 {
	return c.currentWeight
}

// Capacity returns the carrying capacity of the courier's current type.
func (c *Courier) Capacity() float64 {
	return c.courierType.Capacity()
}

// RemainingCapacity returns how much more weight the courier can take.
// It is negative while a patched courier awaits re-validation.
func (c *Courier) RemainingCapacity() float64 {
	return kernel.RoundWeight(c.Capacity() - c.currentWeight)
}

// IsOverloaded reports whether the carried weight exceeds capacity.
func (c *Courier) IsOverloaded() bool {
	return c.currentWeight > c.Capacity()
}

// ServesRegion reports whether region is one of the courier's regions.
func (c *Courier) ServesRegion(region int64) bool {
	return slices.Contains(c.regions, region)
}

// WorksDuring reports whether any of the delivery windows overlaps any working window.
func (c *Courier) WorksDuring(deliveryHours []kernel.TimeInterval) bool {
	return kernel.AnyOverlap(deliveryHours, c.workingHours)
}

// CanTakeOrder reports whether the order's weight fits into the remaining capacity.
//
// Returns:
//   - bool: true when CurrentWeight + order weight <= Capacity
//   - error: validation error when the order is not constructed
func (c *Courier) CanTakeOrder(o *order.Order) (bool, error) {
	if err := o.Validate(); err != nil {
		return false, err
	}
	return kernel.RoundWeight(c.currentWeight+o.Weight()) <= c.Capacity(), nil
}

// TakeOrder adds the order's weight to the courier.
//
// Returns:
//   - error: ErrCapacityExceeded when the order does not fit, or an order validation error
func (c *Courier) TakeOrder(o *order.Order) error {
	fits, err := c.CanTakeOrder(o)
	if err != nil {
		return err
	}
	if !fits {
		return fmt.Errorf("courier %d cannot take order %d (%.2f of %.2f carried): %w",
			c.id, o.ID(), c.currentWeight, c.Capacity(), ErrCapacityExceeded)
	}

	c.currentWeight = kernel.RoundWeight(c.currentWeight + o.Weight())
	return nil
}

// ReleaseOrder subtracts a delivered or dropped order's weight.
func (c *Courier) ReleaseOrder(o *order.Order) {
	c.currentWeight = kernel.RoundWeight(c.currentWeight - o.Weight())
}

// RecomputeWeight sets the current weight to the exact sum of the given open orders.
func (c *Courier) RecomputeWeight(openOrders []*order.Order) {
	var total float64
	for _, o := range openOrders {
		total += o.Weight()
	}
	c.currentWeight = kernel.RoundWeight(total)
}

// ApplyPatch replaces the fields set in p and reports which aspects changed.
// Regions and working hours are replaced wholesale.
//
// Returns:
//   - Changes: the aspects present in the patch
//   - error: ErrEmptyPatch when p sets nothing, or joined validation errors; on error
//     the courier is left untouched
//
// Example:
//
//	bike := courier.Bike
//	changes, err := c.ApplyPatch(courier.Patch{Type: &bike})
//	if err == nil && changes.Type {
//	    // run the type re-validation pass
//	}
func (c *Courier) ApplyPatch(p Patch) (Changes, error) {
	changes := p.Changes()
	if !changes.Any() {
		return Changes{}, ErrEmptyPatch
	}

	patched := *c
	var patchErrs []error
	if changes.Type {
		patchErrs = append(patchErrs, patched.setType(*p.Type))
	}
	if changes.Regions {
		patchErrs = append(patchErrs, patched.setRegions(p.Regions))
	}
	if changes.WorkingHours {
		patchErrs = append(patchErrs, patched.setWorkingHours(p.WorkingHours))
	}
	if err := errors.Join(patchErrs...); err != nil {
		return Changes{}, err
	}

	*c = patched
	return changes, nil
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (c *Courier) DomainEvents() []kernel.DomainEvent {
	return slices.Clone(c.events)
}

// ClearDomainEvents drops recorded events once they are stored.
func (c *Courier) ClearDomainEvents() {
	c.events = nil
}

func (c *Courier) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("courier_id", fmt.Errorf("%d is not positive", id))
	}
	c.id = id
	return nil
}

func (c *Courier) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	c.courierType = t
	return nil
}

func (c *Courier) setRegions(regions []int64) error {
	if len(regions) == 0 {
		return errs.NewValueIsRequiredError("regions")
	}

	unique := make([]int64, 0, len(regions))
	for _, r := range regions {
		if r <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("regions", fmt.Errorf("%d is not positive", r))
		}
		if !slices.Contains(unique, r) {
			unique = append(unique, r)
		}
	}
	c.regions = unique
	return nil
}

func (c *Courier) setWorkingHours(hours []kernel.TimeInterval) error {
	if len(hours) == 0 {
		return errs.NewValueIsRequiredError("working_hours")
	}
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("working_hours", err)
		}
	}
	c.workingHours = slices.Clone(hours)
	return nil
}

func (c *Courier) setCurrentWeight(weight float64) error {
	if weight < 0 {
		return errs.NewValueIsOutOfRangeError("current_weight", weight, 0, c.Capacity())
	}
	c.currentWeight = kernel.RoundWeight(weight)
	return nil
}
