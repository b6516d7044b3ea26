package assignment

import (
	"errors"
	"fmt"
	"time"

	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var (
	// ErrAssignmentIsNotConstructed is returned when an Assignment instance was not created
	// through NewAssignment or RestoreAssignment.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment or RestoreAssignment constructor",
	)

	// ErrAssignmentIsAlreadyCompleted is returned by Complete for a closed assignment.
	ErrAssignmentIsAlreadyCompleted = errors.New("assignment is already completed")
)

// Assignment binds an order to a courier.
//
// Assignment follows these invariants:
//   - CourierID and OrderID are positive
//   - AssignTime is set
//   - DeliveryTime is zero while the assignment is open
type Assignment struct {
	courierID    int64
	orderID      int64
	assignTime   time.Time
	completeTime *time.Time
	deliveryTime int64

	guard guard.ConstructorGuard
}

// NewAssignment creates an open assignment.
//
// Example:
//
//	a, err := assignment.NewAssignment(courierID, orderID, time.Now().UTC())
func NewAssignment(courierID, orderID int64, assignTime time.Time) (*Assignment, error) {
	return RestoreAssignment(courierID, orderID, assignTime, nil, 0)
}

// RestoreAssignment rebuilds an assignment from persisted state. A nil completeTime
// restores an open assignment.
func RestoreAssignment(
	courierID, orderID int64,
	assignTime time.Time,
	completeTime *time.Time,
	deliveryTime int64,
) (*Assignment, error) {
	var validationErrs []error
	if courierID <= 0 {
		validationErrs = append(validationErrs,
			errs.NewValueIsInvalidErrorWithCause("courier_id", fmt.Errorf("%d is not positive", courierID)))
	}
	if orderID <= 0 {
		validationErrs = append(validationErrs,
			errs.NewValueIsInvalidErrorWithCause("order_id", fmt.Errorf("%d is not positive", orderID)))
	}
	if assignTime.IsZero() {
		validationErrs = append(validationErrs, errs.NewValueIsRequiredError("assign_time"))
	}
	if completeTime == nil && deliveryTime != 0 {
		validationErrs = append(validationErrs,
			errs.NewValueIsInvalidErrorWithCause("delivery_time", errors.New("open assignment has a delivery time")))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return nil, err
	}

	a := &Assignment{
		courierID:    courierID,
		orderID:      orderID,
		assignTime:   assignTime,
		deliveryTime: deliveryTime,
		guard:        guard.NewConstructorGuard(),
	}
	if completeTime != nil {
		t := *completeTime
		a.completeTime = &t
	}

	return a, nil
}

// Validate ensures the assignment was created through a constructor.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a *Assignment) CourierID() int64 {
	return a.courierID
}

func (a *Assignment) OrderID() int64 {
	return a.orderID
}

func (a *Assignment) AssignTime() time.Time {
	return a.assignTime
}

// CompleteTime returns the delivery moment, or nil while the assignment is open.
func (a *Assignment) CompleteTime() *time.Time {
	if a.completeTime == nil {
		return nil
	}
	t := *a.completeTime
	return &t
}

// DeliveryTime is the number of whole seconds the delivery took.
func (a *Assignment) DeliveryTime() int64 {
	return a.deliveryTime
}

// IsOpen reports whether the order has not been delivered yet.
func (a *Assignment) IsOpen() bool {
	return a.completeTime == nil
}

// Complete closes the assignment.
//
// The delivery time is measured from previousCompletion, the courier's latest earlier
// completion, or from the assign time when previousCompletion is nil. It is truncated
// to whole seconds toward zero and may be negative when the client reports a
// completion time that precedes the baseline.
//
// Returns:
//   - error: ErrAssignmentIsAlreadyCompleted for a closed assignment
func (a *Assignment) Complete(completeTime time.Time, previousCompletion *time.Time) error {
	if !a.IsOpen() {
		return fmt.Errorf("order %d: %w", a.orderID, ErrAssignmentIsAlreadyCompleted)
	}
	if completeTime.IsZero() {
		return errs.NewValueIsRequiredError("complete_time")
	}

	baseline := a.assignTime
	if previousCompletion != nil {
		baseline = *previousCompletion
	}

	a.deliveryTime = int64(completeTime.Sub(baseline) / time.Second)
	a.completeTime = &completeTime
	return nil
}
