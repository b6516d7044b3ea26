package commands

import (
	"errors"
	"fmt"

	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var ErrPatchCourierCommandIsNotConstructed = errors.New(
	"PatchCourierCommand must be created via NewPatchCourierCommand constructor",
)

// PatchCourierCommand changes any non-empty subset of a courier's type, regions and
// working hours. Set fields replace the stored values wholesale.
//
// Example:
//
//	bike := "bike"
//	cmd, err := NewPatchCourierCommand(2, &bike, []int64{11, 33}, nil)
type PatchCourierCommand struct {
	courierID int64
	patch     courier.Patch

	guard guard.ConstructorGuard
}

// NewPatchCourierCommand validates the patch. A nil argument leaves the field
// untouched.
//
// Returns:
//   - PatchCourierCommand: the command
//   - error: courier.ErrEmptyPatch when nothing is set, or joined validation errors
func NewPatchCourierCommand(
	courierID int64,
	courierType *string,
	regions []int64,
	workingHours []string,
) (PatchCourierCommand, error) {
	if courierType == nil && regions == nil && workingHours == nil {
		return PatchCourierCommand{}, courier.ErrEmptyPatch
	}

	var (
		patch   courier.Patch
		errList []error
	)

	if courierID <= 0 {
		errList = append(errList,
			errs.NewValueIsInvalidErrorWithCause("courier_id", fmt.Errorf("%d is not positive", courierID)))
	}

	if courierType != nil {
		t, err := courier.ParseType(*courierType)
		errList = append(errList, err)
		patch.Type = &t
	}

	if regions != nil {
		if len(regions) == 0 {
			errList = append(errList, errs.NewValueIsRequiredError("regions"))
		}
		for _, r := range regions {
			if r <= 0 {
				errList = append(errList,
					errs.NewValueIsInvalidErrorWithCause("regions", fmt.Errorf("%d is not positive", r)))
			}
		}
		patch.Regions = regions
	}

	if workingHours != nil {
		hours, err := kernel.ParseTimeIntervals(workingHours)
		if err == nil && len(hours) == 0 {
			err = errs.NewValueIsRequiredError("working_hours")
		}
		errList = append(errList, err)
		patch.WorkingHours = hours
	}

	if err := errors.Join(errList...); err != nil {
		return PatchCourierCommand{}, err
	}

	return PatchCourierCommand{
		courierID: courierID,
		patch:     patch,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PatchCourierCommand) Validate() error {
	return c.guard.Validate(ErrPatchCourierCommandIsNotConstructed)
}

func (c PatchCourierCommand) CourierID() int64 {
	return c.courierID
}

func (c PatchCourierCommand) Patch() courier.Patch {
	return c.patch
}
