package commands

import (
	"errors"
	"fmt"

	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var ErrAssignOrdersCommandIsNotConstructed = errors.New(
	"AssignOrdersCommand must be created via NewAssignOrdersCommand constructor",
)

// AssignOrdersCommand hands available orders to a courier.
//
// Example:
//
//	cmd, err := NewAssignOrdersCommand(2)
//	result, err := handler.Handle(ctx, cmd)
//	fmt.Println(result.OrderIDs, result.AssignTime)
type AssignOrdersCommand struct {
	courierID int64

	guard guard.ConstructorGuard
}

// NewAssignOrdersCommand creates the command for a positive courier id.
func NewAssignOrdersCommand(courierID int64) (AssignOrdersCommand, error) {
	if courierID <= 0 {
		return AssignOrdersCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"courier_id", fmt.Errorf("%d is not positive", courierID))
	}

	return AssignOrdersCommand{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrdersCommandIsNotConstructed)
}

func (c AssignOrdersCommand) CourierID() int64 {
	return c.courierID
}
