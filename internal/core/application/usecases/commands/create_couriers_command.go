package commands

import (
	"errors"
	"slices"

	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/guard"
)

var ErrCreateCouriersCommandIsNotConstructed = errors.New(
	"CreateCouriersCommand must be created via NewCreateCouriersCommand constructor",
)

// CourierItem is one courier of a bulk import, as received from the client.
type CourierItem struct {
	ID           int64
	Type         string
	Regions      []int64
	WorkingHours []string
}

// CreateCouriersCommand imports a batch of couriers. The batch is stored completely
// or not at all.
//
// Example:
//
//	cmd, err := NewCreateCouriersCommand([]CourierItem{
//	    {ID: 1, Type: "foot", Regions: []int64{1, 12, 22}, WorkingHours: []string{"11:35-14:05"}},
//	})
//	var rejected *RejectedIDsError
//	if errors.As(err, &rejected) {
//	    // rejected.IDs lists the malformed items
//	}
type CreateCouriersCommand struct {
	couriers []*courier.Courier

	guard guard.ConstructorGuard
}

// NewCreateCouriersCommand builds the couriers of the batch.
//
// Returns:
//   - CreateCouriersCommand: the command
//   - error: *RejectedIDsError wrapping errs.ErrValueIsInvalid that lists every item
//     that is malformed or repeats an id of an earlier item
func NewCreateCouriersCommand(items []CourierItem) (CreateCouriersCommand, error) {
	couriers := make([]*courier.Courier, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	var invalid []int64

	for _, item := range items {
		c, err := newCourierFromItem(item)
		if _, repeated := seen[item.ID]; err != nil || repeated {
			invalid = append(invalid, item.ID)
			continue
		}
		seen[item.ID] = struct{}{}
		couriers = append(couriers, c)
	}

	if len(invalid) > 0 {
		return CreateCouriersCommand{}, NewInvalidItemsError("couriers", invalid)
	}

	return CreateCouriersCommand{
		couriers: couriers,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCouriersCommand) Validate() error {
	return c.guard.Validate(ErrCreateCouriersCommandIsNotConstructed)
}

// Couriers returns the couriers to store, in request order.
func (c CreateCouriersCommand) Couriers() []*courier.Courier {
	return slices.Clone(c.couriers)
}

// IDs returns the ids of the batch in request order.
func (c CreateCouriersCommand) IDs() []int64 {
	ids := make([]int64, 0, len(c.couriers))
	for _, item := range c.couriers {
		ids = append(ids, item.ID())
	}
	return ids
}

func newCourierFromItem(item CourierItem) (*courier.Courier, error) {
	courierType, typeErr := courier.ParseType(item.Type)
	hours, hoursErr := kernel.ParseTimeIntervals(item.WorkingHours)
	if err := errors.Join(typeErr, hoursErr); err != nil {
		return nil, err
	}
	return courier.NewCourier(item.ID, courierType, item.Regions, hours)
}
