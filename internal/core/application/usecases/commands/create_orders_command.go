package commands

import (
	"errors"
	"slices"

	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/domain/model/order"
	"courierdispatch/internal/pkg/guard"
)

var ErrCreateOrdersCommandIsNotConstructed = errors.New(
	"CreateOrdersCommand must be created via NewCreateOrdersCommand constructor",
)

// OrderItem is one order of a bulk import, as received from the client.
type OrderItem struct {
	ID            int64
	Weight        float64
	Region        int64
	DeliveryHours []string
}

// CreateOrdersCommand imports a batch of orders. The batch is stored completely or
// not at all.
type CreateOrdersCommand struct {
	orders []*order.Order

	guard guard.ConstructorGuard
}

// NewCreateOrdersCommand builds the orders of the batch. Weights are rounded to two
// decimals.
//
// Returns:
//   - CreateOrdersCommand: the command
//   - error: *RejectedIDsError wrapping errs.ErrValueIsInvalid that lists every item
//     that is malformed or repeats an id of an earlier item
func NewCreateOrdersCommand(items []OrderItem) (CreateOrdersCommand, error) {
	orders := make([]*order.Order, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	var invalid []int64

	for _, item := range items {
		o, err := newOrderFromItem(item)
		if _, repeated := seen[item.ID]; err != nil || repeated {
			invalid = append(invalid, item.ID)
			continue
		}
		seen[item.ID] = struct{}{}
		orders = append(orders, o)
	}

	if len(invalid) > 0 {
		return CreateOrdersCommand{}, NewInvalidItemsError("orders", invalid)
	}

	return CreateOrdersCommand{
		orders: orders,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrdersCommandIsNotConstructed)
}

// Orders returns the orders to store, in request order.
func (c CreateOrdersCommand) Orders() []*order.Order {
	return slices.Clone(c.orders)
}

// IDs returns the ids of the batch in request order.
func (c CreateOrdersCommand) IDs() []int64 {
	ids := make([]int64, 0, len(c.orders))
	for _, o := range c.orders {
		ids = append(ids, o.ID())
	}
	return ids
}

func newOrderFromItem(item OrderItem) (*order.Order, error) {
	hours, err := kernel.ParseTimeIntervals(item.DeliveryHours)
	if err != nil {
		return nil, err
	}
	return order.NewOrder(item.ID, item.Weight, item.Region, hours)
}
