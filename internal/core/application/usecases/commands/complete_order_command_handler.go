package commands

import (
	"context"

	"courierdispatch/internal/core/ports"
)

// CompleteOrderCommandHandler closes an open assignment and releases the order's
// weight from the courier. The order stays taken, so it is never offered again.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
	cache      ports.CourierProfileCache
	retry      TxRetryPolicy
}

// NewCompleteOrderCommandHandler creates a handler for order completion. cache may be nil.
func NewCompleteOrderCommandHandler(
	uowFactory UoWFactory,
	cache ports.CourierProfileCache,
	retry TxRetryPolicy,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		retry:      retry,
	}
}

// Handle completes the order.
// Returns errs.ErrObjectNotFound when the courier is unknown or holds no open
// assignment of the order.
func (h CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.retry.Run(ctx, func(ctx context.Context) error {
		return h.handle(ctx, cmd)
	}); err != nil {
		return err
	}

	invalidateProfile(ctx, h.cache, cmd.CourierID())
	return nil
}

func (h CompleteOrderCommandHandler) handle(ctx context.Context, cmd CompleteOrderCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()
	assignmentRepo := uow.AssignmentRepository()

	c, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	a, err := assignmentRepo.GetOpen(ctx, cmd.CourierID(), cmd.OrderID())
	if err != nil {
		return err
	}

	previous, err := assignmentRepo.LatestCompletionTime(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = a.Complete(cmd.CompleteTime(), previous); err != nil {
		return err
	}

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	c.ReleaseOrder(o)
	c.RecordOrderCompleted(o.ID(), cmd.CompleteTime(), a.DeliveryTime())

	if err = assignmentRepo.Complete(ctx, a); err != nil {
		return err
	}

	if err = courierRepo.SetWeight(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
