package commands

import (
	"context"
	"time"

	"courierdispatch/internal/core/domain/services"
	"courierdispatch/internal/core/ports"
)

// AssignOrdersResult lists the orders handed out by one assign call. AssignTime is
// nil when nothing was assigned.
type AssignOrdersResult struct {
	OrderIDs   []int64
	AssignTime *time.Time
}

// AssignOrdersCommandHandler runs the greedy assignment for a courier.
//
// The courier row is locked first; candidate orders are read with rows locked and
// rows locked by concurrent assignments skipped, so two couriers never receive the
// same order.
type AssignOrdersCommandHandler struct {
	uowFactory UoWFactory
	cache      ports.CourierProfileCache
	dispatcher services.OrderDispatcher
	retry      TxRetryPolicy
}

// NewAssignOrdersCommandHandler creates a handler for order assignment. cache may be nil.
func NewAssignOrdersCommandHandler(
	uowFactory UoWFactory,
	cache ports.CourierProfileCache,
	retry TxRetryPolicy,
) AssignOrdersCommandHandler {
	return AssignOrdersCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		dispatcher: services.NewOrderDispatcher(),
		retry:      retry,
	}
}

// Handle assigns orders and returns their ids.
// Returns errs.ErrObjectNotFound for an unknown courier.
func (h AssignOrdersCommandHandler) Handle(ctx context.Context, cmd AssignOrdersCommand) (AssignOrdersResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignOrdersResult{}, err
	}

	var result AssignOrdersResult
	err := h.retry.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = h.handle(ctx, cmd)
		return err
	})
	if err != nil {
		return AssignOrdersResult{}, err
	}

	if len(result.OrderIDs) > 0 {
		invalidateProfile(ctx, h.cache, cmd.CourierID())
	}
	return result, nil
}

func (h AssignOrdersCommandHandler) handle(ctx context.Context, cmd AssignOrdersCommand) (AssignOrdersResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()
	assignmentRepo := uow.AssignmentRepository()

	c, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	pool, err := orderRepo.ListAvailable(ctx, c.Regions(), c.RemainingCapacity())
	if err != nil {
		return AssignOrdersResult{}, err
	}

	assignTime := time.Now().UTC()
	assignments, err := h.dispatcher.Dispatch(c, pool, assignTime)
	if err != nil {
		return AssignOrdersResult{}, err
	}

	result := AssignOrdersResult{OrderIDs: make([]int64, 0, len(assignments))}
	if len(assignments) == 0 {
		return result, nil
	}

	taken := make(map[int64]struct{}, len(assignments))
	for _, a := range assignments {
		if err = assignmentRepo.Add(ctx, a); err != nil {
			return AssignOrdersResult{}, err
		}
		taken[a.OrderID()] = struct{}{}
		result.OrderIDs = append(result.OrderIDs, a.OrderID())
	}

	for _, o := range pool {
		if _, ok := taken[o.ID()]; !ok {
			continue
		}
		if err = orderRepo.SetTaken(ctx, o); err != nil {
			return AssignOrdersResult{}, err
		}
	}

	if err = courierRepo.SetWeight(ctx, c); err != nil {
		return AssignOrdersResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignOrdersResult{}, err
	}

	result.AssignTime = &assignTime
	return result, nil
}
