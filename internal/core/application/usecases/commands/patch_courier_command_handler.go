package commands

import (
	"context"
	"time"

	"courierdispatch/internal/core/domain/model/assignment"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/domain/services"
	"courierdispatch/internal/core/ports"
)

// CourierView is the stored state of a courier returned by write operations.
type CourierView struct {
	ID           int64
	Type         string
	Regions      []int64
	WorkingHours []string
}

func newCourierView(c *courier.Courier) CourierView {
	return CourierView{
		ID:           c.ID(),
		Type:         c.Type().String(),
		Regions:      c.Regions(),
		WorkingHours: kernel.FormatTimeIntervals(c.WorkingHours()),
	}
}

// PatchCourierCommandHandler applies a patch and drops the assignments the courier
// can no longer serve, all under the courier's row lock.
//
// Example:
//
//	handler := NewPatchCourierCommandHandler(uowFactory, cache, DefaultTxRetryPolicy)
//	view, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // unknown courier
//	}
type PatchCourierCommandHandler struct {
	uowFactory  UoWFactory
	cache       ports.CourierProfileCache
	revalidator services.AssignmentRevalidator
	retry       TxRetryPolicy
}

// NewPatchCourierCommandHandler creates a handler for courier patches. cache may be nil.
func NewPatchCourierCommandHandler(
	uowFactory UoWFactory,
	cache ports.CourierProfileCache,
	retry TxRetryPolicy,
) PatchCourierCommandHandler {
	return PatchCourierCommandHandler{
		uowFactory:  uowFactory,
		cache:       cache,
		revalidator: services.NewAssignmentRevalidator(),
		retry:       retry,
	}
}

// Handle patches the courier and returns its new state.
// Returns errs.ErrObjectNotFound for an unknown courier.
func (h PatchCourierCommandHandler) Handle(ctx context.Context, cmd PatchCourierCommand) (CourierView, error) {
	if err := cmd.Validate(); err != nil {
		return CourierView{}, err
	}

	var view CourierView
	err := h.retry.Run(ctx, func(ctx context.Context) error {
		var err error
		view, err = h.handle(ctx, cmd)
		return err
	})
	if err != nil {
		return CourierView{}, err
	}

	invalidateProfile(ctx, h.cache, cmd.CourierID())
	return view, nil
}

func (h PatchCourierCommandHandler) handle(ctx context.Context, cmd PatchCourierCommand) (CourierView, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CourierView{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	orderRepo := uow.OrderRepository()
	assignmentRepo := uow.AssignmentRepository()

	c, err := courierRepo.GetForUpdate(ctx, cmd.CourierID())
	if err != nil {
		return CourierView{}, err
	}

	changes, err := c.ApplyPatch(cmd.Patch())
	if err != nil {
		return CourierView{}, err
	}

	if changes.Type {
		if err = courierRepo.ChangeType(ctx, c); err != nil {
			return CourierView{}, err
		}
	}
	if changes.Regions {
		if err = courierRepo.ReplaceRegions(ctx, c); err != nil {
			return CourierView{}, err
		}
	}
	if changes.WorkingHours {
		if err = courierRepo.ReplaceWorkingHours(ctx, c); err != nil {
			return CourierView{}, err
		}
	}

	open, err := assignmentRepo.ListOpen(ctx, c.ID())
	if err != nil {
		return CourierView{}, err
	}

	if len(open) > 0 {
		openOrders, err := orderRepo.GetMany(ctx, orderIDsOf(open))
		if err != nil {
			return CourierView{}, err
		}

		evicted, err := h.revalidator.Revalidate(c, openOrders, changes, time.Now().UTC())
		if err != nil {
			return CourierView{}, err
		}

		if len(evicted) > 0 {
			evictedIDs := make([]int64, 0, len(evicted))
			for _, o := range evicted {
				evictedIDs = append(evictedIDs, o.ID())
			}
			if err = assignmentRepo.Delete(ctx, c.ID(), evictedIDs); err != nil {
				return CourierView{}, err
			}
			for _, o := range evicted {
				if err = orderRepo.SetTaken(ctx, o); err != nil {
					return CourierView{}, err
				}
			}
		}

		if err = courierRepo.SetWeight(ctx, c); err != nil {
			return CourierView{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return CourierView{}, err
	}

	return newCourierView(c), nil
}

func orderIDsOf(assignments []*assignment.Assignment) []int64 {
	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		ids = append(ids, a.OrderID())
	}
	return ids
}
