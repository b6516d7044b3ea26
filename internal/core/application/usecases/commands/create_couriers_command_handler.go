package commands

import (
	"context"
	"errors"

	"courierdispatch/internal/pkg/errs"
)

// CreateCouriersCommandHandler stores a batch of couriers in one transaction.
type CreateCouriersCommandHandler struct {
	uowFactory CourierUoWFactory
	retry      TxRetryPolicy
}

// NewCreateCouriersCommandHandler creates a handler for courier imports.
func NewCreateCouriersCommandHandler(uowFactory CourierUoWFactory, retry TxRetryPolicy) CreateCouriersCommandHandler {
	return CreateCouriersCommandHandler{
		uowFactory: uowFactory,
		retry:      retry,
	}
}

// Handle stores every courier of the batch.
// Returns *RejectedIDsError wrapping errs.ErrObjectAlreadyExists, listing the ids that
// are already stored, when any courier of the batch exists; nothing is stored then.
func (h CreateCouriersCommandHandler) Handle(ctx context.Context, cmd CreateCouriersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.retry.Run(ctx, func(ctx context.Context) error {
		return h.handle(ctx, cmd)
	})
}

func (h CreateCouriersCommandHandler) handle(ctx context.Context, cmd CreateCouriersCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()

	existing, err := courierRepo.ExistingIDs(ctx, cmd.IDs())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return NewDuplicateIDsError("couriers", existing)
	}

	for _, c := range cmd.Couriers() {
		if err = courierRepo.Add(ctx, c); err != nil {
			if errors.Is(err, errs.ErrObjectAlreadyExists) {
				return NewDuplicateIDsError("couriers", []int64{c.ID()})
			}
			return err
		}
	}

	return uow.Commit(ctx)
}
