package commands_test

import (
	"testing"
	"time"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/domain/model/assignment"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/order"
	"courierdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var assignedAt = time.Date(2021, 1, 10, 9, 32, 14, 420000000, time.UTC)

func openAssignment(t *testing.T, courierID, orderID int64) *assignment.Assignment {
	t.Helper()
	a, err := assignment.NewAssignment(courierID, orderID, assignedAt)
	require.NoError(t, err)
	return a
}

func TestPatchCourierCommandHandler_Handle_DropsForeignRegions(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPatchCourierCommand(1, nil, []int64{1}, nil)
	require.NoError(t, err)

	c := restoreCourier(t, 1, courier.Car, []int64{1, 2}, 7, "09:00-18:00")
	kept := restoreOrder(t, 1, 3, 1, true, "10:00-11:00")
	dropped := restoreOrder(t, 2, 4, 2, true, "10:00-11:00")
	open := []*assignment.Assignment{openAssignment(t, 1, 1), openAssignment(t, 1, 2)}

	courierRepo := new(MockCourierRepository)
	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	cache := new(MockProfileCache)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, int64(1)).Return(c, nil).Once(),
		courierRepo.On("ReplaceRegions", ctx, c).Return(nil).Once(),
		assignmentRepo.On("ListOpen", ctx, int64(1)).Return(open, nil).Once(),
		orderRepo.On("GetMany", ctx, []int64{1, 2}).Return([]*order.Order{kept, dropped}, nil).Once(),
		assignmentRepo.On("Delete", ctx, int64(1), []int64{2}).Return(nil).Once(),
		orderRepo.On("SetTaken", ctx, dropped).Return(nil).Once(),
		courierRepo.On("SetWeight", ctx, c).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		cache.On("Invalidate", ctx, int64(1)).Return(nil).Once(),
	)

	handler := commands.NewPatchCourierCommandHandler(factory, cache, noRetry)
	view, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, commands.CourierView{
		ID:           1,
		Type:         "car",
		Regions:      []int64{1},
		WorkingHours: []string{"09:00-18:00"},
	}, view)
	assert.InDelta(t, 3, c.CurrentWeight(), 0)
	assert.True(t, kept.IsTaken())
	assert.False(t, dropped.IsTaken())
	courierRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPatchCourierCommandHandler_Handle_TypeChangeWithoutOpenOrders(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPatchCourierCommand(1, ptrTo("foot"), nil, []string{"10:00-12:00"})
	require.NoError(t, err)

	c := restoreCourier(t, 1, courier.Car, []int64{1}, 0, "09:00-18:00")

	courierRepo := new(MockCourierRepository)
	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("AssignmentRepository").Return(assignmentRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, int64(1)).Return(c, nil).Once(),
		courierRepo.On("ChangeType", ctx, c).Return(nil).Once(),
		courierRepo.On("ReplaceWorkingHours", ctx, c).Return(nil).Once(),
		assignmentRepo.On("ListOpen", ctx, int64(1)).Return([]*assignment.Assignment{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewPatchCourierCommandHandler(factory, nil, noRetry)
	view, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "foot", view.Type)
	assert.Equal(t, []string{"10:00-12:00"}, view.WorkingHours)
	orderRepo.AssertNotCalled(t, "GetMany", mock.Anything, mock.Anything)
	courierRepo.AssertNotCalled(t, "SetWeight", mock.Anything, mock.Anything)
	courierRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPatchCourierCommandHandler_Handle_CourierNotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPatchCourierCommand(9, ptrTo("bike"), nil, nil)
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	cache := new(MockProfileCache)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(new(MockOrderRepository)).Once(),
		uow.On("AssignmentRepository").Return(new(MockAssignmentRepository)).Once(),
		courierRepo.On("GetForUpdate", ctx, int64(9)).Return(nil, errs.NewObjectNotFoundError("courier", 9)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewPatchCourierCommandHandler(factory, cache, noRetry)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestPatchCourierCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)

	handler := commands.NewPatchCourierCommandHandler(factory, nil, noRetry)
	_, err := handler.Handle(t.Context(), commands.PatchCourierCommand{})

	require.ErrorIs(t, err, commands.ErrPatchCourierCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
