package commands_test

import (
	"errors"
	"testing"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/order"
	"courierdispatch/internal/core/ports"
	"courierdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAssignOrdersCommand(t *testing.T) {
	cmd, err := commands.NewAssignOrdersCommand(2)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, int64(2), cmd.CourierID())

	_, err = commands.NewAssignOrdersCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	var empty commands.AssignOrdersCommand
	require.ErrorIs(t, empty.Validate(), commands.ErrAssignOrdersCommandIsNotConstructed)
}

func TestAssignOrdersCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignOrdersCommand(1)
	require.NoError(t, err)

	c := restoreCourier(t, 1, courier.Foot, []int64{7}, 0, "12:00-20:00")
	onTime := restoreOrder(t, 4, 3, 7, false, "11:00-13:00")
	late := restoreOrder(t, 5, 3, 7, false, "21:00-21:30")

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
		orderRepo.On("ListAvailable", ctx, []int64{7}, 10.0).Return([]*order.Order{onTime, late}, nil).Once(),
		assignmentRepo.On("Add", ctx, mock.AnythingOfType("*assignment.Assignment")).Return(nil).Once(),
		orderRepo.On("SetTaken", ctx, onTime).Return(nil).Once(),
		courierRepo.On("SetWeight", ctx, c).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
		cache.On("Invalidate", ctx, int64(1)).Return(nil).Once(),
	)

	handler := commands.NewAssignOrdersCommandHandler(factory, cache, noRetry)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []int64{4}, result.OrderIDs)
	require.NotNil(t, result.AssignTime)
	assert.InDelta(t, 3, c.CurrentWeight(), 0)
	assert.True(t, onTime.IsTaken())
	assert.False(t, late.IsTaken())
	require.Len(t, c.DomainEvents(), 1)
	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	assignmentRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_NothingAvailable(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignOrdersCommand(1)
	require.NoError(t, err)

	c := restoreCourier(t, 1, courier.Bike, []int64{1, 2}, 5, "09:00-18:00")

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
		orderRepo.On("ListAvailable", ctx, []int64{1, 2}, 10.0).Return([]*order.Order{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAssignOrdersCommandHandler(factory, cache, noRetry)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, result.OrderIDs)
	assert.Nil(t, result.AssignTime)
	assert.InDelta(t, 5, c.CurrentWeight(), 0)
	courierRepo.AssertNotCalled(t, "SetWeight", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_CourierNotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignOrdersCommand(3)
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		uow.On("OrderRepository").Return(new(MockOrderRepository)).Once(),
		uow.On("AssignmentRepository").Return(new(MockAssignmentRepository)).Once(),
		courierRepo.On("GetForUpdate", ctx, int64(3)).Return(nil, errs.NewObjectNotFoundError("courier", 3)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAssignOrdersCommandHandler(factory, nil, noRetry)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_RetriesConflicts(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignOrdersCommand(1)
	require.NoError(t, err)

	c := restoreCourier(t, 1, courier.Car, []int64{1}, 0, "09:00-18:00")

	courierRepo := new(MockCourierRepository)
	orderRepo := new(MockOrderRepository)
	assignmentRepo := new(MockAssignmentRepository)
	first := new(MockUoW)
	second := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(first).Once(),
		first.On("Begin", ctx).Return(nil).Once(),
		first.On("CourierRepository").Return(courierRepo).Once(),
		first.On("OrderRepository").Return(orderRepo).Once(),
		first.On("AssignmentRepository").Return(assignmentRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, int64(1)).Return(nil, ports.ErrTransactionConflict).Once(),
		first.On("Rollback", ctx).Return(nil).Once(),
		factory.On("Create").Return(second).Once(),
		second.On("Begin", ctx).Return(nil).Once(),
		second.On("CourierRepository").Return(courierRepo).Once(),
		second.On("OrderRepository").Return(orderRepo).Once(),
		second.On("AssignmentRepository").Return(assignmentRepo).Once(),
		courierRepo.On("GetForUpdate", ctx, int64(1)).Return(c, nil).Once(),
		orderRepo.On("ListAvailable", ctx, []int64{1}, 50.0).Return([]*order.Order{}, nil).Once(),
		second.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAssignOrdersCommandHandler(factory, nil, fastRetry)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, result.OrderIDs)
	factory.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_RetriesExhausted(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignOrdersCommand(1)
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	factory.On("Create").Return(uow).Times(3)
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("CourierRepository").Return(courierRepo).Times(3)
	uow.On("OrderRepository").Return(new(MockOrderRepository)).Times(3)
	uow.On("AssignmentRepository").Return(new(MockAssignmentRepository)).Times(3)
	courierRepo.On("GetForUpdate", ctx, int64(1)).Return(nil, ports.ErrTransactionConflict).Times(3)
	uow.On("Rollback", ctx).Return(nil).Times(3)

	handler := commands.NewAssignOrdersCommandHandler(factory, nil, fastRetry)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrTransactionConflict)
	factory.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewAssignOrdersCommand(1)
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewAssignOrdersCommandHandler(factory, nil, noRetry)
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}
