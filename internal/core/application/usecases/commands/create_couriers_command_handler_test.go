package commands_test

import (
	"errors"
	"testing"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/ports"
	"courierdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateCouriersCommand(t *testing.T) commands.CreateCouriersCommand {
	t.Helper()
	cmd, err := commands.NewCreateCouriersCommand([]commands.CourierItem{
		{ID: 1, Type: "foot", Regions: []int64{1, 12, 22}, WorkingHours: []string{"11:35-14:05", "09:00-11:00"}},
		{ID: 2, Type: "bike", Regions: []int64{22}, WorkingHours: []string{"09:00-18:00"}},
	})
	require.NoError(t, err)
	return cmd
}

func TestCreateCouriersCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCouriersCommand(t)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	factory := new(MockCourierUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("ExistingIDs", ctx, []int64{1, 2}).Return([]int64{}, nil).Once(),
		courierRepo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Twice(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateCouriersCommandHandler(factory, noRetry)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	courierRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateCouriersCommandHandler_Handle_ExistingIDs(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCouriersCommand(t)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	factory := new(MockCourierUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("ExistingIDs", ctx, []int64{1, 2}).Return([]int64{2}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateCouriersCommandHandler(factory, noRetry)
	err := handler.Handle(ctx, cmd)

	var rejected *commands.RejectedIDsError
	require.ErrorAs(t, err, &rejected)
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	assert.Equal(t, []int64{2}, rejected.IDs)
	courierRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestCreateCouriersCommandHandler_Handle_UniqueViolationOnAdd(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCouriersCommand(t)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)
	factory := new(MockCourierUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("ExistingIDs", ctx, []int64{1, 2}).Return([]int64{}, nil).Once(),
		courierRepo.On("Add", ctx, mock.Anything).Return(errs.NewObjectAlreadyExistsError("courier", 1)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateCouriersCommandHandler(factory, noRetry)
	err := handler.Handle(ctx, cmd)

	var rejected *commands.RejectedIDsError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, []int64{1}, rejected.IDs)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestCreateCouriersCommandHandler_Handle_RetriesConflicts(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCouriersCommand(t)

	courierRepo := new(MockCourierRepository)
	first := new(MockUoW)
	second := new(MockUoW)
	factory := new(MockCourierUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(first).Once(),
		first.On("Begin", ctx).Return(nil).Once(),
		first.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("ExistingIDs", ctx, []int64{1, 2}).Return(nil, ports.ErrTransactionConflict).Once(),
		first.On("Rollback", ctx).Return(nil).Once(),
		factory.On("Create").Return(second).Once(),
		second.On("Begin", ctx).Return(nil).Once(),
		second.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("ExistingIDs", ctx, []int64{1, 2}).Return([]int64{}, nil).Once(),
		courierRepo.On("Add", ctx, mock.Anything).Return(nil).Twice(),
		second.On("Commit", ctx).Return(nil).Once(),
		second.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateCouriersCommandHandler(factory, fastRetry)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	factory.AssertExpectations(t)
	first.AssertExpectations(t)
	second.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
}

func TestCreateCouriersCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCouriersCommand(t)

	uow := new(MockUoW)
	factory := new(MockCourierUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewCreateCouriersCommandHandler(factory, noRetry)
	err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}

func TestCreateCouriersCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockCourierUoWFactory)

	handler := commands.NewCreateCouriersCommandHandler(factory, noRetry)
	err := handler.Handle(ctx, commands.CreateCouriersCommand{})

	require.ErrorIs(t, err, commands.ErrCreateCouriersCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
