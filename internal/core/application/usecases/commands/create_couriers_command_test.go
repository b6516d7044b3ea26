package commands_test

import (
	"testing"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateCouriersCommand_ValidInput(t *testing.T) {
	items := []commands.CourierItem{
		{ID: 1, Type: "foot", Regions: []int64{1, 12, 22}, WorkingHours: []string{"11:35-14:05", "09:00-11:00"}},
		{ID: 2, Type: "bike", Regions: []int64{22}, WorkingHours: []string{"09:00-18:00"}},
		{ID: 3, Type: "car", Regions: []int64{12, 22, 23, 33}, WorkingHours: []string{"20:00-08:00"}},
	}

	cmd, err := commands.NewCreateCouriersCommand(items)

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, []int64{1, 2, 3}, cmd.IDs())
	couriers := cmd.Couriers()
	require.Len(t, couriers, 3)
	assert.Equal(t, courier.Bike, couriers[1].Type())
	assert.Zero(t, couriers[2].CurrentWeight())
}

func TestNewCreateCouriersCommand_EmptyBatch(t *testing.T) {
	cmd, err := commands.NewCreateCouriersCommand(nil)

	require.NoError(t, err)
	assert.Empty(t, cmd.IDs())
}

func TestNewCreateCouriersCommand_InvalidItems(t *testing.T) {
	items := []commands.CourierItem{
		{ID: 1, Type: "foot", Regions: []int64{1}, WorkingHours: []string{"11:35-14:05"}},
		{ID: -1, Type: "foot", Regions: []int64{1}, WorkingHours: []string{"11:35-14:05"}},
		{ID: 3, Type: "ski", Regions: []int64{1}, WorkingHours: []string{"11:35-14:05"}},
		{ID: 4, Type: "bike", Regions: []int64{-1}, WorkingHours: []string{"11:35-14:05"}},
		{ID: 5, Type: "car", Regions: []int64{1}, WorkingHours: []string{"123123"}},
		{ID: 6, Type: "car", Regions: nil, WorkingHours: []string{"10:00-11:00"}},
		{ID: 1, Type: "car", Regions: []int64{1}, WorkingHours: []string{"10:00-11:00"}},
	}

	_, err := commands.NewCreateCouriersCommand(items)

	var rejected *commands.RejectedIDsError
	require.ErrorAs(t, err, &rejected)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, "couriers", rejected.Entity)
	assert.Equal(t, []int64{-1, 3, 4, 5, 6, 1}, rejected.IDs)
}

func TestCreateCouriersCommand_NotConstructed(t *testing.T) {
	var cmd commands.CreateCouriersCommand

	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateCouriersCommandIsNotConstructed)
}
