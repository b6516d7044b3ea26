package commands_test

import (
	"testing"

	"courierdispatch/internal/core/application/usecases/commands"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatchCourierCommand(t *testing.T) {
	bike := "bike"

	t.Run("all_fields", func(t *testing.T) {
		cmd, err := commands.NewPatchCourierCommand(2, &bike, []int64{11, 33, 2}, []string{"09:00-18:00"})

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, int64(2), cmd.CourierID())
		patch := cmd.Patch()
		require.NotNil(t, patch.Type)
		assert.Equal(t, courier.Bike, *patch.Type)
		assert.Equal(t, []int64{11, 33, 2}, patch.Regions)
		assert.Equal(t, []string{"09:00-18:00"}, kernel.FormatTimeIntervals(patch.WorkingHours))
		assert.Equal(t, courier.Changes{Type: true, Regions: true, WorkingHours: true}, patch.Changes())
	})

	t.Run("single_field", func(t *testing.T) {
		cmd, err := commands.NewPatchCourierCommand(2, nil, []int64{1}, nil)

		require.NoError(t, err)
		assert.Equal(t, courier.Changes{Regions: true}, cmd.Patch().Changes())
	})

	t.Run("empty_patch", func(t *testing.T) {
		_, err := commands.NewPatchCourierCommand(2, nil, nil, nil)

		require.ErrorIs(t, err, courier.ErrEmptyPatch)
	})

	tests := []struct {
		name         string
		courierType  *string
		regions      []int64
		workingHours []string
		expected     error
	}{
		{name: "unknown_type", courierType: ptrTo("ski"), expected: errs.ErrValueIsInvalid},
		{name: "empty_regions", regions: []int64{}, expected: errs.ErrValueIsRequired},
		{name: "negative_region", regions: []int64{1, -1}, expected: errs.ErrValueIsInvalid},
		{name: "empty_working_hours", workingHours: []string{}, expected: errs.ErrValueIsRequired},
		{name: "malformed_working_hours", workingHours: []string{"9:00-18:00"}, expected: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := commands.NewPatchCourierCommand(2, tt.courierType, tt.regions, tt.workingHours)

			require.ErrorIs(t, err, tt.expected)
		})
	}

	t.Run("not_constructed", func(t *testing.T) {
		var cmd commands.PatchCourierCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrPatchCourierCommandIsNotConstructed)
	})
}

func ptrTo[T any](v T) *T {
	return &v
}
