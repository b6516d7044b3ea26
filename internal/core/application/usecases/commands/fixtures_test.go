package commands_test

import (
	"testing"

	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func intervals(t *testing.T, values ...string) []kernel.TimeInterval {
	t.Helper()
	parsed, err := kernel.ParseTimeIntervals(values)
	require.NoError(t, err)
	return parsed
}

func restoreCourier(
	t *testing.T,
	id int64,
	courierType courier.Type,
	regions []int64,
	weight float64,
	hours ...string,
) *courier.Courier {
	t.Helper()
	c, err := courier.RestoreCourier(id, courierType, regions, intervals(t, hours...), weight)
	require.NoError(t, err)
	return c
}

func restoreOrder(t *testing.T, id int64, weight float64, region int64, taken bool, hours ...string) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(id, weight, region, intervals(t, hours...), taken)
	require.NoError(t, err)
	return o
}
