package services

import (
	"slices"

	"courierdispatch/internal/core/domain/model/kernel"
)

// RegionCompatible reports whether region is among regions.
func RegionCompatible(region int64, regions []int64) bool {
	return slices.Contains(regions, region)
}

// TimeCompatible reports whether at least one delivery window overlaps at least one
// working window. Touching endpoints do not count.
func TimeCompatible(deliveryHours, workingHours []kernel.TimeInterval) bool {
	return kernel.AnyOverlap(deliveryHours, workingHours)
}

// FitsCapacity reports whether adding orderWeight to current stays within capacity,
// comparing on the two-decimal rounded sum.
func FitsCapacity(current, orderWeight, capacity float64) bool {
	return kernel.RoundWeight(current+orderWeight) <= capacity
}
