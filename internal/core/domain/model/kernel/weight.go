package kernel

import "math"

const (
	// MinOrderWeight is the lightest accepted order, in kilograms.
	MinOrderWeight = 0.01

	// MaxOrderWeight is the heaviest accepted order, in kilograms.
	MaxOrderWeight = 50.0
)

// RoundWeight rounds a weight to two decimals. Every stored weight and every
// running total goes through it so that sums of two-decimal values compare exactly.
func RoundWeight(w float64) float64 {
	return math.Round(w*100) / 100
}
