// Package order provides the Order aggregate: a parcel with a weight, a delivery
// region and the time windows in which the customer accepts it.
//
// Key business rules:
//   - Weight is within [0.01, 50] kilograms and stored rounded to two decimals
//   - Region is a positive integer
//   - At least one delivery window is required; windows never change after creation
//   - The taken flag is set while an open assignment holds the order and stays set once
//     the order is delivered, so a delivered order is never offered again
package order
