// Package courier provides the Courier aggregate root: a courier's transport type,
// served regions, working hours and the weight of the orders it currently carries.
//
// Key business rules:
//   - Courier type fixes carrying capacity (foot 10, bike 15, car 50) and the
//     earnings coefficient (foot 2, bike 3, car 9)
//   - Regions are positive integers; working hours are a non-empty set of intervals
//   - Current weight is never assigned directly: it changes only through TakeOrder,
//     ReleaseOrder and RecomputeWeight, which keep it equal to the sum of open orders
//   - Patches replace regions and working hours wholesale and report what changed,
//     so the caller can run re-validation for exactly those aspects
//
// The aggregate records domain events (OrdersAssigned, OrderCompleted,
// OrdersUnassigned) which the unit of work writes to the outbox on commit.
package courier
