// Package services provides domain services that coordinate couriers, orders and
// assignments in ways that do not belong to a single aggregate.
//
// The package includes:
//   - Compatibility rules shared by assignment and re-validation
//   - OrderDispatcher: greedy selection of orders for a courier
//   - AssignmentRevalidator: dropping assignments a patched courier can no longer serve
//
// Services are stateless and never touch persistence. Callers load the aggregates,
// run a service and store whatever it changed.
package services
