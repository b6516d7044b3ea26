// Package kernel provides the value objects shared by the courier and order aggregates.
//
// The package includes:
//   - TimeInterval: a closed range of minutes on a 24-hour clock, parsed from "HH:MM-HH:MM"
//   - weight helpers: rounding to two decimals and the accepted order weight range
//   - DomainEvent: the contract for events recorded by aggregates and relayed through the outbox
//
// Values are immutable and safe for concurrent use.
package kernel
