// Package services provides domain services that implement business logic
// spanning multiple aggregates.
//
// The package includes:
//   - PayoutPolicy: externally configured rules for deriving rider earnings
//   - PayoutCalculator: the pure computation of an Earning from a delivered order
//
// Domain services hold no mutable state; the calculator is a deterministic
// function of the order's money snapshot and the configured policy.
package services
