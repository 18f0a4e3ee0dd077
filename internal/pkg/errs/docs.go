// Package errs provides standardized error types shared across the order
// lifecycle service.
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired) usable with errors.Is
//   - A struct type carrying error details
//   - Constructor functions with and without an underlying cause
//   - Error() for formatting and Unwrap() for classification
//
// Domain outcome errors (invalid transition, unauthorized actor, claim
// contention, terminal state) live next to the aggregates that raise them; the
// types here cover cross-cutting validation and lookup failures.
package errs
