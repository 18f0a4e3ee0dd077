// Package order provides the Order aggregate root and the state machine that
// governs its lifecycle from placement through payment confirmation,
// preparation, rider pickup, and delivery or cancellation.
//
// The package includes:
//   - Order: The aggregate root holding identity, money snapshot, and lifecycle state
//   - Status: The order lifecycle states, two of which are terminal
//   - Role: The actor roles allowed to request transitions
//   - The authoritative transition table mapping (from, to, role) to legality
//   - Address and Item: snapshots captured at order time, never live references
//
// Key business rules:
//   - Status only changes through transitions present in the transition table
//   - Delivered and Cancelled are absorbing: no transition leaves them
//   - Customer cancellation rights end once preparation starts
//   - The pickup edge is claimed by exactly one rider; the claim outcome is
//     encoded in the order's riderID and status together
//   - total = subtotal + delivery fee + tip, fixed at creation forever
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
