package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition indicates the requested edge does not exist from
	// the order's current status, for any role. The wrapped message reports
	// the current status so callers can resynchronize.
	ErrInvalidTransition = errors.New("transition is not allowed from the current status")

	// ErrUnauthorized indicates the edge exists but the acting role may not
	// drive it. Kept distinct from ErrInvalidTransition so clients can tell
	// "wrong state" from "wrong permission".
	ErrUnauthorized = errors.New("actor is not authorized for this transition")

	// ErrTerminalState indicates a transition was attempted from Delivered or
	// Cancelled, which absorb all further transitions.
	ErrTerminalState = errors.New("order is in a terminal status")
)

// TransitionRule is one legal edge of the lifecycle graph: role may move an
// order from From to To.
type TransitionRule struct {
	From Status
	To   Status
	Role Role
}

// transitionRules is the authoritative transition table. Every status change
// in the system must match one of these rules; no other code path decides
// legality. The rider claim additionally runs through the claim coordinator,
// but its edge is still listed here.
func transitionRules() []TransitionRule {
	return []TransitionRule{
		// Restaurant accepts the order and starts cooking.
		{From: Pending, To: Preparing, Role: RoleRestaurant},
		{From: Pending, To: Preparing, Role: RoleAdmin},

		// A pending order can still be walked away from by either side.
		{From: Pending, To: Cancelled, Role: RoleRestaurant},
		{From: Pending, To: Cancelled, Role: RoleCustomer},
		{From: Pending, To: Cancelled, Role: RoleAdmin},

		// Restaurant finishes preparation.
		{From: Preparing, To: ReadyForPickup, Role: RoleRestaurant},
		{From: Preparing, To: ReadyForPickup, Role: RoleAdmin},

		// Customer cancellation rights end once preparation starts; the
		// restaurant's effort already spent is protected.
		{From: Preparing, To: Cancelled, Role: RoleRestaurant},
		{From: Preparing, To: Cancelled, Role: RoleAdmin},

		// Exactly one rider wins this edge, through the claim coordinator.
		{From: ReadyForPickup, To: PickedUp, Role: RoleRider},

		// Only the assigned rider (checked by the aggregate) or an admin.
		{From: PickedUp, To: Delivered, Role: RoleRider},
		{From: PickedUp, To: Delivered, Role: RoleAdmin},

		// Admin override: cancel from any non-terminal status.
		{From: ReadyForPickup, To: Cancelled, Role: RoleAdmin},
		{From: PickedUp, To: Cancelled, Role: RoleAdmin},
	}
}

func getRuleSet() map[TransitionRule]struct{} {
	rules := transitionRules()
	set := make(map[TransitionRule]struct{}, len(rules))
	for _, rule := range rules {
		set[rule] = struct{}{}
	}
	return set
}

// Transitions returns a copy of the full transition table, useful for
// documentation and exhaustive tests.
func Transitions() []TransitionRule {
	return transitionRules()
}

// NextStatuses returns the statuses reachable from the given status by any
// role, used in error reporting.
func NextStatuses(from Status) []Status {
	var next []Status
	seen := make(map[Status]bool)
	for _, rule := range transitionRules() {
		if rule.From == from && !seen[rule.To] {
			next = append(next, rule.To)
			seen[rule.To] = true
		}
	}
	return next
}

// CanTransition decides whether role may move an order from one status to
// another. It distinguishes three failures:
//   - ErrTerminalState: from is Delivered or Cancelled
//   - ErrInvalidTransition: the edge does not exist for any role
//   - ErrUnauthorized: the edge exists but not for this role
//
// A nil return means the triple is present in the transition table.
func CanTransition(from, to Status, role Role) error {
	if err := from.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}

	if from.IsTerminal() {
		return fmt.Errorf("%w: current status is %s", ErrTerminalState, from)
	}

	ruleSet := getRuleSet()
	if _, ok := ruleSet[TransitionRule{From: from, To: to, Role: role}]; ok {
		return nil
	}

	for r := range getValidRoleStrings() {
		if _, ok := ruleSet[TransitionRule{From: from, To: to, Role: r}]; ok {
			return fmt.Errorf("%w: %s may not move an order from %s to %s",
				ErrUnauthorized, role, from, to)
		}
	}

	return fmt.Errorf("%w: current status is %s, reachable statuses are %v",
		ErrInvalidTransition, from, NextStatuses(from))
}
