package services

import (
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

// PolicyKind identifies the configured payout formula. The formula is
// configuration loaded at process start, never a hard-coded rule.
type PolicyKind int

const (
	// PolicyUnknown represents an invalid or undefined policy.
	PolicyUnknown PolicyKind = iota

	// PolicyFeePlusTip pays the rider the order's delivery fee plus the full tip.
	PolicyFeePlusTip

	// PolicyFlat pays a fixed amount per delivery, regardless of order value.
	PolicyFlat

	// PolicyFeeShare pays a configured percentage of the delivery fee; the
	// tip is always passed through in full.
	PolicyFeeShare
)

func getPolicyKindStrings() map[PolicyKind]string {
	return map[PolicyKind]string{
		PolicyFeePlusTip: "delivery_fee_plus_tip",
		PolicyFlat:       "flat",
		PolicyFeeShare:   "fee_share",
	}
}

// PolicyKindFromString parses a configured policy name, e.g. "fee_share".
func PolicyKindFromString(s string) (PolicyKind, error) {
	for kind, str := range getPolicyKindStrings() {
		if str == s {
			return kind, nil
		}
	}
	return PolicyUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payout policy",
		fmt.Errorf("%q is not a valid policy kind", s),
	)
}

// String returns the configuration name of the policy kind.
func (k PolicyKind) String() string {
	if str, ok := getPolicyKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

// PayoutPolicy is the externally configured rule set for deriving a rider's
// payout. It is loaded once at process start and never changes while the
// process runs, so every computation over the same order yields the same
// amount.
type PayoutPolicy struct {
	kind       PolicyKind
	flatAmount kernel.Money
	feePercent int64

	guard guard.ConstructorGuard
}

// ErrPayoutPolicyIsNotConstructed is returned when a PayoutPolicy was not
// created through one of its constructors.
var ErrPayoutPolicyIsNotConstructed = errs.NewValueIsRequiredError(
	"PayoutPolicy must be created via one of its constructors",
)

// NewFeePlusTipPolicy pays delivery fee plus full tip.
func NewFeePlusTipPolicy() PayoutPolicy {
	return PayoutPolicy{
		kind:  PolicyFeePlusTip,
		guard: guard.NewConstructorGuard(),
	}
}

// NewFlatPolicy pays a fixed amount per delivery.
func NewFlatPolicy(amount kernel.Money) (PayoutPolicy, error) {
	if err := amount.Validate(); err != nil {
		return PayoutPolicy{}, err
	}
	return PayoutPolicy{
		kind:       PolicyFlat,
		flatAmount: amount,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// NewFeeSharePolicy pays percent of the delivery fee plus the full tip.
func NewFeeSharePolicy(percent int64) (PayoutPolicy, error) {
	if percent < 0 || percent > 100 {
		return PayoutPolicy{}, errs.NewValueIsOutOfRangeError("fee percent", percent, 0, 100)
	}
	return PayoutPolicy{
		kind:       PolicyFeeShare,
		feePercent: percent,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the policy was created through a constructor.
func (p PayoutPolicy) Validate() error {
	return p.guard.Validate(ErrPayoutPolicyIsNotConstructed)
}

// Kind returns the configured policy kind.
func (p PayoutPolicy) Kind() PolicyKind {
	return p.kind
}

// Basis returns the audit label recorded on earnings produced under this
// policy, e.g. "fee_share_50".
func (p PayoutPolicy) Basis() string {
	switch p.kind {
	case PolicyFlat:
		return fmt.Sprintf("flat_%d", p.flatAmount.Cents())
	case PolicyFeeShare:
		return fmt.Sprintf("fee_share_%d", p.feePercent)
	default:
		return p.kind.String()
	}
}
