package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Role identifies the kind of actor requesting a transition. Identity and
// authentication are resolved upstream; the domain only sees (actor id, role)
// pairs and gates transitions on them.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer placed the order. May cancel only while the order is Pending.
	RoleCustomer

	// RoleRestaurant prepares the order. Accepts, rejects, and marks ready.
	RoleRestaurant

	// RoleRider delivers the order. Claims ready orders and marks them delivered.
	RoleRider

	// RoleAdmin may drive any restaurant edge and cancel from any
	// non-terminal status as an override.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "UNKNOWN",
		RoleCustomer:   "CUSTOMER",
		RoleRestaurant: "RESTAURANT",
		RoleRider:      "RIDER",
		RoleAdmin:      "ADMIN",
	}
}

func getValidRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleCustomer:   "CUSTOMER",
		RoleRestaurant: "RESTAURANT",
		RoleRider:      "RIDER",
		RoleAdmin:      "ADMIN",
	}
}

// RoleFromString parses the wire representation of a role (e.g. "RIDER").
func RoleFromString(s string) (Role, error) {
	for role, str := range getValidRoleStrings() {
		if str == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause(
		"role",
		fmt.Errorf("%q is not a valid role", s),
	)
}

// Validate checks if the Role value is one of the defined actor roles.
func (r Role) Validate() error {
	if _, ok := getValidRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"role",
			fmt.Errorf("%d is not a valid role", r),
		)
	}
	return nil
}

// String returns the wire representation of the role, e.g. "RESTAURANT".
func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}
