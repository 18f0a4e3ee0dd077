package order_test

import (
	"testing"

	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("all lifecycle statuses are valid", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending,
			order.Preparing,
			order.ReadyForPickup,
			order.PickedUp,
			order.Delivered,
			order.Cancelled,
		} {
			require.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("unknown and out of range statuses are invalid", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
		require.Error(t, order.Status(42).Validate())
		require.Error(t, order.Status(-1).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	cases := map[order.Status]string{
		order.Unknown:        "UNKNOWN",
		order.Pending:        "PENDING",
		order.Preparing:      "PREPARING",
		order.ReadyForPickup: "READY_FOR_PICKUP",
		order.PickedUp:       "PICKED_UP",
		order.Delivered:      "DELIVERED",
		order.Cancelled:      "CANCELLED",
		order.Status(99):     "UNKNOWN",
	}

	for status, want := range cases {
		assert.Equal(t, want, status.String())
	}
}

func TestStatusFromString(t *testing.T) {
	t.Run("round trips every valid status", func(t *testing.T) {
		for _, s := range []order.Status{
			order.Pending,
			order.Preparing,
			order.ReadyForPickup,
			order.PickedUp,
			order.Delivered,
			order.Cancelled,
		} {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		_, err := order.StatusFromString("SHIPPED")
		require.Error(t, err)

		_, err = order.StatusFromString("UNKNOWN")
		require.Error(t, err)

		_, err = order.StatusFromString("")
		require.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())

	for _, s := range []order.Status{
		order.Pending,
		order.Preparing,
		order.ReadyForPickup,
		order.PickedUp,
	} {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestRole_Validate(t *testing.T) {
	t.Run("all actor roles are valid", func(t *testing.T) {
		for _, r := range []order.Role{
			order.RoleCustomer,
			order.RoleRestaurant,
			order.RoleRider,
			order.RoleAdmin,
		} {
			require.NoError(t, r.Validate(), r.String())
		}
	})

	t.Run("unknown role is invalid", func(t *testing.T) {
		require.Error(t, order.RoleUnknown.Validate())
		require.Error(t, order.Role(42).Validate())
	})
}

func TestRoleFromString(t *testing.T) {
	t.Run("round trips every valid role", func(t *testing.T) {
		for _, r := range []order.Role{
			order.RoleCustomer,
			order.RoleRestaurant,
			order.RoleRider,
			order.RoleAdmin,
		} {
			parsed, err := order.RoleFromString(r.String())
			require.NoError(t, err)
			assert.Equal(t, r, parsed)
		}
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		_, err := order.RoleFromString("COURIER")
		require.Error(t, err)
	})
}
