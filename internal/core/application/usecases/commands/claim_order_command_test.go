package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaimOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	riderID := kernel.NewUUID()
	cmd, err := commands.NewClaimOrderCommand(orderID, riderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, riderID, cmd.RiderID())
	require.NoError(t, cmd.Validate())
}

func TestNewClaimOrderCommand_InvalidRiderID(t *testing.T) {
	_, err := commands.NewClaimOrderCommand(kernel.NewUUID(), kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestClaimOrderCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.ClaimOrderCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrClaimOrderCommandIsNotConstructed)
}
