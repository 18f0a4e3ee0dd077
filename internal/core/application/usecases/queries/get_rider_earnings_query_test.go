package queries_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetRiderEarningsQuery_ValidInput(t *testing.T) {
	riderID := kernel.NewUUID()
	query, err := queries.NewGetRiderEarningsQuery(riderID)
	require.NoError(t, err)
	assert.Equal(t, riderID, query.RiderID())
	require.NoError(t, query.Validate())
}

func TestNewGetRiderEarningsQuery_InvalidRiderID(t *testing.T) {
	_, err := queries.NewGetRiderEarningsQuery(kernel.UUID{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestGetRiderEarningsQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.GetRiderEarningsQuery
	require.ErrorIs(t, query.Validate(), queries.ErrGetRiderEarningsQueryIsNotConstructed)
}
