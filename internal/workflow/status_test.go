package workflow

import (
	"testing"

	"distro-go/internal/models"

	"github.com/stretchr/testify/require"
)

func TestValidateStatusChangeUnknownStatus(t *testing.T) {
	err := ValidateStatusChange(models.StatusPending, models.DeliveryStatus("Shipped"), "")
	require.Error(t, err)
	require.True(t, IsValidation(err))
}

func TestValidateStatusChangeRejectionNeedsReason(t *testing.T) {
	err := ValidateStatusChange(models.StatusPending, models.StatusRejected, "")
	require.Error(t, err)
	require.True(t, IsValidation(err))

	err = ValidateStatusChange(models.StatusPending, models.StatusRejected, "Shop closed")
	require.NoError(t, err)
}

func TestValidateStatusChangeFromPending(t *testing.T) {
	require.NoError(t, ValidateStatusChange(models.StatusPending, models.StatusCompleted, ""))
	require.NoError(t, ValidateStatusChange(models.StatusPending, models.StatusPending, ""))
}

func TestValidateStatusChangeTerminalIsFinal(t *testing.T) {
	err := ValidateStatusChange(models.StatusCompleted, models.StatusRejected, "changed my mind")
	require.Error(t, err)
	require.True(t, IsValidation(err))

	err = ValidateStatusChange(models.StatusRejected, models.StatusCompleted, "")
	require.Error(t, err)
	require.True(t, IsValidation(err))

	// Re-submitting the same terminal status is a no-op, not an error.
	require.NoError(t, ValidateStatusChange(models.StatusCompleted, models.StatusCompleted, ""))
}
