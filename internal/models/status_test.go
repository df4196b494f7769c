package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDeliveryStatus(t *testing.T) {
	s, err := ParseDeliveryStatus("Completed")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, s)

	s, err = ParseDeliveryStatus("rejected")
	require.NoError(t, err)
	require.Equal(t, StatusRejected, s)

	_, err = ParseDeliveryStatus("Shipped")
	require.Error(t, err)
}

func TestDeliveryStatusTerminal(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.True(t, StatusCompleted.Terminal())
	require.True(t, StatusRejected.Terminal())
}

func TestCanTransition(t *testing.T) {
	require.True(t, StatusPending.CanTransition(StatusCompleted))
	require.True(t, StatusPending.CanTransition(StatusRejected))
	require.True(t, StatusPending.CanTransition(StatusPending))

	require.False(t, StatusCompleted.CanTransition(StatusRejected))
	require.False(t, StatusCompleted.CanTransition(StatusPending))
	require.False(t, StatusRejected.CanTransition(StatusCompleted))

	require.True(t, StatusCompleted.CanTransition(StatusCompleted))
	require.True(t, StatusRejected.CanTransition(StatusRejected))
}
