package notification

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignmentMessage(t *testing.T) {
	msg := AssignmentMessage("Kasun", []int{101, 102})
	require.Contains(t, msg, "Hi Kasun")
	require.Contains(t, msg, "#101, #102")
}

func TestRejectionMessage(t *testing.T) {
	msg := RejectionMessage(42, "New City Stores", "Shop closed")
	require.Contains(t, msg, "Bill #42 was rejected")
	require.Contains(t, msg, "Shop: New City Stores")
	require.Contains(t, msg, "Reason: Shop closed")
}
