package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUndoExpired(t *testing.T) {
	now := time.Now()

	require.False(t, UndoExpired(now.Add(-59*time.Second), now))
	require.False(t, UndoExpired(now.Add(-60*time.Second), now))
	require.True(t, UndoExpired(now.Add(-61*time.Second), now))
	require.True(t, UndoExpired(now.Add(-10*time.Minute), now))
}
