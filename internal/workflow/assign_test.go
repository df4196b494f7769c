package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchesCity(t *testing.T) {
	tests := []struct {
		shopCity string
		filter   string
		want     bool
	}{
		{"Colombo", "", true},
		{"Colombo", "colombo", true},
		{"Colombo", "COLOMBO", true},
		{"Colombo", "lom", true},
		{"Colombo", "  colombo  ", true},
		{"Colombo", "Kandy", false},
		{"", "Kandy", false},
		{"", "", true},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, MatchesCity(tt.shopCity, tt.filter),
			"city=%q filter=%q", tt.shopCity, tt.filter)
	}
}
