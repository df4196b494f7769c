package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeShopName(t *testing.T) {
	require.Equal(t, "kandy mart", NormalizeShopName("  Kandy Mart "))
	require.Equal(t, "shop", NormalizeShopName("SHOP"))
}

func TestValidEmail(t *testing.T) {
	require.True(t, ValidEmail("seller@example.com"))
	require.False(t, ValidEmail("not-an-email"))
	require.False(t, ValidEmail("a b@example.com"))
	require.False(t, ValidEmail("missing@tld"))
}

func TestValidContactNo(t *testing.T) {
	require.True(t, ValidContactNo("0771234567"))
	require.False(t, ValidContactNo("077123456"))
	require.False(t, ValidContactNo("07712345678"))
	require.False(t, ValidContactNo("07712345ab"))
}

func TestParseClock(t *testing.T) {
	require.Equal(t, 9*60, ParseClock("9:00 AM"))
	require.Equal(t, 17*60+30, ParseClock("5:30 PM"))
	require.Equal(t, 0, ParseClock("12:00 AM"))
	require.Equal(t, 12*60, ParseClock("12:00 PM"))
	require.Equal(t, -1, ParseClock("25:00"))
	require.Equal(t, -1, ParseClock("9:99 AM"))
	require.Equal(t, -1, ParseClock(""))
}
