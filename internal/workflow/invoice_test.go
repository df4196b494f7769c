package workflow

import (
	"testing"

	"distro-go/internal/models"

	"github.com/stretchr/testify/require"
)

func testStock() map[string]models.InventoryItem {
	return map[string]models.InventoryItem{
		"IT-001": {ItemNo: "IT-001", ItemName: "Soda 500ml", Price: 120, Quantity: 40},
		"IT-002": {ItemNo: "IT-002", ItemName: "Water 1L", Price: 80, Quantity: 5},
	}
}

func TestBuildLinesComputesTotals(t *testing.T) {
	lines, total, err := BuildLines([]LineRequest{
		{ItemNo: "IT-001", Quantity: 3},
		{ItemNo: "IT-002", Quantity: 2},
	}, testStock())

	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.Equal(t, 360.0, lines[0].Total)
	require.Equal(t, 160.0, lines[1].Total)
	require.Equal(t, 520.0, total)
	require.Equal(t, "Soda 500ml", lines[0].ItemName)
}

func TestBuildLinesRejectsEmptyRequest(t *testing.T) {
	_, _, err := BuildLines(nil, testStock())
	require.Error(t, err)
	require.True(t, IsValidation(err))
}

func TestBuildLinesUnknownItem(t *testing.T) {
	_, _, err := BuildLines([]LineRequest{{ItemNo: "IT-999", Quantity: 1}}, testStock())
	require.Error(t, err)
	require.True(t, IsNotFound(err))
}

func TestBuildLinesRejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -4} {
		_, _, err := BuildLines([]LineRequest{{ItemNo: "IT-001", Quantity: qty}}, testStock())
		require.Error(t, err)
		require.True(t, IsValidation(err))
	}
}

func TestBuildLinesRefusesOverStock(t *testing.T) {
	_, _, err := BuildLines([]LineRequest{{ItemNo: "IT-002", Quantity: 6}}, testStock())
	require.Error(t, err)
	require.True(t, IsValidation(err))
	require.Contains(t, err.Error(), "IT-002")
}

func TestBuildLinesAllowsExactStock(t *testing.T) {
	lines, total, err := BuildLines([]LineRequest{{ItemNo: "IT-002", Quantity: 5}}, testStock())
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 400.0, total)
}
