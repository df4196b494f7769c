package qrcode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBillLookupURL(t *testing.T) {
	// The encoded link must match the mounted route, including the API
	// version segment.
	require.Equal(t, "http://localhost:3000/api/v1/invoices/bill/42",
		BillLookupURL("http://localhost:3000", 42))
}

func TestBillQRCode(t *testing.T) {
	png, err := BillQRCode("http://localhost:3000", 42)
	require.NoError(t, err)
	require.NotEmpty(t, png)
}
