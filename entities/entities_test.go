package entities

import (
	"testing"
	"time"

	"techStore/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReceiptResponse(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := NewReceiptResponse(models.Receipt{
		Id: "r-1",
		Lines: []models.CartLine{
			{Id: 1, Name: "Cable", Price: 0.1, Quantity: 3},
			{Id: 2, Name: "Charger", Price: 19.99, Quantity: 2},
		},
		Total:       40.28,
		PurchasedAt: at,
		Visible:     true,
	})

	require.Len(t, resp.Products, 2)
	assert.Equal(t, 0.3, resp.Products[0].SumPrice)
	assert.Equal(t, 39.98, resp.Products[1].SumPrice)
	assert.True(t, resp.Products[0].Available)
	assert.Equal(t, 40.28, resp.TotalPrice)
	assert.Equal(t, at, resp.PurchasedAt)
	assert.True(t, resp.Visible)
}

func TestNewReceiptResponse_NoLines(t *testing.T) {
	resp := NewReceiptResponse(models.Receipt{Id: "r-1"})
	assert.NotNil(t, resp.Products)
	assert.Empty(t, resp.Products)
}
