package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals_Standard(t *testing.T) {
	// 2 × 100 + 1 × 100 = 300, livraison payante, TVA 8% sur 349.99
	totals, err := ComputeTotals([]LineItem{
		{UnitPrice: 100.00, Quantity: 2},
		{UnitPrice: 100.00, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 300.00, totals.Subtotal)
	assert.Equal(t, 49.99, totals.Shipping)
	assert.Equal(t, 28.00, totals.Tax)
	assert.Equal(t, 377.99, totals.Total)
}

func TestComputeTotals_FreeShippingBoundary(t *testing.T) {
	// Livraison offerte strictement au-dessus de 1000.00 : à 1000.00 pile,
	// elle reste facturée
	atThreshold, err := ComputeTotals([]LineItem{{UnitPrice: 1000.00, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 49.99, atThreshold.Shipping)

	aboveThreshold, err := ComputeTotals([]LineItem{{UnitPrice: 1000.01, Quantity: 1}})
	require.NoError(t, err)
	assert.Equal(t, 0.00, aboveThreshold.Shipping)
	assert.Equal(t, 80.00, aboveThreshold.Tax) // 8% de 1000.01, arrondi au centime
	assert.Equal(t, 1080.01, aboveThreshold.Total)
}

func TestComputeTotals_Deterministic(t *testing.T) {
	items := []LineItem{
		{UnitPrice: 19.99, Quantity: 3},
		{UnitPrice: 5.49, Quantity: 7},
	}

	first, err := ComputeTotals(items)
	require.NoError(t, err)
	second, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeTotals_TaxIncludesShipping(t *testing.T) {
	totals, err := ComputeTotals([]LineItem{{UnitPrice: 50.00, Quantity: 1}})
	require.NoError(t, err)

	// TVA assise sur sous-total + livraison : 8% de 99.99
	assert.Equal(t, 8.00, totals.Tax)
	assert.Equal(t, 107.99, totals.Total)
}

func TestComputeTotals_RejectsInvalidLines(t *testing.T) {
	_, err := ComputeTotals([]LineItem{{UnitPrice: 10.00, Quantity: 0}})
	assert.Error(t, err)

	_, err = ComputeTotals([]LineItem{{UnitPrice: 10.00, Quantity: -2}})
	assert.Error(t, err)

	_, err = ComputeTotals([]LineItem{{UnitPrice: -0.01, Quantity: 1}})
	assert.Error(t, err)
}

func TestComputeTotals_CentRounding(t *testing.T) {
	// 3 × 0.333 = 0.999 → sous-total arrondi à 1.00
	totals, err := ComputeTotals([]LineItem{{UnitPrice: 0.333, Quantity: 3}})
	require.NoError(t, err)

	assert.Equal(t, 1.00, totals.Subtotal)
	assert.Equal(t, 4.08, totals.Tax) // 8% de 50.99
	assert.Equal(t, 55.07, totals.Total)
}
