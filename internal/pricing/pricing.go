// Package pricing calcule les totaux d'une commande.
// Fonction pure : aucun I/O, mêmes entrées → mêmes sorties.
package pricing

import (
	"fmt"
	"math"
)

const (
	// Livraison offerte strictement au-dessus de ce sous-total
	FreeShippingThreshold = 1000.00
	FlatShippingFee       = 49.99
	TaxRate               = 0.08
)

type LineItem struct {
	UnitPrice float64
	Quantity  int
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals dérive sous-total, frais de port, TVA et total.
// Rejette les quantités nulles/négatives et les prix négatifs.
func ComputeTotals(items []LineItem) (Totals, error) {
	var subtotal float64
	for i, item := range items {
		if item.Quantity <= 0 {
			return Totals{}, fmt.Errorf("ligne %d: quantité invalide (%d)", i, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return Totals{}, fmt.Errorf("ligne %d: prix unitaire négatif (%.2f)", i, item.UnitPrice)
		}
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	subtotal = roundCents(subtotal)

	shipping := FlatShippingFee
	if subtotal > FreeShippingThreshold {
		shipping = 0
	}

	tax := roundCents(TaxRate * (subtotal + shipping))

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    roundCents(subtotal + shipping + tax),
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
