package cart

import "math"

// Config holds the pricing constants the calculator works with. Prices are
// VAT-inclusive, so TaxRate only decomposes the total for receipt display.
type Config struct {
	FlatShippingFee       float64
	FreeShippingThreshold float64
	TaxRate               float64
}

// DefaultConfig returns the store's reference pricing: 6.95 flat shipping,
// free shipping from 50.00, 21% VAT.
func DefaultConfig() Config {
	return Config{
		FlatShippingFee:       6.95,
		FreeShippingThreshold: 50,
		TaxRate:               0.21,
	}
}

// Totals is the derived view of a cart. Total is Subtotal + Shipping; Tax is
// the VAT share already contained in Total, not an additional charge.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// CalculateTotals derives totals from the given line items. Pure and
// deterministic: same items and config always produce the same result.
//
// The free-shipping test runs unconditionally, so an empty cart still carries
// the flat fee (subtotal 0 is below the threshold). That matches the store's
// current behavior and is kept on purpose; see the tests.
func CalculateTotals(items []LineItem, cfg Config) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Product.Price * float64(item.Quantity)
		t.ItemCount += item.Quantity
	}
	t.Subtotal = roundCents(t.Subtotal)

	if t.Subtotal >= cfg.FreeShippingThreshold {
		t.Shipping = 0
	} else {
		t.Shipping = cfg.FlatShippingFee
	}

	t.Total = roundCents(t.Subtotal + t.Shipping)
	t.Tax = roundCents(t.Total * cfg.TaxRate)
	return t
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
