package cart

import "testing"

func ref(id string, price float64, stock int) ProductRef {
	return ProductRef{ID: id, Name: "item " + id, Price: price, StockQuantity: stock}
}

func TestTotalsEmptyCart(t *testing.T) {
	got := CalculateTotals(nil, DefaultConfig())

	if got.Subtotal != 0 {
		t.Errorf("subtotal = %v, want 0", got.Subtotal)
	}
	if got.ItemCount != 0 {
		t.Errorf("itemCount = %v, want 0", got.ItemCount)
	}
	// The threshold test runs unconditionally, so an empty cart still gets
	// the flat fee. Kept as current store behavior.
	if got.Shipping != 6.95 {
		t.Errorf("shipping = %v, want 6.95", got.Shipping)
	}
	if got.Total != 6.95 {
		t.Errorf("total = %v, want 6.95", got.Total)
	}
	if got.Tax != 1.46 { // round(6.95 * 0.21)
		t.Errorf("tax = %v, want 1.46", got.Tax)
	}
}

func TestFreeShippingBoundary(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name         string
		price        float64
		wantShipping float64
	}{
		{"just below threshold", 49.99, 6.95},
		{"exactly at threshold", 50.00, 0},
		{"above threshold", 50.01, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := []LineItem{{Product: ref("p1", tt.price, 10), Quantity: 1}}
			got := CalculateTotals(items, cfg)
			if got.Shipping != tt.wantShipping {
				t.Errorf("shipping = %v, want %v", got.Shipping, tt.wantShipping)
			}
			if got.Total != roundCents(tt.price+tt.wantShipping) {
				t.Errorf("total = %v, want %v", got.Total, roundCents(tt.price+tt.wantShipping))
			}
		})
	}
}

func TestTaxIsBreakdownNotSurcharge(t *testing.T) {
	items := []LineItem{{Product: ref("p1", 100, 5), Quantity: 1}}
	got := CalculateTotals(items, DefaultConfig())

	// Total excludes tax: prices are VAT-inclusive, tax is display-only.
	if got.Total != got.Subtotal+got.Shipping {
		t.Errorf("total = %v, want subtotal+shipping = %v", got.Total, got.Subtotal+got.Shipping)
	}
	if got.Tax != 21.00 {
		t.Errorf("tax = %v, want 21.00", got.Tax)
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	items := []LineItem{
		{Product: ref("a", 10, 5), Quantity: 3},
		{Product: ref("b", 20, 5), Quantity: 2},
	}
	got := CalculateTotals(items, DefaultConfig())
	if got.ItemCount != 5 {
		t.Errorf("itemCount = %v, want 5", got.ItemCount)
	}
	if got.Subtotal != 70 {
		t.Errorf("subtotal = %v, want 70", got.Subtotal)
	}
}

func TestTotalsDeterministic(t *testing.T) {
	items := []LineItem{
		{Product: ref("a", 19.99, 5), Quantity: 2},
		{Product: ref("b", 7.49, 5), Quantity: 1},
	}
	first := CalculateTotals(items, DefaultConfig())
	for i := 0; i < 10; i++ {
		if got := CalculateTotals(items, DefaultConfig()); got != first {
			t.Fatalf("run %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestCustomConfig(t *testing.T) {
	cfg := Config{FlatShippingFee: 4.50, FreeShippingThreshold: 25, TaxRate: 0.09}
	items := []LineItem{{Product: ref("p", 10, 3), Quantity: 1}}

	got := CalculateTotals(items, cfg)
	if got.Shipping != 4.50 {
		t.Errorf("shipping = %v, want 4.50", got.Shipping)
	}
	if got.Tax != 1.31 { // round(14.50 * 0.09)
		t.Errorf("tax = %v, want 1.31", got.Tax)
	}
}
