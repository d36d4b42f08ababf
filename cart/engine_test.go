package cart

import (
	"errors"
	"testing"
)

func newTestEngine() *Engine {
	return NewEngine(NewMemoryStore(), DefaultConfig())
}

func TestAddItemMergesByProductID(t *testing.T) {
	e := newTestEngine()
	p := ref("A", 12.50, 10)

	e.AddItem(p, 2)
	e.AddItem(p, 3)

	items := e.Items()
	if len(items) != 1 {
		t.Fatalf("got %d line items, want 1", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", items[0].Quantity)
	}
}

func TestAddItemOpensDrawer(t *testing.T) {
	e := newTestEngine()
	if e.IsOpen() {
		t.Fatal("drawer open before any add")
	}
	e.AddItem(ref("A", 10, 5), 1)
	if !e.IsOpen() {
		t.Error("drawer should open on add")
	}
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	for _, qty := range []int{0, -1, -99} {
		e := newTestEngine()
		e.AddItem(ref("A", 10, 5), 2)

		e.UpdateQuantity("A", qty)

		if len(e.Items()) != 0 {
			t.Errorf("UpdateQuantity(A, %d) left %d items, want 0", qty, len(e.Items()))
		}
	}
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	e := newTestEngine()
	e.AddItem(ref("A", 10, 5), 2)

	e.UpdateQuantity("A", 4)

	if got := e.Quantity("A"); got != 4 {
		t.Errorf("quantity = %d, want 4 (absolute set, not delta)", got)
	}
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	e := newTestEngine()
	e.AddItem(ref("A", 10, 5), 2)

	e.UpdateQuantity("nope", 7)

	if len(e.Items()) != 1 || e.Quantity("A") != 2 {
		t.Errorf("unknown id mutated the cart: %+v", e.Items())
	}
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	e := newTestEngine()
	e.AddItem(ref("A", 10, 5), 1)

	e.RemoveItem("nope")

	if len(e.Items()) != 1 {
		t.Errorf("got %d items, want 1", len(e.Items()))
	}
}

func TestClearWipesFully(t *testing.T) {
	e := newTestEngine()
	e.AddItem(ref("A", 10, 5), 3)
	e.AddItem(ref("B", 20, 5), 1)
	e.OpenCart()

	e.Clear()

	if len(e.Items()) != 0 {
		t.Errorf("got %d items after clear, want 0", len(e.Items()))
	}
	if e.Totals().ItemCount != 0 {
		t.Errorf("itemCount = %d after clear, want 0", e.Totals().ItemCount)
	}
	if !e.IsOpen() {
		t.Error("clear must not touch the drawer flag")
	}
}

func TestInsertionOrderStable(t *testing.T) {
	e := newTestEngine()
	e.AddItem(ref("A", 1, 9), 1)
	e.AddItem(ref("B", 2, 9), 1)
	e.AddItem(ref("C", 3, 9), 1)

	// unrelated mutations must not scramble order
	e.UpdateQuantity("B", 5)
	e.AddItem(ref("A", 1, 9), 1)

	var order []string
	for _, item := range e.Items() {
		order = append(order, item.Product.ID)
	}
	want := []string{"A", "B", "C"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestDrawerTogglesWithoutPersisting(t *testing.T) {
	store := &countingStore{}
	e := NewEngine(store, DefaultConfig())

	e.ToggleCart()
	e.OpenCart()
	e.CloseCart()

	if store.saves != 0 {
		t.Errorf("drawer mutations triggered %d saves, want 0", store.saves)
	}
	e.AddItem(ref("A", 10, 5), 1)
	if store.saves != 1 {
		t.Errorf("add triggered %d saves, want 1", store.saves)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	e := newTestEngine()
	e.AddItem(ref("A", 10, 5), 1)

	items := e.Items()
	items[0].Quantity = 99

	if e.Quantity("A") != 1 {
		t.Error("mutating the returned slice changed engine state")
	}
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	e := NewEngine(&failingStore{}, DefaultConfig())

	// must not panic, and the in-memory cart keeps working
	e.AddItem(ref("A", 10, 5), 2)
	e.UpdateQuantity("A", 3)

	if got := e.Quantity("A"); got != 3 {
		t.Errorf("quantity = %d, want 3 after failed persists", got)
	}
}

func TestRehydrateOnConstruction(t *testing.T) {
	store := NewMemoryStore()

	first := NewEngine(store, DefaultConfig())
	first.AddItem(ref("A", 30, 5), 1)
	first.AddItem(ref("B", 25, 2), 2)

	second := NewEngine(store, DefaultConfig())
	items := second.Items()
	if len(items) != 2 || items[0].Product.ID != "A" || items[1].Quantity != 2 {
		t.Fatalf("rehydrated items = %+v", items)
	}
	if second.IsOpen() {
		t.Error("drawer flag must not survive rehydration")
	}
}

// End-to-end scenario: add two products, cross the free-shipping threshold,
// then remove one via a zero-quantity update.
func TestCheckoutScenario(t *testing.T) {
	e := newTestEngine()

	e.AddItem(ref("A", 30, 5), 1)
	e.AddItem(ref("B", 25, 2), 2)

	got := e.Totals()
	if got.Subtotal != 80 {
		t.Errorf("subtotal = %v, want 80", got.Subtotal)
	}
	if got.Shipping != 0 {
		t.Errorf("shipping = %v, want 0 (over threshold)", got.Shipping)
	}
	if got.Total != 80 {
		t.Errorf("total = %v, want 80", got.Total)
	}
	if got.ItemCount != 3 {
		t.Errorf("itemCount = %v, want 3", got.ItemCount)
	}

	e.UpdateQuantity("A", 0)

	items := e.Items()
	if len(items) != 1 || items[0].Product.ID != "B" {
		t.Fatalf("items = %+v, want only B", items)
	}
	got = e.Totals()
	if got.Subtotal != 50 || got.Shipping != 0 || got.Total != 50 || got.ItemCount != 2 {
		t.Errorf("totals = %+v, want subtotal 50, shipping 0, total 50, count 2", got)
	}
}

type countingStore struct {
	saves int
}

func (s *countingStore) Save(items []LineItem) error { s.saves++; return nil }
func (s *countingStore) Load() []LineItem            { return []LineItem{} }

type failingStore struct{}

func (s *failingStore) Save(items []LineItem) error { return errors.New("quota exceeded") }
func (s *failingStore) Load() []LineItem            { return []LineItem{} }
