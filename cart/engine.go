package cart

import "log"

// Engine holds one session's cart state: the line items plus the transient
// drawer-open flag. Every mutation that changes the items is written through
// to the Store; a failed write is logged and the cart keeps working in memory
// for the rest of the session.
//
// Engine does not validate caller input. Quantities passed to AddItem are
// assumed positive, and neither AddItem nor UpdateQuantity caps a quantity at
// the product's stock ceiling. Callers clamp against the catalog before
// invoking the engine; see Handlers.
type Engine struct {
	items  []LineItem
	isOpen bool
	store  Store
	cfg    Config
}

// NewEngine builds an engine hydrated from whatever the store last saved.
func NewEngine(store Store, cfg Config) *Engine {
	return &Engine{
		items: store.Load(),
		store: store,
		cfg:   cfg,
	}
}

// AddItem merges the given quantity into an existing line item for the same
// product id, or appends a new line item. Adding always opens the drawer.
func (e *Engine) AddItem(product ProductRef, quantity int) {
	next := make([]LineItem, len(e.items))
	copy(next, e.items)

	merged := false
	for i := range next {
		if next[i].Product.ID == product.ID {
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, LineItem{Product: product, Quantity: quantity})
	}

	e.items = next
	e.isOpen = true
	e.persist()
}

// RemoveItem deletes the line item for the given product id. Removing an id
// that is not in the cart is a no-op, not an error.
func (e *Engine) RemoveItem(productID string) {
	next := make([]LineItem, 0, len(e.items))
	found := false
	for _, item := range e.items {
		if item.Product.ID == productID {
			found = true
			continue
		}
		next = append(next, item)
	}
	if !found {
		return
	}
	e.items = next
	e.persist()
}

// UpdateQuantity sets a line item's quantity to exactly the given value.
// A quantity of zero or less removes the line item, which is how a stepper
// decremented to zero clears a row. Unknown product ids are a no-op.
func (e *Engine) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(productID)
		return
	}

	next := make([]LineItem, len(e.items))
	copy(next, e.items)

	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = quantity
			e.items = next
			e.persist()
			return
		}
	}
}

// Clear empties the cart. The drawer flag is left alone.
func (e *Engine) Clear() {
	if len(e.items) == 0 {
		return
	}
	e.items = []LineItem{}
	e.persist()
}

// Drawer visibility. These never touch the items and never persist.

func (e *Engine) ToggleCart() { e.isOpen = !e.isOpen }

func (e *Engine) OpenCart() { e.isOpen = true }

func (e *Engine) CloseCart() { e.isOpen = false }

func (e *Engine) IsOpen() bool { return e.isOpen }

// Items returns a copy of the current line items in insertion order.
func (e *Engine) Items() []LineItem {
	out := make([]LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// Quantity returns the current quantity for a product id, 0 if absent.
func (e *Engine) Quantity(productID string) int {
	for _, item := range e.items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Totals derives the current totals snapshot.
func (e *Engine) Totals() Totals {
	return CalculateTotals(e.items, e.cfg)
}

func (e *Engine) persist() {
	if err := e.store.Save(e.items); err != nil {
		log.Println("cart save failed, continuing in memory:", err)
	}
}
