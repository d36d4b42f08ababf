package cart

import (
	"os"
	"path/filepath"
	"testing"
)

func sameItems(a, b []LineItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Product.ID != b[i].Product.ID || a[i].Quantity != b[i].Quantity {
			return false
		}
	}
	return true
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := NewFileStore(path)

	items := []LineItem{
		{Product: ref("A", 30, 5), Quantity: 1},
		{Product: ref("B", 25, 2), Quantity: 2},
	}
	if err := store.Save(items); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Load()
	if !sameItems(got, items) {
		t.Errorf("round trip = %+v, want %+v", got, items)
	}
}

func TestFileStoreMissingSlotIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never-written.json"))
	if got := store.Load(); len(got) != 0 {
		t.Errorf("missing slot = %+v, want empty", got)
	}
}

func TestFileStoreCorruptSlotIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path)
	if got := store.Load(); len(got) != 0 {
		t.Errorf("corrupt slot = %+v, want empty", got)
	}
}

func TestFileStoreOverwritesSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := NewFileStore(path)

	if err := store.Save([]LineItem{{Product: ref("A", 10, 5), Quantity: 3}}); err != nil {
		t.Fatal(err)
	}
	second := []LineItem{{Product: ref("B", 20, 5), Quantity: 1}}
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	if got := store.Load(); !sameItems(got, second) {
		t.Errorf("slot = %+v, want %+v (full overwrite, not merge)", got, second)
	}
}

func TestDecodeItemsDropsMalformedEntries(t *testing.T) {
	// an entry with no product id and one with quantity 0 are skipped
	data := []byte(`[
		{"product":{"id":"A","price":10,"stockQuantity":5},"quantity":2},
		{"product":{"price":5},"quantity":1},
		{"product":{"id":"B","price":3,"stockQuantity":1},"quantity":0}
	]`)

	got := decodeItems(data)
	if len(got) != 1 || got[0].Product.ID != "A" {
		t.Errorf("decoded = %+v, want only A", got)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	items := []LineItem{{Product: ref("A", 12.34, 7), Quantity: 4}}

	if err := store.Save(items); err != nil {
		t.Fatal(err)
	}
	if got := store.Load(); !sameItems(got, items) {
		t.Errorf("round trip = %+v, want %+v", got, items)
	}
}
