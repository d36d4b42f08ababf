// Package cart implements the session shopping cart: a small deterministic
// state container over line items, with derived totals and durable
// save-on-mutation persistence so a cart survives reloads.
package cart

// ProductRef is the read-only catalog snapshot a line item holds. Price and
// stock are frozen at add-time; later catalog changes are not reflected.
type ProductRef struct {
	ID            string  `json:"id" bson:"id"`
	Name          string  `json:"name" bson:"name"`
	Brand         string  `json:"brand,omitempty" bson:"brand,omitempty"`
	Image         string  `json:"image,omitempty" bson:"image,omitempty"`
	Price         float64 `json:"price" bson:"price"`
	StockQuantity int     `json:"stockQuantity" bson:"stockQuantity"`
}

// LineItem pairs a product snapshot with a quantity. A cart never holds two
// line items for the same product id, and never holds a quantity below 1.
type LineItem struct {
	Product  ProductRef `json:"product" bson:"product"`
	Quantity int        `json:"quantity" bson:"quantity"`
}
