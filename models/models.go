package models

import "time"

// Product is a refurbished device listed in the catalog.
type Product struct {
	ProductID      string            `json:"productId" bson:"productId"`
	Name           string            `json:"name" bson:"name"`
	Brand          string            `json:"brand" bson:"brand"`
	Model          string            `json:"model,omitempty" bson:"model,omitempty"`
	Description    string            `json:"description,omitempty" bson:"description,omitempty"`
	Category       string            `json:"category" bson:"category"`
	Condition      string            `json:"condition" bson:"condition"` // like-new, excellent, good, fair
	Price          float64           `json:"price" bson:"price"`
	OriginalPrice  float64           `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	StockQuantity  int               `json:"stockQuantity" bson:"stockQuantity"`
	WarrantyMonths int               `json:"warrantyMonths,omitempty" bson:"warrantyMonths,omitempty"`
	Images         []string          `json:"images,omitempty" bson:"images,omitempty"`
	Specs          map[string]string `json:"specs,omitempty" bson:"specs,omitempty"`
	Published      bool              `json:"published" bson:"published"`
	CreatedAt      time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	CategoryID  string `json:"categoryId" bson:"categoryId"`
	Name        string `json:"name" bson:"name"`
	Slug        string `json:"slug" bson:"slug"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

type User struct {
	UserID    string    `json:"userId" bson:"userId"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // bcrypt hash
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// OrderItem is a priced line frozen at checkout time.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"` // unit price
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order statuses, in the order they normally progress.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type Order struct {
	OrderID     string      `json:"orderId" bson:"orderId"`
	OrderNumber string      `json:"orderNumber" bson:"orderNumber"`
	UserID      string      `json:"userId,omitempty" bson:"userId,omitempty"`
	Email       string      `json:"email" bson:"email"`
	Name        string      `json:"name" bson:"name"`
	Address     string      `json:"address" bson:"address"`
	Items       []OrderItem `json:"items" bson:"items"`
	Subtotal    float64     `json:"subtotal" bson:"subtotal"`
	Shipping    float64     `json:"shipping" bson:"shipping"`
	Tax         float64     `json:"tax" bson:"tax"` // VAT share of Total, informational
	Total       float64     `json:"total" bson:"total"`
	Status      string      `json:"status" bson:"status"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Trade-in statuses.
const (
	TradeInSubmitted = "submitted"
	TradeInReviewing = "reviewing"
	TradeInOffered   = "offered"
	TradeInAccepted  = "accepted"
	TradeInRejected  = "rejected"
)

// TradeIn is a customer's device submitted for a trade-in quote.
type TradeIn struct {
	SubmissionID string    `json:"submissionId" bson:"submissionId"`
	UserID       string    `json:"userId,omitempty" bson:"userId,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Brand        string    `json:"brand" bson:"brand"`
	DeviceModel  string    `json:"deviceModel" bson:"deviceModel"`
	Condition    string    `json:"condition" bson:"condition"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Status       string    `json:"status" bson:"status"`
	OfferAmount  float64   `json:"offerAmount,omitempty" bson:"offerAmount,omitempty"`
	AdminNote    string    `json:"adminNote,omitempty" bson:"adminNote,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
