package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"refurb/db"
	"refurb/models"
	"refurb/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const sessionCookie = "refurb_cart"

// Handlers exposes the cart engine over HTTP. This is the layer that clamps
// requested quantities against catalog stock; the engine itself does not.
type Handlers struct {
	Carts *Manager
}

func NewHandlers(carts *Manager) *Handlers {
	return &Handlers{Carts: carts}
}

type cartResponse struct {
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
	IsOpen bool       `json:"isOpen"`
}

// SessionID reads the cart session cookie, minting one if absent. The
// checkout flow uses the same cookie to find the cart it submits.
//
// The cookie value is client-controlled and ends up in storage slot names
// (file paths, Redis keys), so anything that is not a well-formed UUID is
// discarded and replaced with a fresh id.
func SessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if parsed, err := uuid.Parse(c.Value); err == nil && parsed.String() == c.Value {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func respondState(w http.ResponseWriter, code int, e *Engine) {
	utils.RespondWithJSON(w, code, cartResponse{
		Items:  e.Items(),
		Totals: e.Totals(),
		IsOpen: e.IsOpen(),
	})
}

// GetCart returns the current cart with derived totals.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Carts.Session(SessionID(w, r)).Do(func(e *Engine) {
		respondState(w, http.StatusOK, e)
	})
}

// AddItem adds a product to the cart, merging into an existing line item.
// The requested quantity is clamped so the line never exceeds catalog stock.
func (h *Handlers) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("AddItem decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if payload.ProductID == "" {
		http.Error(w, "Missing productId", http.StatusBadRequest)
		return
	}
	if payload.Quantity < 1 {
		payload.Quantity = 1
	}

	product, err := findProduct(r.Context(), payload.ProductID)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	h.Carts.Session(SessionID(w, r)).Do(func(e *Engine) {
		available := product.StockQuantity - e.Quantity(product.ProductID)
		if available < 1 {
			respondState(w, http.StatusConflict, e)
			return
		}
		qty := payload.Quantity
		if qty > available {
			qty = available
		}
		e.AddItem(snapshot(product), qty)
		respondState(w, http.StatusCreated, e)
	})
}

// UpdateItem sets a line item's quantity to an absolute value, clamped to
// stock. Zero or negative removes the line item.
func (h *Handlers) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	qty := payload.Quantity
	if qty > 0 {
		if product, err := findProduct(r.Context(), productID); err == nil && qty > product.StockQuantity {
			qty = product.StockQuantity
		}
	}

	h.Carts.Session(SessionID(w, r)).Do(func(e *Engine) {
		e.UpdateQuantity(productID, qty)
		respondState(w, http.StatusOK, e)
	})
}

// RemoveItem deletes a line item; absent ids are a silent no-op.
func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")
	h.Carts.Session(SessionID(w, r)).Do(func(e *Engine) {
		e.RemoveItem(productID)
		respondState(w, http.StatusOK, e)
	})
}

// ClearCart empties the cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Carts.Session(SessionID(w, r)).Do(func(e *Engine) {
		e.Clear()
		respondState(w, http.StatusOK, e)
	})
}

// ToggleCart flips the drawer flag.
func (h *Handlers) ToggleCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Carts.Session(SessionID(w, r)).Do(func(e *Engine) {
		e.ToggleCart()
		respondState(w, http.StatusOK, e)
	})
}

func findProduct(ctx context.Context, productID string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{
		"productId": productID,
		"published": true,
	}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func snapshot(p *models.Product) ProductRef {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return ProductRef{
		ID:            p.ProductID,
		Name:          p.Name,
		Brand:         p.Brand,
		Image:         image,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
	}
}
