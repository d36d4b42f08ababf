package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"refurb/cart"
	"refurb/db"
	"refurb/live"
	"refurb/models"
	"refurb/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handlers wires checkout to the session cart engines and the admin event hub.
type Handlers struct {
	Carts *cart.Manager
	Hub   *live.Hub
}

func NewHandlers(carts *cart.Manager, hub *live.Hub) *Handlers {
	return &Handlers{Carts: carts, Hub: hub}
}

type checkoutPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Checkout reads the session cart once, persists an order from it, and clears
// the cart only after the order is stored. Totals come straight from the cart
// engine; they are not recomputed server-side.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Name == "" || payload.Email == "" || payload.Address == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and address are required")
		return
	}

	session := h.Carts.Session(cart.SessionID(w, r))

	var order *models.Order
	session.Do(func(e *cart.Engine) {
		items := e.Items()
		if len(items) == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
			return
		}
		totals := e.Totals()

		order = &models.Order{
			OrderID:     uuid.NewString(),
			OrderNumber: utils.GenerateOrderNumber(),
			UserID:      utils.GetUserIDFromRequest(r),
			Email:       payload.Email,
			Name:        payload.Name,
			Address:     payload.Address,
			Items:       orderItems(items),
			Subtotal:    totals.Subtotal,
			Shipping:    totals.Shipping,
			Tax:         totals.Tax,
			Total:       totals.Total,
			Status:      models.OrderPending,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if _, err := db.OrdersCollection.InsertOne(ctx, order); err != nil {
			log.Println("Checkout insert error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to place order")
			order = nil
			return
		}

		// order is durable, now the cart can go
		e.Clear()
	})
	if order == nil {
		return
	}

	h.Hub.BroadcastEvent("order.created", utils.M{
		"orderNumber": order.OrderNumber,
		"total":       order.Total,
		"email":       order.Email,
	})

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// TrackOrder looks an order up by number plus the email it was placed with,
// so guests can follow their order without an account.
func TrackOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderNumber := ps.ByName("ordernum")
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{
		"orderNumber": orderNumber,
		"email":       email,
	}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		log.Println("TrackOrder error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve order")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// MyOrders lists the authenticated user's orders, newest first.
func MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.OrdersCollection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Println("MyOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func orderItems(items []cart.LineItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return out
}
