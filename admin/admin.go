package admin

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"refurb/db"
	"refurb/live"
	"refurb/models"
	"refurb/rdx"
	"refurb/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var validOrderStatuses = map[string]bool{
	models.OrderPending:    true,
	models.OrderProcessing: true,
	models.OrderShipped:    true,
	models.OrderDelivered:  true,
	models.OrderCancelled:  true,
}

type Handlers struct {
	Hub *live.Hub
}

func NewHandlers(hub *live.Hub) *Handlers {
	return &Handlers{Hub: hub}
}

// --- Products ---

func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if product.Name == "" || product.Category == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, category and a positive price are required")
		return
	}
	if product.StockQuantity < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Stock quantity cannot be negative")
		return
	}

	product.ProductID = uuid.NewString()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	// immutable fields
	delete(updates, "productId")
	delete(updates, "createdAt")
	updates["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$set": updates})
	if err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	rdx.DelCache("product:" + productID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	rdx.DelCache("product:" + productID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

// --- Orders ---

func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := db.OrdersCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200))
	if err != nil {
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

// UpdateOrderStatus moves an order to a new status and notifies dashboards.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderNumber := ps.ByName("ordernum")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if !validOrderStatuses[payload.Status] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown order status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderNumber": orderNumber},
		bson.M{"$set": bson.M{"status": payload.Status, "updatedAt": time.Now()}})
	if err != nil {
		log.Println("UpdateOrderStatus error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	h.Hub.BroadcastEvent("order.status", utils.M{
		"orderNumber": orderNumber,
		"status":      payload.Status,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": payload.Status})
}

// --- Trade-ins ---

func ListTradeIns(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := db.TradeInsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve submissions")
		return
	}
	defer cursor.Close(ctx)

	var list []models.TradeIn
	if err := cursor.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading submissions")
		return
	}
	if len(list) == 0 {
		list = []models.TradeIn{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// ReviewTradeIn moves a submission to reviewing/offered/rejected, attaching
// an offer amount when one is made.
func (h *Handlers) ReviewTradeIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	submissionID := ps.ByName("submissionid")

	var payload struct {
		Status      string  `json:"status"`
		OfferAmount float64 `json:"offerAmount"`
		AdminNote   string  `json:"adminNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	switch payload.Status {
	case models.TradeInReviewing, models.TradeInRejected:
	case models.TradeInOffered:
		if payload.OfferAmount <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "An offer needs a positive amount")
			return
		}
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Unknown trade-in status")
		return
	}

	update := bson.M{"status": payload.Status, "updatedAt": time.Now()}
	if payload.Status == models.TradeInOffered {
		update["offerAmount"] = payload.OfferAmount
	}
	if payload.AdminNote != "" {
		update["adminNote"] = payload.AdminNote
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.TradeInsCollection.UpdateOne(ctx,
		bson.M{"submissionId": submissionID},
		bson.M{"$set": update})
	if err != nil {
		log.Println("ReviewTradeIn error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update submission")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Submission not found")
		return
	}

	h.Hub.BroadcastEvent("tradein.status", utils.M{
		"submissionId": submissionID,
		"status":       payload.Status,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": payload.Status})
}
