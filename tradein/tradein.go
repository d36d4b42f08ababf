package tradein

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

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

var validConditions = map[string]bool{
	"like-new": true,
	"good":     true,
	"fair":     true,
	"broken":   true,
}

type Handlers struct {
	Hub *live.Hub
}

func NewHandlers(hub *live.Hub) *Handlers {
	return &Handlers{Hub: hub}
}

// Submit records a device trade-in request. Works for guests; logged-in users
// get the submission attached to their account.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload struct {
		Email       string `json:"email"`
		Brand       string `json:"brand"`
		DeviceModel string `json:"deviceModel"`
		Condition   string `json:"condition"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Brand == "" || payload.DeviceModel == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email, brand and device model are required")
		return
	}
	if !validConditions[payload.Condition] {
		utils.RespondWithError(w, http.StatusBadRequest, "Condition must be one of: like-new, good, fair, broken")
		return
	}

	submission := models.TradeIn{
		SubmissionID: uuid.NewString(),
		UserID:       utils.GetUserIDFromRequest(r),
		Email:        payload.Email,
		Brand:        payload.Brand,
		DeviceModel:  payload.DeviceModel,
		Condition:    payload.Condition,
		Description:  payload.Description,
		Status:       models.TradeInSubmitted,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := db.TradeInsCollection.InsertOne(ctx, submission); err != nil {
		log.Println("TradeIn insert error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to submit trade-in")
		return
	}

	h.Hub.BroadcastEvent("tradein.submitted", utils.M{
		"submissionId": submission.SubmissionID,
		"brand":        submission.Brand,
		"deviceModel":  submission.DeviceModel,
	})

	utils.RespondWithJSON(w, http.StatusCreated, submission)
}

// GetStatus returns one submission, verified by the email it was filed with.
func GetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	submissionID := ps.ByName("submissionid")
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var submission models.TradeIn
	err := db.TradeInsCollection.FindOne(ctx, bson.M{
		"submissionId": submissionID,
		"email":        email,
	}).Decode(&submission)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Submission not found")
		return
	}
	if err != nil {
		log.Println("TradeIn status error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve submission")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, submission)
}

// MySubmissions lists the authenticated user's trade-ins, newest first.
func MySubmissions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.TradeInsCollection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
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

// Respond lets the customer accept or reject an offer the back office made.
func (h *Handlers) Respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	submissionID := ps.ByName("submissionid")

	var payload struct {
		Email  string `json:"email"`
		Accept bool   `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	status := models.TradeInAccepted
	if !payload.Accept {
		status = models.TradeInRejected
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.TradeInsCollection.UpdateOne(ctx, bson.M{
		"submissionId": submissionID,
		"email":        payload.Email,
		"status":       models.TradeInOffered,
	}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		log.Println("TradeIn respond error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update submission")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "No open offer for this submission")
		return
	}

	h.Hub.BroadcastEvent("tradein."+status, utils.M{"submissionId": submissionID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": status})
}
