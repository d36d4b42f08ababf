package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"refurb/db"
	"refurb/models"
	"refurb/rdx"
	"refurb/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const detailCacheTTL = 5 * time.Minute

// GetProducts lists published products with optional category, brand,
// condition and text filters. Supports page/limit pagination.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{"published": true}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}
	if opts.Brand != "" {
		filter["brand"] = opts.Brand
	}
	if opts.Condition != "" {
		filter["condition"] = opts.Condition
	}
	if opts.Search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": opts.Search, "$options": "i"}},
			{"brand": bson.M{"$regex": opts.Search, "$options": "i"}},
			{"model": bson.M{"$regex": opts.Search, "$options": "i"}},
		}
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((opts.Page - 1) * opts.Limit)).
		SetLimit(int64(opts.Limit))

	cursor, err := db.ProductsCollection.Find(ctx, filter, findOpts)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve products")
		return
	}
	defer cursor.Close(ctx)

	var items []models.Product
	if err := cursor.All(ctx, &items); err != nil {
		log.Println("GetProducts cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}
	if len(items) == 0 {
		items = []models.Product{}
	}

	total, err := db.ProductsCollection.CountDocuments(ctx, filter)
	if err != nil {
		total = int64(len(items))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": items,
		"total":    total,
		"page":     opts.Page,
		"limit":    opts.Limit,
	})
}

// GetProduct returns one published product, served from the Redis cache when
// warm. Stock comes from the live document so cart clamping stays accurate.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	productID := ps.ByName("productid")
	cacheKey := "product:" + productID

	if cached := rdx.GetCache(cacheKey); cached != "" {
		var product models.Product
		if err := json.Unmarshal([]byte(cached), &product); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, product)
			return
		}
		rdx.DelCache(cacheKey)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{
		"productId": productID,
		"published": true,
	}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}

	if data, err := json.Marshal(product); err == nil {
		rdx.SetCache(cacheKey, string(data), detailCacheTTL)
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// GetCategories lists all categories.
func GetCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := db.CategoriesCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		log.Println("GetCategories error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve categories")
		return
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading categories")
		return
	}
	if len(categories) == 0 {
		categories = []models.Category{}
	}

	utils.RespondWithJSON(w, http.StatusOK, categories)
}
