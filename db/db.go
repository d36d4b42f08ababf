package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ProductsCollection   *mongo.Collection
	CategoriesCollection *mongo.Collection
	OrdersCollection     *mongo.Collection
	TradeInsCollection   *mongo.Collection
	UserCollection       *mongo.Collection
	Client               *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "refurbdb"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ProductsCollection = Client.Database(dbName).Collection("products")
	CategoriesCollection = Client.Database(dbName).Collection("categories")
	OrdersCollection = Client.Database(dbName).Collection("orders")
	TradeInsCollection = Client.Database(dbName).Collection("tradeins")
	UserCollection = Client.Database(dbName).Collection("users")
}
