package db

import (
	"context"
	"log"
	"os"
	"tarifplus/models"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	// Recipes and categories live in Postgres.
	PG *gorm.DB

	// Users, comments and notifications live in MongoDB.
	Client                  *mongo.Client
	UserCollection          *mongo.Collection
	CommentsCollection      *mongo.Collection
	NotificationsCollection *mongo.Collection
)

// Init connects both databases and runs the Postgres migrations. Call once
// from main before any handler is registered.
func Init() {
	initPostgres()
	initMongo()
}

func initPostgres() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=tarifdb port=5432 sslmode=disable"
	}

	var err error
	PG, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}

	err = PG.AutoMigrate(
		&models.Recipe{},
		&models.Category{},
		&models.RecipeView{},
		&models.RecipeLike{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Postgres connection established, migration completed")

	seedCategories()
}

func initMongo() {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := Client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	mdb := Client.Database("tarifdb")
	CommentsCollection = mdb.Collection("comments")
	NotificationsCollection = mdb.Collection("notifications")
	UserCollection = mdb.Collection("users")
	log.Println("MongoDB connection established")
}

func seedCategories() {
	var count int64
	PG.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	names := []string{"Çorbalar", "Ana Yemekler", "Tatlılar", "Kahvaltılıklar", "Salatalar"}
	for _, name := range names {
		cat := models.Category{ID: uuid.NewString(), Name: name}
		if err := PG.Create(&cat).Error; err != nil {
			log.Printf("Failed to seed category %s: %v", name, err)
		}
	}
	log.Println("Initial categories created")
}

func OptionsFindLatest(limit int64) *options.FindOptions {
	opts := options.Find()
	opts.SetSort(map[string]interface{}{"createdAt": -1})
	opts.SetLimit(limit)
	return opts
}
