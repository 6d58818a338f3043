package main

import (
	"log"
	"time"

	"marketplace-shipping-api/config"
	"marketplace-shipping-api/internal/api/routes"
	"marketplace-shipping-api/internal/auth"
	"marketplace-shipping-api/internal/database"
	"marketplace-shipping-api/internal/metrics"
	"marketplace-shipping-api/internal/notify"
	"marketplace-shipping-api/internal/s3"
	"marketplace-shipping-api/internal/shipping"
	"marketplace-shipping-api/internal/socket"
	"marketplace-shipping-api/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	auth.JwtSecret = []byte(cfg.JWT.Secret)

	tokenLifetime := 24 * time.Hour
	if cfg.JWT.Expiration != "" {
		tokenLifetime, err = time.ParseDuration(cfg.JWT.Expiration)
		if err != nil {
			log.Fatalf("Invalid jwt.expiration: %v", err)
		}
	}

	db, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	if err := database.SeedAdmin(db); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	presigner, err := s3.NewPresigner(cfg.S3)
	if err != nil {
		log.Fatalf("Failed to initialize S3 presigner: %v", err)
	}

	stores := store.NewMongoStores(db)
	gate := shipping.NewGate(stores.Users)
	notifier := notify.NewWebhookNotifier(cfg.Notify, cfg.App)
	wsHub := socket.NewHub()

	engine := shipping.NewEngine(stores.Shipments, stores.Events, stores.Orders, stores.Users, gate, notifier, wsHub)
	uploads := shipping.NewUploadService(stores.Shipments, stores.Events, gate, presigner, cfg.S3.VerifyOnConfirm)
	tracker := shipping.NewTrackingReader(stores.Orders, stores.Shipments, stores.Events, stores.Users)

	metrics.Register()

	router := routes.SetupRouter(engine, uploads, tracker, stores.Users, wsHub, tokenLifetime)

	log.Printf("Starting shipping API server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
