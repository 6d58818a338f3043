package routes

import (
	"time"

	"marketplace-shipping-api/internal/api/handlers"
	"marketplace-shipping-api/internal/api/middleware"
	"marketplace-shipping-api/internal/models"
	"marketplace-shipping-api/internal/shipping"
	"marketplace-shipping-api/internal/socket"
	"marketplace-shipping-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter wires handlers onto the route tree.
func SetupRouter(
	engine *shipping.Engine,
	uploads *shipping.UploadService,
	tracker *shipping.TrackingReader,
	users store.UserStore,
	wsHub *socket.Hub,
	tokenLifetime time.Duration,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	shipmentHandler := &handlers.ShipmentHandler{Engine: engine, Uploads: uploads}
	trackingHandler := &handlers.TrackingHandler{Tracker: tracker}
	userHandler := &handlers.UserHandler{Users: users, TokenLifetime: tokenLifetime}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Public tracking: no JWT, order numbers act as bearer tokens.
		public := apiV1.Group("/")
		{
			public.GET("/track", trackingHandler.Track)
		}

		// Mutating shipment routes: coarse role gate here, per-shipment
		// ownership inside the engine.
		shipments := apiV1.Group("/shipments")
		shipments.Use(middleware.Authenticate())
		shipments.Use(middleware.Authorize(models.RoleSeller, models.RoleAdmin))
		{
			shipments.POST("/", shipmentHandler.CreateOrUpdateShipment)
			shipments.PUT("/:id/status", shipmentHandler.UpdateStatus)
			shipments.POST("/:id/proof/upload-url", shipmentHandler.IssueUploadURL)
			shipments.POST("/:id/proof/confirm", shipmentHandler.ConfirmUpload)
		}
	}

	return router
}
