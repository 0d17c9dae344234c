// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/config"
	"github.com/agrilink/agrilink-backend/internal/feed"
	"github.com/agrilink/agrilink-backend/internal/handlers"
	"github.com/agrilink/agrilink-backend/internal/middleware"
	"github.com/agrilink/agrilink-backend/internal/models"
	"github.com/agrilink/agrilink-backend/internal/services"
	"github.com/agrilink/agrilink-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Shared infrastructure
	broker := feed.NewBroker()

	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	profileService := services.NewProfileService(db)
	cropService := services.NewCropService(db, broker)
	orderService := services.NewOrderService(db, broker, notificationService)
	paymentService := services.NewPaymentService(db, cfg)
	statsService := services.NewStatsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	cropHandler := handlers.NewCropHandler(cropService, storageService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	feedHandler := handlers.NewFeedHandler(broker)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Profile routes
		profiles := v1.Group("/profiles")
		profiles.Use(middleware.AuthRequired())
		{
			profiles.GET("/me", profileHandler.GetMyProfile)
			profiles.PUT("/me", profileHandler.UpdateMyProfile)
			profiles.POST("/me/onboarding", profileHandler.CompleteOnboarding)
		}

		// Farmer listing routes
		crops := v1.Group("/crops")
		crops.Use(middleware.AuthRequired(), middleware.RoleRequired(models.AppRoleFarmer))
		{
			crops.POST("", cropHandler.CreateCrop)
			crops.GET("", cropHandler.GetMyCrops)
			crops.PUT("/:id", cropHandler.UpdateCrop)
			crops.POST("/:id/ready", cropHandler.MarkReady)
			crops.DELETE("/:id", cropHandler.DeleteCrop)
			crops.POST("/:id/images", middleware.UploadRateLimit(), cropHandler.UploadImage)
		}

		// Marketplace routes, readable by any authenticated user
		marketplace := v1.Group("/marketplace")
		marketplace.Use(middleware.AuthRequired())
		{
			marketplace.GET("", cropHandler.SearchMarketplace)
			marketplace.GET("/:id", cropHandler.GetCrop)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.PlaceOrder)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id/status", orderHandler.UpdateStatus)
		}

		// Delivery tracking
		delivery := v1.Group("/delivery")
		delivery.Use(middleware.AuthRequired())
		{
			delivery.GET("", orderHandler.GetDeliveries)
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
			payments.GET("", paymentHandler.GetPaymentHistory)
		}

		// Change feed (SSE)
		feedRoutes := v1.Group("/feed")
		feedRoutes.Use(middleware.AuthRequired())
		{
			feedRoutes.GET("/:table", feedHandler.Stream)
		}

		// Dashboard statistics
		stats := v1.Group("/stats")
		stats.Use(middleware.AuthRequired())
		{
			stats.GET("/dashboard", statsHandler.Dashboard)
		}

		// Market insights, readable by any authenticated user
		insights := v1.Group("/insights")
		insights.Use(middleware.AuthRequired())
		{
			insights.GET("/prices", cropHandler.PriceInsights)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
