// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storyweave/storyweave-backend/internal/config"
	"github.com/storyweave/storyweave-backend/internal/handlers"
	"github.com/storyweave/storyweave-backend/internal/middleware"
	"github.com/storyweave/storyweave-backend/internal/services"
	"github.com/storyweave/storyweave-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	chainService := services.NewChainService(cfg)
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	assetService := services.NewAssetService(db, chainService)
	royaltyService := services.NewRoyaltyService(db, chainService)
	contributionService := services.NewContributionService(db, royaltyService, chainService)
	paymentService := services.NewPaymentService(db, cfg, royaltyService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	assetHandler := handlers.NewAssetHandler(assetService, storageService)
	contributionHandler := handlers.NewContributionHandler(contributionService, assetService, notificationService)
	royaltyHandler := handlers.NewRoyaltyHandler(royaltyService, notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
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
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Asset registry routes
		assets := v1.Group("/assets")
		{
			assets.GET("", middleware.OptionalAuth(), assetHandler.SearchAssets)
			assets.GET("/:id", middleware.OptionalAuth(), assetHandler.GetAsset)
			assets.GET("/:id/royalties", royaltyHandler.GetSplit)
			assets.GET("/:id/distributions", royaltyHandler.ListDistributions)
			assets.GET("/:id/revenue", paymentHandler.GetAssetRevenue)

			// Authenticated routes
			protected := assets.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", assetHandler.CreateAsset)
				protected.POST("/:id/mint", assetHandler.MintAsset)
				protected.POST("/:id/distribute", royaltyHandler.Distribute)
			}
		}

		// Creator routes
		creators := v1.Group("/creators")
		{
			creators.GET("/:address/assets", assetHandler.GetCreatorAssets)
		}

		// Contribution ledger routes
		contributions := v1.Group("/contributions")
		{
			contributions.GET("", middleware.OptionalAuth(), contributionHandler.ListContributions)
			contributions.GET("/stats", contributionHandler.GetStats)
			contributions.GET("/:id", middleware.OptionalAuth(), contributionHandler.GetContribution)

			// Authenticated routes
			protected := contributions.Group("")
			protected.Use(middleware.AuthRequired(), middleware.DecisionRateLimit())
			{
				protected.POST("", contributionHandler.Submit)
				protected.POST("/:id/vote", contributionHandler.Vote)
				protected.PUT("/:id/approve", contributionHandler.Approve)
				protected.PUT("/:id/reject", contributionHandler.Reject)
			}
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// Upload routes
		uploads := v1.Group("/uploads")
		uploads.Use(middleware.AuthRequired(), middleware.UploadRateLimit())
		{
			uploads.POST("/:category", assetHandler.UploadFile)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
