// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/liebemama/marketplace-backend/internal/config"
	"github.com/liebemama/marketplace-backend/internal/handlers"
	"github.com/liebemama/marketplace-backend/internal/middleware"
	"github.com/liebemama/marketplace-backend/internal/services"
	"github.com/liebemama/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	workflowService := services.NewWorkflowService(db)
	notificationService := services.NewNotificationService(db)
	productService := services.NewProductService(db, workflowService)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Error("Storage service unavailable, uploads will fail")
	}
	authService := services.NewAuthService(db, cfg)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	merchantHandler := handlers.NewMerchantHandler(productService, storageService)
	adminHandler := handlers.NewAdminHandler(adminService, productService, storageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(db))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.ViewerContext())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.ErrorRecorder(db))

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
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/profile", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Public catalog, approved products only
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
		}

		// Mailbox routes. Visitors get the role broadcast mailbox, signed-in
		// users additionally see items targeted at them.
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetMailbox)
			notifications.GET("/archive", notificationHandler.GetArchive)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.POST("/:id/hide", notificationHandler.HideNotification)
			notifications.POST("/:id/restore", notificationHandler.RestoreNotification)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		// Merchant area
		merchant := v1.Group("/merchant")
		merchant.Use(middleware.AuthRequired(), middleware.MerchantRequired())
		{
			merchant.GET("/products", merchantHandler.GetMyProducts)
			merchant.GET("/products/:id", merchantHandler.GetMyProduct)
			merchant.POST("/products", merchantHandler.CreateProduct)
			merchant.PUT("/products/:id", merchantHandler.UpdateProduct)
			merchant.DELETE("/products/:id", merchantHandler.DeleteProduct)
			merchant.POST("/products/:id/images", middleware.UploadRateLimit(), merchantHandler.UploadProductImage)
			merchant.DELETE("/images/:id", merchantHandler.DeleteProductImage)
		}

		// Admin area
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/products", adminHandler.GetProducts)
			admin.GET("/products/:id", adminHandler.GetProduct)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.POST("/products/:id/approve", adminHandler.ApproveProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
			admin.GET("/error-logs", adminHandler.GetErrorLogs)
			admin.GET("/storage/presign", adminHandler.PresignObject)
			admin.POST("/storage/bucket", adminHandler.EnsureBucket)
			admin.DELETE("/storage/bucket", adminHandler.PurgeBucket)
		}
	}

	return r
}
