package main

import (
	"log"
	"net/http"
	"strings"

	"leadhub-backend/auth-service/handlers"
	"leadhub-backend/shared/config"
	"leadhub-backend/shared/database"
	"leadhub-backend/shared/middleware"
	"leadhub-backend/shared/utils/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Login attempt limiter is best-effort; without Redis logins still work.
	if err := cache.InitLoginLimiter(); err != nil {
		log.Printf("⚠️  Login limiter disabled: %v", err)
	}

	authHandler := handlers.NewAuthHandler(database.GetDB())

	router := gin.Default()

	// Auth endpoints
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/validate", authHandler.Validate)
	router.POST("/api/auth/switch-tenant", middleware.AuthMiddleware(), authHandler.SwitchTenant)
	router.GET("/api/auth/me", middleware.AuthMiddleware(), authHandler.Me)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "auth",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().AuthServiceURL, ":")[2]
	log.Printf("Auth Service starting on port %s...", port)
	router.Run(":" + port)
}
