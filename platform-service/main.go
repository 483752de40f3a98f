package main

import (
	"log"
	"net/http"
	"strings"

	"leadhub-backend/platform-service/handlers"
	"leadhub-backend/shared/config"
	"leadhub-backend/shared/database"
	"leadhub-backend/shared/middleware"

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

	router := gin.Default()

	// Every platform route requires an authenticated SuperAdmin; the
	// handlers enforce the SuperAdmin part.
	api := router.Group("/api/platform", middleware.AuthMiddleware())

	// Plan endpoints
	api.GET("/plans", handlers.GetPlans)
	api.GET("/plans/:id", handlers.GetPlan)
	api.POST("/plans", handlers.CreatePlan)
	api.PUT("/plans/:id", handlers.UpdatePlan)
	api.POST("/plans/:id/toggle", handlers.TogglePlan)

	// Tenant lifecycle endpoints
	api.GET("/tenants", handlers.GetTenants)
	api.GET("/tenants/:id", handlers.GetTenant)
	api.POST("/tenants", handlers.CreateTenant)
	api.PUT("/tenants/:id", handlers.UpdateTenant)
	api.PUT("/tenants/:id/plan", handlers.UpdateTenantPlan)
	api.POST("/tenants/:id/toggle", handlers.ToggleTenant)
	api.DELETE("/tenants/:id", handlers.DeleteTenant)
	api.POST("/tenants/:id/restore", handlers.RestoreTenant)

	// Per-tenant feature overrides
	api.GET("/tenants/:id/features", handlers.GetTenantFeatures)
	api.PUT("/tenants/:id/features/:key", handlers.SetTenantFeature)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "platform",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().PlatformServiceURL, ":")[2]
	log.Printf("Platform Service starting on port %s...", port)
	router.Run(":" + port)
}
