package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"leadhub-backend/api-gateway/middleware"
	"leadhub-backend/api-gateway/routes"
	"leadhub-backend/shared/config"

	_ "leadhub-backend/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title LeadHub API
// @version 1.0
// @description API documentation for the LeadHub multi-tenant CRM platform

// @contact.name API Support
// @contact.email support@leadhub.local

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @tag.name auth
// @tag.description Authentication and session operations

// @tag.name plans
// @tag.description Subscription plan management (SuperAdmin)

// @tag.name tenants
// @tag.description Tenant provisioning and lifecycle (SuperAdmin)

// @tag.name leads
// @tag.description Lead management within a tenant

// @tag.name reassignments
// @tag.description Lead reassignment workflow

// @tag.name team
// @tag.description Tenant team management

// @tag.name dashboard
// @tag.description Tenant dashboard summary

// @tag.name documents
// @tag.description Tenant document storage

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

func main() {
	// Load configuration
	config.LoadConfig()

	// Initialize global rate limiter
	rateLimiter := middleware.NewRateLimiter(5 * time.Minute) // Cleanup every 5 minutes
	globalRateConfig := middleware.NewRateLimitConfig()

	router := gin.Default()

	// Add CORS middleware
	router.Use(cors.Default())

	// Global rate limiter middleware
	router.Use(rateLimiter.GlobalRateLimitMiddleware(globalRateConfig))

	// Health check endpoint
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "API Gateway is running", "Port": "8000"})
	})

	// Auth routes. The auth service does its own login throttling.
	router.Any("/api/auth/*path", routes.ProxyToService("auth"))

	// SuperAdmin platform routes (plans, tenant lifecycle, feature
	// overrides). The platform service enforces the SuperAdmin check.
	router.Any("/api/platform/*path", routes.ProxyToService("platform"))

	// Tenant-scoped CRM routes (leads, reassignments, team, dashboard).
	router.Any("/api/crm/*path", routes.ProxyToService("crm"))

	// Tenant document storage routes.
	router.Any("/api/documents/*path", routes.ProxyToService("document"))

	// Swagger documentation UI, development only
	router.GET("/swagger/*any", func(c *gin.Context) {
		if gin.Mode() == gin.DebugMode {
			ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
		} else {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Swagger documentation not available in production",
			})
		}
	})

	// Server Start
	port := strings.Split(config.GetConfig().APIGatewayURL, ":")[2]
	log.Printf("API Gateway is running on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
