package main

import (
	"log"
	"net/http"
	"strings"

	"leadhub-backend/document-service/handlers"
	"leadhub-backend/document-service/services"
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

	// Initialize object storage
	storage, err := services.NewStorageService()
	if err != nil {
		log.Fatalf("❌ Failed to initialize MinIO storage: %v", err)
	}

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	documentHandler := handlers.NewDocumentHandler(database.GetDB(), storage)

	router := gin.Default()

	api := router.Group("/api/documents/:slug", middleware.AuthMiddleware())
	api.GET("", documentHandler.GetDocuments)
	api.POST("", documentHandler.UploadDocument)
	api.GET("/:id/download", documentHandler.DownloadDocument)
	api.DELETE("/:id", documentHandler.DeleteDocument)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "document",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().DocumentServiceURL, ":")[2]
	log.Printf("Document Service starting on port %s...", port)
	router.Run(":" + port)
}
