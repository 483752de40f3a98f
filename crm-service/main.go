package main

import (
	"log"
	"net/http"
	"strings"

	"leadhub-backend/crm-service/handlers"
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

	db := database.GetDB()
	leadHandler := handlers.NewLeadHandler(db)
	reassignmentHandler := handlers.NewReassignmentHandler(db)
	teamHandler := handlers.NewTeamHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db)

	router := gin.Default()

	api := router.Group("/api/crm/:slug", middleware.AuthMiddleware())

	// Lead endpoints
	api.GET("/leads", leadHandler.GetLeads)
	api.GET("/leads/:id", leadHandler.GetLead)
	api.POST("/leads", leadHandler.CreateLead)
	api.PUT("/leads/:id", leadHandler.UpdateLead)
	api.DELETE("/leads/:id", leadHandler.ArchiveLead)
	api.POST("/leads/:id/assign", leadHandler.AssignLead)
	api.POST("/bulk-assign", leadHandler.BulkAssignLeads)

	// Reassignment workflow endpoints
	api.GET("/reassignments", reassignmentHandler.GetReassignments)
	api.POST("/reassignments", reassignmentHandler.CreateReassignment)
	api.POST("/reassignments/:id/resolve", reassignmentHandler.ResolveReassignment)

	// Team management endpoints
	api.GET("/team", teamHandler.GetTeam)
	api.POST("/team", teamHandler.AddMember)
	api.PUT("/team/:id/role", teamHandler.UpdateMemberRole)
	api.POST("/team/:id/toggle", teamHandler.ToggleMember)

	// Dashboard endpoint
	api.GET("/dashboard", dashboardHandler.GetDashboard)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "crm",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(config.GetConfig().CRMServiceURL, ":")[2]
	log.Printf("CRM Service starting on port %s...", port)
	router.Run(":" + port)
}
