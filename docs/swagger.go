// Package docs LeadHub API documentation
package docs

// Swagger documentation info
// @title LeadHub API
// @version 1.0
// @description Central API documentation - For all LeadHub microservices

// @contact.name API Support
// @contact.email support@leadhub.local

// @host localhost:8000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// Auth Service Endpoints
// @tag.name auth
// @tag.description Authentication and session management

// Platform Service Endpoints
// @tag.name plans
// @tag.description Subscription plan management
// @tag.name tenants
// @tag.description Tenant provisioning and lifecycle

// CRM Service Endpoints
// @tag.name leads
// @tag.description Lead management
// @tag.name reassignments
// @tag.description Lead reassignment workflow
// @tag.name team
// @tag.description Tenant team management
// @tag.name dashboard
// @tag.description Tenant dashboard summary

// Document Service Endpoints
// @tag.name documents
// @tag.description Tenant document storage
