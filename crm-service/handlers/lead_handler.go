package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/crm-service/services"
	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
	"leadhub-backend/shared/utils/query"
)

type LeadHandler struct {
	db    *gorm.DB
	leads *services.LeadService
}

func NewLeadHandler(db *gorm.DB) *LeadHandler {
	return &LeadHandler{db: db, leads: services.NewLeadService(db)}
}

type CreateLeadRequest struct {
	BusinessName string     `json:"business_name" binding:"required,min=1,max=200"`
	Ruc          *string    `json:"ruc"`
	Country      *string    `json:"country"`
	City         *string    `json:"city"`
	Industry     *string    `json:"industry"`
	Source       *string    `json:"source"`
	Notes        *string    `json:"notes"`
	Phones       []string   `json:"phones"`
	Emails       []string   `json:"emails"`
	Status       string     `json:"status"`
	OwnerID      *uuid.UUID `json:"owner_id"`
}

type UpdateLeadRequest struct {
	BusinessName *string  `json:"business_name"`
	Ruc          *string  `json:"ruc"`
	Country      *string  `json:"country"`
	City         *string  `json:"city"`
	Industry     *string  `json:"industry"`
	Source       *string  `json:"source"`
	Notes        *string  `json:"notes"`
	Phones       []string `json:"phones"`
	Emails       []string `json:"emails"`
	Status       *string  `json:"status"`
}

type AssignLeadRequest struct {
	// OwnerID nil unassigns the lead.
	OwnerID *uuid.UUID `json:"owner_id"`
}

type BulkAssignRequest struct {
	LeadIDs []uuid.UUID `json:"lead_ids" binding:"required,min=1,max=500"`
	OwnerID *uuid.UUID  `json:"owner_id"`
}

// GetLeads lists the tenant's leads
// @Summary List leads
// @Description List non-archived leads with pagination, search over name and RUC, and status/owner filters
// @Tags leads
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search across business name and RUC"
// @Param status query string false "Filter by status"
// @Param owner_id query string false "Filter by owner"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Feature disabled"
// @Router /crm/{slug}/leads [get]
func (h *LeadHandler) GetLeads(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	params := query.ParseListParams(c, "status", "owner_id")

	dbQuery := h.db.Model(&models.Lead{}).
		Where("tenant_id = ? AND deleted_at IS NULL", ctx.Tenant.ID)
	dbQuery = query.Filtered(dbQuery, params.Filters, map[string]string{
		"status":   "status",
		"owner_id": "owner_id",
	})
	dbQuery = query.Searched(dbQuery, params.Search, "business_name", "ruc")
	dbQuery = query.Sorted(dbQuery, params, map[string]string{
		"business_name": "business_name",
		"status":        "status",
		"created_at":    "created_at",
		"updated_at":    "updated_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to count leads"))
		return
	}

	var leads []models.Lead
	if err := query.Paginated(dbQuery, params).Preload("Owner").Find(&leads).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve leads"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      leads,
			"pagination": query.Meta(params, total),
		},
	})
}

// GetLead retrieves one lead
// @Summary Get lead by ID
// @Tags leads
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Lead ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Lead not found"
// @Router /crm/{slug}/leads/{id} [get]
func (h *LeadHandler) GetLead(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid lead ID format"))
		return
	}

	var lead models.Lead
	err = h.db.Preload("Owner").
		Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", leadID, ctx.Tenant.ID).
		First(&lead).Error
	if err == gorm.ErrRecordNotFound {
		apperr.Respond(c, apperr.NotFound("Lead not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve lead"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": lead})
}

// CreateLead creates a lead
// @Summary Create a lead
// @Tags leads
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param lead body CreateLeadRequest true "Lead payload"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created lead"
// @Failure 409 {object} map[string]string "Duplicate RUC"
// @Router /crm/{slug}/leads [post]
func (h *LeadHandler) CreateLead(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	lead, appErr := h.leads.Create(ctx, services.CreateLeadInput{
		BusinessName: req.BusinessName,
		Ruc:          req.Ruc,
		Country:      req.Country,
		City:         req.City,
		Industry:     req.Industry,
		Source:       req.Source,
		Notes:        req.Notes,
		Phones:       req.Phones,
		Emails:       req.Emails,
		Status:       req.Status,
		OwnerID:      req.OwnerID,
	})
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Lead created successfully",
		"data":    lead,
	})
}

// UpdateLead edits a lead
// @Summary Update a lead
// @Description Partial update; ownership changes must go through the assign endpoint
// @Tags leads
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Lead ID" format(uuid)
// @Param lead body UpdateLeadRequest true "Changed fields"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated lead"
// @Failure 403 {object} map[string]string "No edit permission"
// @Failure 409 {object} map[string]string "Duplicate RUC"
// @Router /crm/{slug}/leads/{id} [put]
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid lead ID format"))
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	lead, appErr := h.leads.Update(ctx, leadID, services.UpdateLeadInput{
		BusinessName: req.BusinessName,
		Ruc:          req.Ruc,
		Country:      req.Country,
		City:         req.City,
		Industry:     req.Industry,
		Source:       req.Source,
		Notes:        req.Notes,
		Phones:       req.Phones,
		Emails:       req.Emails,
		Status:       req.Status,
	})
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lead updated successfully",
		"data":    lead,
	})
}

// ArchiveLead soft-deletes a lead
// @Summary Archive a lead
// @Description Soft-deletes the lead; its RUC becomes reusable
// @Tags leads
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Lead ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "No edit permission"
// @Router /crm/{slug}/leads/{id} [delete]
func (h *LeadHandler) ArchiveLead(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid lead ID format"))
		return
	}

	if appErr := h.leads.Archive(ctx, leadID); appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lead archived successfully",
	})
}

// AssignLead sets or clears a lead's owner
// @Summary Assign a lead
// @Description Requires the ASSIGNMENTS feature and SUPERVISOR or higher
// @Tags leads
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Lead ID" format(uuid)
// @Param assignment body AssignLeadRequest true "New owner (null to unassign)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated lead"
// @Failure 403 {object} map[string]string "No assignment permission"
// @Router /crm/{slug}/leads/{id}/assign [post]
func (h *LeadHandler) AssignLead(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid lead ID format"))
		return
	}

	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	lead, appErr := h.leads.Assign(ctx, leadID, req.OwnerID)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Lead assigned successfully",
		"data":    lead,
	})
}

// BulkAssignLeads reassigns a batch of leads
// @Summary Bulk-assign leads
// @Description Assigns up to 500 leads to one owner (or unassigns them) in a single statement
// @Tags leads
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param assignment body BulkAssignRequest true "Lead ids and new owner"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated count"
// @Failure 403 {object} map[string]string "No assignment permission"
// @Router /crm/{slug}/bulk-assign [post]
func (h *LeadHandler) BulkAssignLeads(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	var req BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	updated, appErr := h.leads.BulkAssign(ctx, req.LeadIDs, req.OwnerID)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"updated": updated},
	})
}
