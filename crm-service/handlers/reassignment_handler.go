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

type ReassignmentHandler struct {
	db            *gorm.DB
	reassignments *services.ReassignmentService
}

func NewReassignmentHandler(db *gorm.DB) *ReassignmentHandler {
	return &ReassignmentHandler{db: db, reassignments: services.NewReassignmentService(db)}
}

type CreateReassignmentRequest struct {
	LeadID           uuid.UUID  `json:"lead_id" binding:"required"`
	RequestedOwnerID *uuid.UUID `json:"requested_owner_id"`
	Reason           string     `json:"reason" binding:"required,min=5,max=1000"`
}

type ResolveReassignmentRequest struct {
	Approve bool `json:"approve"`
	// OwnerID overrides the requester's suggestion when approving.
	OwnerID        *uuid.UUID `json:"owner_id"`
	ResolutionNote *string    `json:"resolution_note"`
}

// GetReassignments lists reassignment requests
// @Summary List reassignment requests
// @Tags reassignments
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param status query string false "Filter by status (PENDING, APPROVED, REJECTED)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Feature disabled"
// @Router /crm/{slug}/reassignments [get]
func (h *ReassignmentHandler) GetReassignments(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyAssignments)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	params := query.ParseListParams(c, "status")

	dbQuery := h.db.Model(&models.LeadReassignmentRequest{}).
		Where("tenant_id = ?", ctx.Tenant.ID)
	dbQuery = query.Filtered(dbQuery, params.Filters, map[string]string{"status": "status"})
	dbQuery = query.Sorted(dbQuery, params, map[string]string{
		"status":     "status",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to count reassignment requests"))
		return
	}

	var requests []models.LeadReassignmentRequest
	err := query.Paginated(dbQuery, params).
		Preload("Lead").
		Preload("RequestedBy").
		Preload("RequestedOwner").
		Preload("ResolvedBy").
		Find(&requests).Error
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve reassignment requests"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      requests,
			"pagination": query.Meta(params, total),
		},
	})
}

// CreateReassignment opens a reassignment request
// @Summary Request a lead reassignment
// @Description For members who cannot edit the lead directly; actors with edit rights are rejected and told to edit instead
// @Tags reassignments
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param request body CreateReassignmentRequest true "Lead, optional suggested owner and reason"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created request"
// @Failure 403 {object} map[string]string "Feature disabled"
// @Router /crm/{slug}/reassignments [post]
func (h *ReassignmentHandler) CreateReassignment(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	var req CreateReassignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	request, appErr := h.reassignments.Request(ctx, req.LeadID, req.RequestedOwnerID, req.Reason)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Reassignment request created",
		"data":    request,
	})
}

// ResolveReassignment approves or rejects a pending request
// @Summary Resolve a reassignment request
// @Description Approval applies the resolver-supplied owner, falling back to the requester's suggestion; resolution is atomic with the owner change
// @Tags reassignments
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Request ID" format(uuid)
// @Param resolution body ResolveReassignmentRequest true "Verdict"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Resolved request"
// @Failure 409 {object} map[string]string "Already resolved"
// @Router /crm/{slug}/reassignments/{id}/resolve [post]
func (h *ReassignmentHandler) ResolveReassignment(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyCRMLeads)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request ID format"))
		return
	}

	var req ResolveReassignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}

	request, appErr := h.reassignments.Resolve(ctx, requestID, req.Approve, req.OwnerID, req.ResolutionNote)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Reassignment request resolved",
		"data":    request,
	})
}
