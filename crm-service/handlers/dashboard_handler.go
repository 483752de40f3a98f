package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GetDashboard returns the tenant's lead summary
// @Summary Dashboard summary
// @Description Lead counts per status plus unassigned and pending-reassignment totals
// @Tags dashboard
// @Produce json
// @Param slug path string true "Tenant slug"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Feature disabled"
// @Router /crm/{slug}/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx, appErr := guard.RequireTenantFeature(h.db, c, c.Param("slug"), features.KeyDashboard)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var counts []statusCount
	err := h.db.Model(&models.Lead{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ? AND deleted_at IS NULL", ctx.Tenant.ID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to compute lead summary"))
		return
	}

	byStatus := make(map[string]int64, len(models.LeadStatuses))
	var total int64
	for _, s := range models.LeadStatuses {
		byStatus[s] = 0
	}
	for _, row := range counts {
		byStatus[row.Status] = row.Count
		total += row.Count
	}

	var unassigned int64
	h.db.Model(&models.Lead{}).
		Where("tenant_id = ? AND deleted_at IS NULL AND owner_id IS NULL", ctx.Tenant.ID).
		Count(&unassigned)

	var pendingReassignments int64
	h.db.Model(&models.LeadReassignmentRequest{}).
		Where("tenant_id = ? AND status = ?", ctx.Tenant.ID, models.ReassignmentStatusPending).
		Count(&pendingReassignments)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_leads":           total,
			"by_status":             byStatus,
			"unassigned":            unassigned,
			"pending_reassignments": pendingReassignments,
		},
	})
}
