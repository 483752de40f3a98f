package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
	"leadhub-backend/shared/utils/query"
)

// PlanFeatureInput is one catalog entry inside a plan payload.
type PlanFeatureInput struct {
	FeatureKey string         `json:"feature_key" binding:"required"`
	Enabled    bool           `json:"enabled"`
	Config     models.JSONMap `json:"config"`
}

type CreatePlanRequest struct {
	Name          string             `json:"name" binding:"required,min=1,max=100"`
	Description   string             `json:"description"`
	MaxUsers      int                `json:"max_users" binding:"required,gt=0"`
	MaxStorageGb  int                `json:"max_storage_gb" binding:"required,gt=0"`
	RetentionDays int                `json:"retention_days" binding:"required,gt=0"`
	Features      []PlanFeatureInput `json:"features"`
}

type UpdatePlanRequest struct {
	Name          string             `json:"name"`
	Description   *string            `json:"description"`
	MaxUsers      *int               `json:"max_users"`
	MaxStorageGb  *int               `json:"max_storage_gb"`
	RetentionDays *int               `json:"retention_days"`
	Features      []PlanFeatureInput `json:"features"`
}

// validatePlanFeatures rejects unknown or duplicate catalog keys.
func validatePlanFeatures(inputs []PlanFeatureInput) *apperr.AppError {
	seen := make(map[string]bool, len(inputs))
	for _, f := range inputs {
		if !features.IsValidKey(f.FeatureKey) {
			return apperr.Validation("Unknown feature key: " + f.FeatureKey)
		}
		if seen[f.FeatureKey] {
			return apperr.Validation("Duplicate feature key: " + f.FeatureKey)
		}
		seen[f.FeatureKey] = true
	}
	return nil
}

// GetPlans lists plans with their feature bundles
// @Summary List plans
// @Description List subscription plans with pagination and search
// @Tags plans
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search across name and description"
// @Param is_active query string false "Filter by active flag (true/false)"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /platform/plans [get]
func GetPlans(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	params := query.ParseListParams(ctx, "is_active")

	dbQuery := db.Model(&models.Plan{})
	dbQuery = query.Filtered(dbQuery, params.Filters, map[string]string{"is_active": "is_active"})
	dbQuery = query.Searched(dbQuery, params.Search, "name", "description")
	dbQuery = query.Sorted(dbQuery, params, map[string]string{
		"name":       "name",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to count plans"))
		return
	}

	var plans []models.Plan
	if err := query.Paginated(dbQuery, params).Preload("Features").Find(&plans).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to retrieve plans"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      plans,
			"pagination": query.Meta(params, total),
		},
	})
}

// GetPlan retrieves a single plan
// @Summary Get plan by ID
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Plan not found"
// @Router /platform/plans/{id} [get]
func GetPlan(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	planID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		apperr.Respond(ctx, apperr.Validation("Invalid plan ID format"))
		return
	}

	var plan models.Plan
	if err := database.GetDB().Preload("Features").First(&plan, planID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			apperr.Respond(ctx, apperr.NotFound("Plan not found"))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to retrieve plan"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": plan})
}

// CreatePlan creates a plan with its feature bundle
// @Summary Create a plan
// @Description Create a subscription plan with limits and a feature bundle
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan definition"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created plan"
// @Failure 409 {object} map[string]string "Plan name already exists"
// @Router /platform/plans [post]
func CreatePlan(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	var req CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}
	if appErr := validatePlanFeatures(req.Features); appErr != nil {
		apperr.Respond(ctx, appErr)
		return
	}

	db := database.GetDB()

	plan := models.Plan{
		Name:          req.Name,
		Description:   req.Description,
		MaxUsers:      req.MaxUsers,
		MaxStorageGb:  req.MaxStorageGb,
		RetentionDays: req.RetentionDays,
		IsActive:      true,
	}
	for _, f := range req.Features {
		plan.Features = append(plan.Features, models.PlanFeature{
			FeatureKey: f.FeatureKey,
			Enabled:    f.Enabled,
			Config:     f.Config,
		})
	}

	if err := db.Create(&plan).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			apperr.Respond(ctx, apperr.Conflict("A plan with this name already exists", ""))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to create plan"))
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Plan created successfully",
		"data":    plan,
	})
}

// UpdatePlan updates a plan's limits and feature bundle
// @Summary Update a plan
// @Description Update plan limits; when features are supplied the bundle is replaced. Existing tenants are not touched.
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID" format(uuid)
// @Param plan body UpdatePlanRequest true "Updated plan definition"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Updated plan"
// @Failure 404 {object} map[string]string "Plan not found"
// @Router /platform/plans/{id} [put]
func UpdatePlan(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	planID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		apperr.Respond(ctx, apperr.Validation("Invalid plan ID format"))
		return
	}

	var req UpdatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}
	if appErr := validatePlanFeatures(req.Features); appErr != nil {
		apperr.Respond(ctx, appErr)
		return
	}

	db := database.GetDB()

	var plan models.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			apperr.Respond(ctx, apperr.NotFound("Plan not found"))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to retrieve plan"))
		return
	}

	if req.Name != "" {
		plan.Name = req.Name
	}
	if req.Description != nil {
		plan.Description = *req.Description
	}
	if req.MaxUsers != nil {
		if *req.MaxUsers <= 0 {
			apperr.Respond(ctx, apperr.Validation("max_users must be positive"))
			return
		}
		plan.MaxUsers = *req.MaxUsers
	}
	if req.MaxStorageGb != nil {
		if *req.MaxStorageGb <= 0 {
			apperr.Respond(ctx, apperr.Validation("max_storage_gb must be positive"))
			return
		}
		plan.MaxStorageGb = *req.MaxStorageGb
	}
	if req.RetentionDays != nil {
		if *req.RetentionDays <= 0 {
			apperr.Respond(ctx, apperr.Validation("retention_days must be positive"))
			return
		}
		plan.RetentionDays = *req.RetentionDays
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&plan).Error; err != nil {
			return err
		}
		if req.Features != nil {
			if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.PlanFeature{}).Error; err != nil {
				return err
			}
			for _, f := range req.Features {
				row := models.PlanFeature{
					PlanID:     plan.ID,
					FeatureKey: f.FeatureKey,
					Enabled:    f.Enabled,
					Config:     f.Config,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		if txErr == gorm.ErrDuplicatedKey {
			apperr.Respond(ctx, apperr.Conflict("A plan with this name already exists", ""))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to update plan"))
		return
	}

	if err := db.Preload("Features").First(&plan, plan.ID).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to reload plan"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Plan updated successfully",
		"data":    plan,
	})
}

// TogglePlan flips a plan's active flag
// @Summary Toggle plan availability
// @Description Deactivated plans are hidden from new tenant provisioning; existing tenants keep their copied limits
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Plan not found"
// @Router /platform/plans/{id}/toggle [post]
func TogglePlan(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	planID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		apperr.Respond(ctx, apperr.Validation("Invalid plan ID format"))
		return
	}

	db := database.GetDB()

	var plan models.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			apperr.Respond(ctx, apperr.NotFound("Plan not found"))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to retrieve plan"))
		return
	}

	plan.IsActive = !plan.IsActive
	if err := db.Save(&plan).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to update plan"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": plan.ID, "is_active": plan.IsActive},
	})
}
