package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
	utils "leadhub-backend/shared/utils/auth"
	"leadhub-backend/shared/utils/normalize"
	"leadhub-backend/shared/utils/query"
	"leadhub-backend/shared/utils/rbac"
)

type CreateTenantRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=200"`
	Slug          string     `json:"slug" binding:"required,max=100"`
	PlanID        *uuid.UUID `json:"plan_id"`
	MaxUsers      *int       `json:"max_users"`
	MaxStorageGb  *int       `json:"max_storage_gb"`
	RetentionDays *int       `json:"retention_days"`

	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required"`
	AdminName     string `json:"admin_name" binding:"required,min=1,max=200"`
}

type UpdateTenantRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type UpdateTenantPlanRequest struct {
	PlanID        *uuid.UUID `json:"plan_id"`
	MaxUsers      *int       `json:"max_users"`
	MaxStorageGb  *int       `json:"max_storage_gb"`
	RetentionDays *int       `json:"retention_days"`
	// ApplyFeatureBundle forces the plan's bundle over existing per-tenant
	// rows. Default false keeps tenant customizations and only fills gaps.
	ApplyFeatureBundle bool `json:"apply_feature_bundle"`
}

type SetTenantFeatureRequest struct {
	Enabled bool           `json:"enabled"`
	Config  models.JSONMap `json:"config"`
}

// loadTenant fetches a tenant by path ID, including soft-deleted rows so
// lifecycle operations can address them.
func loadTenant(ctx *gin.Context, db *gorm.DB) (*models.Tenant, bool) {
	tenantID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		apperr.Respond(ctx, apperr.Validation("Invalid tenant ID format"))
		return nil, false
	}

	var tenant models.Tenant
	if err := db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			apperr.Respond(ctx, apperr.NotFound("Tenant not found"))
			return nil, false
		}
		apperr.Respond(ctx, apperr.Internal("Failed to retrieve tenant"))
		return nil, false
	}
	return &tenant, true
}

// GetTenants lists tenants
// @Summary List tenants
// @Description List tenants with pagination, search and filters; soft-deleted tenants are included with their deleted_at set
// @Tags tenants
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Items per page (default: 20)"
// @Param search query string false "Search across name and slug"
// @Param is_active query string false "Filter by active flag (true/false)"
// @Param plan_id query string false "Filter by plan"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /platform/tenants [get]
func GetTenants(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	params := query.ParseListParams(ctx, "is_active", "plan_id")

	dbQuery := db.Model(&models.Tenant{})
	dbQuery = query.Filtered(dbQuery, params.Filters, map[string]string{
		"is_active": "is_active",
		"plan_id":   "plan_id",
	})
	dbQuery = query.Searched(dbQuery, params.Search, "name", "slug")
	dbQuery = query.Sorted(dbQuery, params, map[string]string{
		"name":       "name",
		"slug":       "slug",
		"created_at": "created_at",
	})

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to count tenants"))
		return
	}

	var tenants []models.Tenant
	if err := query.Paginated(dbQuery, params).Preload("Plan").Find(&tenants).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to retrieve tenants"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":      tenants,
			"pagination": query.Meta(params, total),
		},
	})
}

// GetTenant retrieves one tenant with its feature map
// @Summary Get tenant by ID
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /platform/tenants/{id} [get]
func GetTenant(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if tenant.PlanID != nil {
		db.Preload("Features").First(&tenant.Plan, *tenant.PlanID)
	}

	featureMap, err := features.GetTenantFeatureMap(db, tenant.ID)
	if err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to load tenant features"))
		return
	}

	var memberCount int64
	db.Model(&models.Membership{}).Where("tenant_id = ? AND is_active = ?", tenant.ID, true).Count(&memberCount)

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"tenant":        tenant,
			"features":      featureMap,
			"active_members": memberCount,
		},
	})
}

// CreateTenant provisions a tenant workspace
// @Summary Provision a tenant
// @Description Creates the tenant, its initial ADMIN user (reusing an existing account when the email matches), the ADMIN membership and the full feature row set, all in one transaction
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body CreateTenantRequest true "Tenant and initial admin"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Provisioned tenant"
// @Failure 400 {object} map[string]string "Invalid slug or password"
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /platform/tenants [post]
func CreateTenant(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	var req CreateTenantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !normalize.IsValidSlug(slug) {
		apperr.Respond(ctx, apperr.Validation("Slug must be lowercase letters, digits and single hyphens"))
		return
	}
	if err := utils.ValidatePassword(req.AdminPassword); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}
	if (req.MaxUsers != nil && *req.MaxUsers <= 0) ||
		(req.MaxStorageGb != nil && *req.MaxStorageGb <= 0) ||
		(req.RetentionDays != nil && *req.RetentionDays <= 0) {
		apperr.Respond(ctx, apperr.Validation("Limits must be positive integers"))
		return
	}

	db := database.GetDB()

	var planFeatures []models.PlanFeature
	if req.PlanID != nil {
		var plan models.Plan
		if err := db.Preload("Features").First(&plan, *req.PlanID).Error; err != nil {
			apperr.Respond(ctx, apperr.Validation("The specified plan does not exist"))
			return
		}
		if !plan.IsActive {
			apperr.Respond(ctx, apperr.Validation("The specified plan is not available"))
			return
		}
		planFeatures = plan.Features
		// Plan limits become the tenant's own unless overridden.
		if req.MaxUsers == nil {
			req.MaxUsers = &plan.MaxUsers
		}
		if req.MaxStorageGb == nil {
			req.MaxStorageGb = &plan.MaxStorageGb
		}
		if req.RetentionDays == nil {
			req.RetentionDays = &plan.RetentionDays
		}
	}

	adminEmail := strings.ToLower(strings.TrimSpace(req.AdminEmail))

	tenant := models.Tenant{
		Name:          strings.TrimSpace(req.Name),
		Slug:          slug,
		IsActive:      true,
		PlanID:        req.PlanID,
		MaxUsers:      req.MaxUsers,
		MaxStorageGb:  req.MaxStorageGb,
		RetentionDays: req.RetentionDays,
	}

	txErr := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		var admin models.User
		err := tx.Where("email = ?", adminEmail).First(&admin).Error
		if err == gorm.ErrRecordNotFound {
			hashed, hashErr := utils.HashPassword(req.AdminPassword)
			if hashErr != nil {
				return hashErr
			}
			admin = models.User{
				Email:    adminEmail,
				Password: hashed,
				Name:     strings.TrimSpace(req.AdminName),
			}
			if err := tx.Create(&admin).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		membership := models.Membership{
			UserID:   admin.ID,
			TenantID: tenant.ID,
			Role:     rbac.RoleAdmin,
			IsActive: true,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		rows := features.BuildDefaultRows(tenant.ID, planFeatures)
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "feature_key"}},
			DoNothing: true,
		}).Create(&rows).Error
	})
	if txErr != nil {
		if txErr == gorm.ErrDuplicatedKey {
			apperr.Respond(ctx, apperr.Conflict("A tenant with this slug already exists", ""))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to provision tenant"))
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Tenant provisioned successfully",
		"data":    tenant,
	})
}

// UpdateTenant updates a tenant's basic fields
// @Summary Update tenant basics
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Param tenant body UpdateTenantRequest true "Updated fields"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Slug already exists"
// @Router /platform/tenants/{id} [put]
func UpdateTenant(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	var req UpdateTenantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if len(name) > 200 {
			apperr.Respond(ctx, apperr.Validation("Name must be at most 200 characters"))
			return
		}
		tenant.Name = name
	}
	if req.Slug != "" {
		slug := strings.ToLower(strings.TrimSpace(req.Slug))
		if !normalize.IsValidSlug(slug) {
			apperr.Respond(ctx, apperr.Validation("Slug must be lowercase letters, digits and single hyphens"))
			return
		}
		tenant.Slug = slug
	}

	if err := db.Save(tenant).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			apperr.Respond(ctx, apperr.Conflict("A tenant with this slug already exists", ""))
			return
		}
		apperr.Respond(ctx, apperr.Internal("Failed to update tenant"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant updated successfully",
		"data":    tenant,
	})
}

// UpdateTenantPlan changes a tenant's plan and limits
// @Summary Update tenant plan and limits
// @Description Reassigns the plan and adjusts limits. By default existing per-tenant feature rows are kept and only missing ones are filled from the new plan; apply_feature_bundle=true overwrites them with the plan's bundle.
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Param plan body UpdateTenantPlanRequest true "Plan assignment"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Plan not found or limits invalid"
// @Router /platform/tenants/{id}/plan [put]
func UpdateTenantPlan(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	var req UpdateTenantPlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}
	if (req.MaxUsers != nil && *req.MaxUsers <= 0) ||
		(req.MaxStorageGb != nil && *req.MaxStorageGb <= 0) ||
		(req.RetentionDays != nil && *req.RetentionDays <= 0) {
		apperr.Respond(ctx, apperr.Validation("Limits must be positive integers"))
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if req.PlanID != nil {
		var plan models.Plan
		if err := db.First(&plan, *req.PlanID).Error; err != nil {
			apperr.Respond(ctx, apperr.Validation("The specified plan does not exist"))
			return
		}
	}

	tenant.PlanID = req.PlanID
	if req.MaxUsers != nil {
		tenant.MaxUsers = req.MaxUsers
	}
	if req.MaxStorageGb != nil {
		tenant.MaxStorageGb = req.MaxStorageGb
	}
	if req.RetentionDays != nil {
		tenant.RetentionDays = req.RetentionDays
	}

	if err := db.Save(tenant).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to update tenant plan"))
		return
	}

	if req.PlanID != nil {
		if err := features.MaterializeTenantFeaturesFromPlan(db, tenant.ID, *req.PlanID, req.ApplyFeatureBundle); err != nil {
			apperr.Respond(ctx, apperr.Internal("Failed to apply plan features"))
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant plan updated successfully",
		"data":    tenant,
	})
}

// ToggleTenant flips the tenant's active flag
// @Summary Toggle tenant activation
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Tenant is soft-deleted"
// @Router /platform/tenants/{id}/toggle [post]
func ToggleTenant(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if tenant.DeletedAt != nil {
		apperr.Respond(ctx, apperr.Conflict("Cannot toggle a deleted tenant; restore it first", ""))
		return
	}

	tenant.IsActive = !tenant.IsActive
	if err := db.Save(tenant).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to update tenant"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": tenant.ID, "is_active": tenant.IsActive},
	})
}

// DeleteTenant soft-deletes a tenant
// @Summary Soft-delete a tenant
// @Description Marks the tenant deleted and forces it inactive; data is retained for restore
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /platform/tenants/{id} [delete]
func DeleteTenant(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if tenant.DeletedAt != nil {
		apperr.Respond(ctx, apperr.Conflict("Tenant is already deleted", ""))
		return
	}

	now := time.Now()
	tenant.DeletedAt = &now
	tenant.IsActive = false
	if err := db.Save(tenant).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to delete tenant"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant deleted successfully",
	})
}

// RestoreTenant clears the soft-delete mark
// @Summary Restore a soft-deleted tenant
// @Description Clears deleted_at; the tenant stays inactive until explicitly toggled back on
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Tenant is not deleted"
// @Router /platform/tenants/{id}/restore [post]
func RestoreTenant(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if tenant.DeletedAt == nil {
		apperr.Respond(ctx, apperr.Conflict("Tenant is not deleted", ""))
		return
	}

	// Restore does not reactivate; that is a separate, deliberate toggle.
	tenant.DeletedAt = nil
	if err := db.Save(tenant).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to restore tenant"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Tenant restored successfully",
		"data":    gin.H{"id": tenant.ID, "is_active": tenant.IsActive},
	})
}

// GetTenantFeatures returns the tenant's materialized feature rows
// @Summary Get tenant feature entitlements
// @Description Backfills missing rows from the plan (or core defaults) and returns the full per-key state
// @Tags tenants
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /platform/tenants/{id}/features [get]
func GetTenantFeatures(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if err := features.EnsureTenantFeatureRows(db, tenant.ID); err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to backfill tenant features"))
		return
	}

	var rows []models.TenantFeature
	if err := db.Where("tenant_id = ?", tenant.ID).Order("feature_key").Find(&rows).Error; err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to load tenant features"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":  rows,
			"labels": features.Labels,
		},
	})
}

// SetTenantFeature overrides a single feature for a tenant
// @Summary Set a tenant feature override
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID" format(uuid)
// @Param key path string true "Feature key"
// @Param feature body SetTenantFeatureRequest true "Override value"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Unknown feature key"
// @Router /platform/tenants/{id}/features/{key} [put]
func SetTenantFeature(ctx *gin.Context) {
	if _, err := guard.RequireSuperAdmin(ctx); err != nil {
		apperr.Respond(ctx, err)
		return
	}

	key := ctx.Param("key")
	if !features.IsValidKey(key) {
		apperr.Respond(ctx, apperr.Validation("Unknown feature key: "+key))
		return
	}

	var req SetTenantFeatureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		apperr.Respond(ctx, apperr.Validation(err.Error()))
		return
	}

	db := database.GetDB()
	tenant, ok := loadTenant(ctx, db)
	if !ok {
		return
	}

	if err := features.SetTenantFeature(db, tenant.ID, key, req.Enabled, req.Config); err != nil {
		apperr.Respond(ctx, apperr.Internal("Failed to set tenant feature"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"tenant_id": tenant.ID, "feature_key": key, "enabled": req.Enabled},
	})
}
