package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/guard"
	utils "leadhub-backend/shared/utils/auth"
	"leadhub-backend/shared/utils/rbac"
)

type TeamHandler struct {
	db *gorm.DB
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{db: db}
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"max=200"`
	// Password is required only when the email does not match an existing
	// account.
	Password string `json:"password"`
	Role     string `json:"role" binding:"required"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// activeMemberCount counts memberships that occupy a seat.
func (h *TeamHandler) activeMemberCount(tenantID uuid.UUID) (int64, error) {
	var count int64
	err := h.db.Model(&models.Membership{}).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Count(&count).Error
	return count, err
}

// seatAvailable enforces the tenant's max_users limit on activation paths.
func (h *TeamHandler) seatAvailable(tenant *models.Tenant) (bool, error) {
	if tenant.MaxUsers == nil {
		return true, nil
	}
	count, err := h.activeMemberCount(tenant.ID)
	if err != nil {
		return false, err
	}
	return count < int64(*tenant.MaxUsers), nil
}

// GetTeam lists the tenant's members
// @Summary List team members
// @Tags team
// @Produce json
// @Param slug path string true "Tenant slug"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "No tenant access"
// @Router /crm/{slug}/team [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	ctx, appErr := guard.RequireTenantAccess(h.db, c, c.Param("slug"))
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	var memberships []models.Membership
	err := h.db.Preload("User").
		Where("tenant_id = ?", ctx.Tenant.ID).
		Order("created_at").
		Find(&memberships).Error
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve team"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":     memberships,
			"max_users": ctx.Tenant.MaxUsers,
		},
	})
}

// AddMember adds a user to the tenant
// @Summary Add a team member
// @Description Creates the account when the email is new (password required), otherwise attaches the existing account. Reactivating a previously removed member reuses their membership row. Enforces the tenant's max_users limit.
// @Tags team
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param member body AddMemberRequest true "Member to add"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{} "Created membership"
// @Failure 409 {object} map[string]string "Already a member or no seats left"
// @Router /crm/{slug}/team [post]
func (h *TeamHandler) AddMember(c *gin.Context) {
	ctx, appErr := guard.RequireTenantRole(h.db, c, c.Param("slug"), rbac.RoleAdmin)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}
	if !rbac.IsValid(req.Role) {
		apperr.Respond(c, apperr.Validation("Unknown role: "+req.Role))
		return
	}

	ok, err := h.seatAvailable(&ctx.Tenant)
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to check member limit"))
		return
	}
	if !ok {
		apperr.Respond(c, apperr.Conflict("This workspace has reached its member limit", ""))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var membership models.Membership
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", email).First(&user).Error
		if err == gorm.ErrRecordNotFound {
			if pwErr := utils.ValidatePassword(req.Password); pwErr != nil {
				appErr = apperr.Validation("A valid password is required for a new account")
				return gorm.ErrInvalidData
			}
			hashed, hashErr := utils.HashPassword(req.Password)
			if hashErr != nil {
				return hashErr
			}
			user = models.User{
				Email:    email,
				Password: hashed,
				Name:     strings.TrimSpace(req.Name),
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		var existing models.Membership
		err = tx.Where("user_id = ? AND tenant_id = ?", user.ID, ctx.Tenant.ID).First(&existing).Error
		if err == nil {
			if existing.IsActive {
				appErr = apperr.Conflict("This user is already a member of the workspace", "")
				return gorm.ErrInvalidData
			}
			existing.IsActive = true
			existing.Role = req.Role
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			membership = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		membership = models.Membership{
			UserID:   user.ID,
			TenantID: ctx.Tenant.ID,
			Role:     req.Role,
			IsActive: true,
		}
		return tx.Create(&membership).Error
	})
	if txErr != nil {
		if appErr != nil {
			apperr.Respond(c, appErr)
			return
		}
		apperr.Respond(c, apperr.Internal("Failed to add member"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Member added successfully",
		"data":    membership,
	})
}

// UpdateMemberRole changes a member's role
// @Summary Change a member's role
// @Tags team
// @Accept json
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Membership ID" format(uuid)
// @Param role body UpdateMemberRoleRequest true "New role"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Membership not found"
// @Router /crm/{slug}/team/{id}/role [put]
func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	ctx, appErr := guard.RequireTenantRole(h.db, c, c.Param("slug"), rbac.RoleAdmin)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	membershipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid membership ID format"))
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error()))
		return
	}
	if !rbac.IsValid(req.Role) {
		apperr.Respond(c, apperr.Validation("Unknown role: "+req.Role))
		return
	}

	var membership models.Membership
	err = h.db.Where("id = ? AND tenant_id = ?", membershipID, ctx.Tenant.ID).First(&membership).Error
	if err == gorm.ErrRecordNotFound {
		apperr.Respond(c, apperr.NotFound("Membership not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve membership"))
		return
	}

	membership.Role = req.Role
	if err := h.db.Save(&membership).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to update member role"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Member role updated",
		"data":    membership,
	})
}

// ToggleMember flips a member's active flag
// @Summary Toggle a member's active state
// @Description Reactivation counts against the tenant's max_users limit
// @Tags team
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param id path string true "Membership ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "No seats left"
// @Router /crm/{slug}/team/{id}/toggle [post]
func (h *TeamHandler) ToggleMember(c *gin.Context) {
	ctx, appErr := guard.RequireTenantRole(h.db, c, c.Param("slug"), rbac.RoleAdmin)
	if appErr != nil {
		apperr.Respond(c, appErr)
		return
	}

	membershipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid membership ID format"))
		return
	}

	var membership models.Membership
	err = h.db.Where("id = ? AND tenant_id = ?", membershipID, ctx.Tenant.ID).First(&membership).Error
	if err == gorm.ErrRecordNotFound {
		apperr.Respond(c, apperr.NotFound("Membership not found"))
		return
	}
	if err != nil {
		apperr.Respond(c, apperr.Internal("Failed to retrieve membership"))
		return
	}

	if !membership.IsActive {
		ok, err := h.seatAvailable(&ctx.Tenant)
		if err != nil {
			apperr.Respond(c, apperr.Internal("Failed to check member limit"))
			return
		}
		if !ok {
			apperr.Respond(c, apperr.Conflict("This workspace has reached its member limit", ""))
			return
		}
	}

	membership.IsActive = !membership.IsActive
	if err := h.db.Save(&membership).Error; err != nil {
		apperr.Respond(c, apperr.Internal("Failed to update membership"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"id": membership.ID, "is_active": membership.IsActive},
	})
}
