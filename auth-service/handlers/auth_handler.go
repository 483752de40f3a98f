package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/guard"
	utils "leadhub-backend/shared/utils/auth"
	"leadhub-backend/shared/utils/cache"
)

// PlatformAudience is the pseudo-slug that selects a platform (SuperAdmin)
// session instead of a tenant-bound one.
const PlatformAudience = "superadmin"

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"vendedor@acme.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	// TenantSlug selects the audience: a tenant slug, or "superadmin"
	// (or empty) for a platform session.
	TenantSlug string `json:"tenant_slug" example:"acme-sa"`
}

type SessionInfo struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	TenantID     string    `json:"tenant_id,omitempty"`
	TenantSlug   string    `json:"tenant_slug,omitempty"`
	Role         string    `json:"role,omitempty"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Session   SessionInfo `json:"session"`
}

type SwitchTenantRequest struct {
	// TenantSlug is the tenant to bind the session to. Empty clears the
	// binding back to a platform session (SuperAdmin only).
	TenantSlug string `json:"tenant_slug" example:"acme-sa"`
}

type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

// POST /api/auth/login
// @Summary Authenticate against the platform or a tenant
// @Description Verifies credentials for the requested audience and issues a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credentials and audience"
// @Success 200 {object} handlers.LoginResponse "Session token"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	clientIP := c.ClientIP()

	limiter := cache.GetLoginLimiter()
	if limiter != nil {
		if blocked, err := limiter.IsBlocked(email, clientIP); err == nil && blocked {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
			return
		}
	}

	// Credential failures stay generic so user existence is never revealed.
	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		h.registerFailure(limiter, email, clientIP)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		h.registerFailure(limiter, email, clientIP)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	audience := strings.ToLower(strings.TrimSpace(req.TenantSlug))
	var binding *utils.TenantBinding

	if audience == "" || audience == PlatformAudience {
		if !user.IsSuperAdmin {
			h.registerFailure(limiter, email, clientIP)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
	} else {
		var err *apperr.AppError
		binding, err = h.resolveTenantBinding(user.ID, audience)
		if err != nil {
			h.registerFailure(limiter, email, clientIP)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
	}

	token, err := utils.GenerateJWT(user.ID, user.Email, user.IsSuperAdmin, binding)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	if limiter != nil {
		limiter.Reset(email, clientIP)
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(utils.GetJWTExpireDuration()),
		Session:   sessionInfo(&user, binding),
	})
}

// POST /api/auth/switch-tenant
// @Summary Rebind the session to another tenant
// @Description Re-validates membership in the target tenant and reissues the token with updated tenant claims
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param switch body SwitchTenantRequest true "Target tenant"
// @Success 200 {object} handlers.LoginResponse "Reissued token"
// @Failure 401 {object} map[string]string "No access to target tenant"
// @Router /auth/switch-tenant [post]
func (h *AuthHandler) SwitchTenant(c *gin.Context) {
	var req SwitchTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claimsValue, exists := c.Get(guard.ClaimsKey)
	claims, ok := claimsValue.(*utils.Claims)
	if !exists || !ok {
		apperr.Respond(c, apperr.Unauthorized("Authentication required", "/login"))
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		apperr.Respond(c, apperr.Unauthorized("Authentication required", "/login"))
		return
	}

	audience := strings.ToLower(strings.TrimSpace(req.TenantSlug))
	var binding *utils.TenantBinding

	if audience == "" || audience == PlatformAudience {
		// Clearing the binding yields a platform session.
		if !user.IsSuperAdmin {
			apperr.Respond(c, apperr.Forbidden("Platform sessions require SuperAdmin"))
			return
		}
	} else {
		var appErr *apperr.AppError
		binding, appErr = h.resolveTenantBinding(user.ID, audience)
		if appErr != nil {
			if user.IsSuperAdmin {
				// SuperAdmins may bind to any live tenant without a
				// membership; guards treat them as impersonating.
				binding, appErr = h.superAdminBinding(audience)
			}
			if appErr != nil {
				apperr.Respond(c, appErr)
				return
			}
		}
	}

	// Token layer only swaps claims; membership was re-validated above.
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := utils.UpdateTenantClaims(tokenString, binding)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reissue token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Session:   sessionInfo(&user, binding),
	})
}

// GET /api/auth/me
// @Summary Current session
// @Description Returns the authenticated user's session claims
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.SessionInfo "Session claims"
// @Failure 401 {object} map[string]string "Not authenticated"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claimsValue, exists := c.Get(guard.ClaimsKey)
	claims, ok := claimsValue.(*utils.Claims)
	if !exists || !ok {
		apperr.Respond(c, apperr.Unauthorized("Authentication required", "/login"))
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		apperr.Respond(c, apperr.Unauthorized("Authentication required", "/login"))
		return
	}

	info := SessionInfo{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		IsSuperAdmin: user.IsSuperAdmin,
		TenantID:     claims.TenantID,
		TenantSlug:   claims.TenantSlug,
		Role:         claims.Role,
	}
	c.JSON(http.StatusOK, info)
}

// POST /api/auth/validate
// @Summary Validate a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param validate body ValidateRequest true "Token to validate"
// @Success 200 {object} map[string]interface{} "Validation result"
// @Router /auth/validate [post]
func (h *AuthHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateJWT(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"expires_at": claims.ExpiresAt.Time,
	})
}

// resolveTenantBinding checks the target tenant is live and the user holds
// an active membership in it.
func (h *AuthHandler) resolveTenantBinding(userID uuid.UUID, slug string) (*utils.TenantBinding, *apperr.AppError) {
	var tenant models.Tenant
	if err := h.db.Where("slug = ? AND deleted_at IS NULL", slug).First(&tenant).Error; err != nil {
		return nil, apperr.Unauthorized("No access to this tenant", "/login")
	}
	if !tenant.IsActive {
		return nil, apperr.Unauthorized("No access to this tenant", "/login")
	}

	var membership models.Membership
	if err := h.db.Where("user_id = ? AND tenant_id = ?", userID, tenant.ID).First(&membership).Error; err != nil {
		return nil, apperr.Unauthorized("No access to this tenant", "/login")
	}
	if !membership.IsActive {
		return nil, apperr.Unauthorized("No access to this tenant", "/login")
	}

	return &utils.TenantBinding{
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
		Role:       membership.Role,
	}, nil
}

// superAdminBinding binds to a live tenant with no role; guards bypass
// role checks for SuperAdmins anyway.
func (h *AuthHandler) superAdminBinding(slug string) (*utils.TenantBinding, *apperr.AppError) {
	var tenant models.Tenant
	if err := h.db.Where("slug = ? AND deleted_at IS NULL", slug).First(&tenant).Error; err != nil {
		return nil, apperr.NotFound("Tenant not found")
	}
	return &utils.TenantBinding{
		TenantID:   tenant.ID,
		TenantSlug: tenant.Slug,
	}, nil
}

func (h *AuthHandler) registerFailure(limiter *cache.LoginLimiter, email, ip string) {
	if limiter == nil {
		return
	}
	limiter.RegisterFailure(email, ip)
}

func sessionInfo(user *models.User, binding *utils.TenantBinding) SessionInfo {
	info := SessionInfo{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		IsSuperAdmin: user.IsSuperAdmin,
	}
	if binding != nil {
		info.TenantID = binding.TenantID.String()
		info.TenantSlug = binding.TenantSlug
		info.Role = binding.Role
	}
	return info
}
