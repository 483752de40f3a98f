// Package guard resolves {session, tenant, membership} for tenant-scoped
// requests. Guard functions are the only constructors of TenantContext;
// handlers thread the resolved context through explicitly instead of
// re-reading ambient session state.
package guard

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/leadperm"
	utils "leadhub-backend/shared/utils/auth"
	"leadhub-backend/shared/utils/rbac"
)

// ClaimsKey is the gin context key the auth middleware stores parsed
// session claims under.
const ClaimsKey = "sessionClaims"

// TenantContext is the resolved actor context for one tenant-scoped
// request. Membership is nil when a platform admin is impersonating.
type TenantContext struct {
	Claims     *utils.Claims
	UserID     uuid.UUID
	Tenant     models.Tenant
	Membership *models.Membership
}

// Role returns the actor's tenant role, empty for impersonating platform
// admins.
func (ctx *TenantContext) Role() string {
	if ctx.Membership == nil {
		return ""
	}
	return ctx.Membership.Role
}

// Actor flattens the context into the pure permission-rule input.
func (ctx *TenantContext) Actor() leadperm.Actor {
	return leadperm.Actor{
		UserID:         ctx.UserID,
		Role:           ctx.Role(),
		IsSuperAdmin:   ctx.Claims.IsSuperAdmin,
		IsActiveMember: ctx.Claims.IsSuperAdmin || (ctx.Membership != nil && ctx.Membership.IsActive),
	}
}

// SessionClaims extracts the parsed claims set by the auth middleware.
func SessionClaims(c *gin.Context) *utils.Claims {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := value.(*utils.Claims)
	return claims
}

// homeRedirect is the safe fallback for a user denied access to a tenant:
// their own bound tenant dashboard when they have one, else login. Keeps
// tenant existence from leaking while landing the user somewhere sane.
func homeRedirect(claims *utils.Claims) string {
	if claims != nil && claims.TenantSlug != "" {
		return fmt.Sprintf("/%s/dashboard", claims.TenantSlug)
	}
	return "/login"
}

// RequireSuperAdmin fails unless the session exists and carries the
// platform-admin flag.
func RequireSuperAdmin(c *gin.Context) (*utils.Claims, *apperr.AppError) {
	claims := SessionClaims(c)
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required", "/login")
	}
	if !claims.IsSuperAdmin {
		return nil, apperr.Unauthorized("SuperAdmin access required", "/login")
	}
	return claims, nil
}

// RequireTenantAccess validates that the current user may act inside the
// tenant identified by slug. Platform admins pass with a nil membership
// (impersonation); everyone else needs an active membership.
func RequireTenantAccess(db *gorm.DB, c *gin.Context, tenantSlug string) (*TenantContext, *apperr.AppError) {
	claims := SessionClaims(c)
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required", "/login")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid session", "/login")
	}

	var tenant models.Tenant
	if err := db.Where("slug = ? AND deleted_at IS NULL", tenantSlug).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Unauthorized("Tenant not found", "/login")
		}
		return nil, apperr.Internal("Failed to resolve tenant")
	}
	if !tenant.IsActive {
		return nil, apperr.Unauthorized("Tenant is inactive", "/login")
	}

	ctx := &TenantContext{Claims: claims, UserID: userID, Tenant: tenant}

	// Platform admin impersonation: full access, no membership.
	if claims.IsSuperAdmin {
		return ctx, nil
	}

	var membership models.Membership
	if err := db.Where("user_id = ? AND tenant_id = ?", userID, tenant.ID).First(&membership).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.Unauthorized("You are not a member of this tenant", homeRedirect(claims))
		}
		return nil, apperr.Internal("Failed to resolve membership")
	}
	if !membership.IsActive {
		return nil, apperr.Unauthorized("Your membership is inactive", homeRedirect(claims))
	}

	ctx.Membership = &membership
	return ctx, nil
}

// RequireTenantRole composes RequireTenantAccess with a minimum-role check.
// Platform admins bypass the role check entirely. Failure redirects to the
// tenant's own dashboard: access exists, privilege doesn't.
func RequireTenantRole(db *gorm.DB, c *gin.Context, tenantSlug, requiredRole string) (*TenantContext, *apperr.AppError) {
	ctx, appErr := RequireTenantAccess(db, c, tenantSlug)
	if appErr != nil {
		return nil, appErr
	}

	if ctx.Claims.IsSuperAdmin {
		return ctx, nil
	}

	if ctx.Membership == nil || !rbac.HasRole(ctx.Membership.Role, requiredRole) {
		return nil, apperr.Unauthorized("Insufficient role", fmt.Sprintf("/%s/dashboard", tenantSlug))
	}

	return ctx, nil
}

// RequireTenantFeature composes RequireTenantAccess with the entitlement
// lookup. A disabled feature is a forbidden state, not an auth failure: the
// tenant exists and the user belongs to it, the module just isn't
// purchased.
func RequireTenantFeature(db *gorm.DB, c *gin.Context, tenantSlug, featureKey string) (*TenantContext, *apperr.AppError) {
	ctx, appErr := RequireTenantAccess(db, c, tenantSlug)
	if appErr != nil {
		return nil, appErr
	}

	enabled, err := features.IsTenantFeatureEnabled(db, ctx.Tenant.ID, featureKey)
	if err != nil {
		return nil, apperr.Internal("Failed to resolve feature entitlements")
	}
	if !enabled {
		return nil, &apperr.AppError{
			Message: "Feature disabled for this tenant",
			Status:  403,
			Code:    apperr.CodeFeatureDisabled,
		}
	}

	return ctx, nil
}

// AssertTenantFeature checks one feature gate for an already-resolved
// context (used when an operation needs a second gate, e.g. ASSIGNMENTS on
// top of CRM_LEADS).
func AssertTenantFeature(db *gorm.DB, tenantID uuid.UUID, featureKey string) *apperr.AppError {
	enabled, err := features.IsTenantFeatureEnabled(db, tenantID, featureKey)
	if err != nil {
		return apperr.Internal("Failed to resolve feature entitlements")
	}
	if !enabled {
		return &apperr.AppError{
			Message: "Feature disabled for this tenant",
			Status:  403,
			Code:    apperr.CodeFeatureDisabled,
		}
	}
	return nil
}
