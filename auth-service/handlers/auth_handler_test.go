package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leadhub-backend/shared/database/models"
	utils "leadhub-backend/shared/utils/auth"
)

func TestSessionInfo(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "vendedor@acme.com",
		Name:         "Ana Vendedora",
		IsSuperAdmin: false,
	}

	t.Run("platform session carries no tenant fields", func(t *testing.T) {
		info := sessionInfo(user, nil)

		assert.Equal(t, user.ID, info.UserID)
		assert.Equal(t, "vendedor@acme.com", info.Email)
		assert.Empty(t, info.TenantID)
		assert.Empty(t, info.TenantSlug)
		assert.Empty(t, info.Role)
	})

	t.Run("tenant binding is rendered into the session", func(t *testing.T) {
		tenantID := uuid.New()
		binding := &utils.TenantBinding{
			TenantID:   tenantID,
			TenantSlug: "acme-sa",
			Role:       "VENDEDOR",
		}

		info := sessionInfo(user, binding)

		assert.Equal(t, tenantID.String(), info.TenantID)
		assert.Equal(t, "acme-sa", info.TenantSlug)
		assert.Equal(t, "VENDEDOR", info.Role)
	})
}
