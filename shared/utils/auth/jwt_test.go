package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := GenerateJWT(userID, "user@acme.com", false, &TenantBinding{
		TenantID:   tenantID,
		TenantSlug: "acme",
		Role:       "VENDEDOR",
	})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@acme.com", claims.Email)
	assert.False(t, claims.IsSuperAdmin)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, "acme", claims.TenantSlug)
	assert.Equal(t, "VENDEDOR", claims.Role)
}

func TestGenerateJWTPlatformSession(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "admin@platform.local", true, nil)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)

	assert.True(t, claims.IsSuperAdmin)
	assert.Empty(t, claims.TenantID)
	assert.Empty(t, claims.TenantSlug)
	assert.Empty(t, claims.Role)
}

func TestUpdateTenantClaims(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateJWT(userID, "user@acme.com", false, &TenantBinding{
		TenantID:   uuid.New(),
		TenantSlug: "acme",
		Role:       "ADMIN",
	})
	require.NoError(t, err)

	otherTenant := uuid.New()
	updated, err := UpdateTenantClaims(token, &TenantBinding{
		TenantID:   otherTenant,
		TenantSlug: "globex",
		Role:       "SUPERVISOR",
	})
	require.NoError(t, err)

	claims, err := ValidateJWT(updated)
	require.NoError(t, err)

	// User identity survives, only the tenant binding changed.
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, otherTenant.String(), claims.TenantID)
	assert.Equal(t, "globex", claims.TenantSlug)
	assert.Equal(t, "SUPERVISOR", claims.Role)
}

func TestUpdateTenantClaimsClearBinding(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "user@acme.com", false, &TenantBinding{
		TenantID:   uuid.New(),
		TenantSlug: "acme",
		Role:       "ADMIN",
	})
	require.NoError(t, err)

	updated, err := UpdateTenantClaims(token, nil)
	require.NoError(t, err)

	claims, err := ValidateJWT(updated)
	require.NoError(t, err)
	assert.Empty(t, claims.TenantID)
	assert.Empty(t, claims.Role)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}
