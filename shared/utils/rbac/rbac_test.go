package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasRoleHierarchy(t *testing.T) {
	// Roles is ordered highest to lowest: every role satisfies itself and
	// everything below it, and never anything above it.
	for i, higher := range Roles {
		for j, lower := range Roles {
			got := HasRole(higher, lower)
			if i <= j {
				assert.True(t, got, "%s should satisfy %s", higher, lower)
			} else {
				assert.False(t, got, "%s should not satisfy %s", higher, lower)
			}
		}
	}
}

func TestHasRoleUnknownRoles(t *testing.T) {
	assert.False(t, HasRole("", RolePasante))
	assert.False(t, HasRole("MANAGER", RolePasante))
	assert.False(t, HasRole("admin", RoleAdmin), "role comparison is case sensitive")
}

func TestIsValid(t *testing.T) {
	for _, role := range Roles {
		assert.True(t, IsValid(role))
	}
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("SUPERADMIN"))
}
