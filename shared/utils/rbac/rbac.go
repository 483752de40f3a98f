// Package rbac implements the tenant role hierarchy.
//
// Roles, highest to lowest privilege:
//
//	ADMIN > SUPERVISOR > VENDEDOR > FREELANCE > PASANTE
//
// SuperAdmin is a platform flag on User, not a tenant role, and is checked
// separately wherever it matters.
package rbac

// Tenant roles.
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleVendedor   = "VENDEDOR"
	RoleFreelance  = "FREELANCE"
	RolePasante    = "PASANTE"
)

// Roles lists every valid tenant role, highest privilege first.
var Roles = []string{RoleAdmin, RoleSupervisor, RoleVendedor, RoleFreelance, RolePasante}

// Numeric weight, higher = more permissions. Gapped to allow future roles
// between existing levels.
var roleWeight = map[string]int{
	RoleAdmin:      50,
	RoleSupervisor: 40,
	RoleVendedor:   30,
	RoleFreelance:  20,
	RolePasante:    10,
}

// HasRole reports whether userRole has at least the privilege level of
// requiredRole. Unknown or empty roles never satisfy anything.
//
// Example: HasRole("ADMIN", "VENDEDOR") → true
func HasRole(userRole, requiredRole string) bool {
	if userRole == "" {
		return false
	}
	weight, ok := roleWeight[userRole]
	if !ok {
		return false
	}
	return weight >= roleWeight[requiredRole]
}

// IsValid reports whether role is a member of the fixed role set.
func IsValid(role string) bool {
	_, ok := roleWeight[role]
	return ok
}
