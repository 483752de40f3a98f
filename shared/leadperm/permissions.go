// Package leadperm holds the pure lead-permission predicates. They are
// evaluated fresh per request against current role, membership and
// ownership; nothing here is cached.
package leadperm

import (
	"github.com/google/uuid"

	"leadhub-backend/shared/utils/rbac"
)

// Actor describes the requesting user as resolved by the tenant guard.
type Actor struct {
	UserID         uuid.UUID
	Role           string
	IsSuperAdmin   bool
	IsActiveMember bool
}

// CanEditLead reports whether the actor may edit a lead with the given
// owner. Unowned leads are editable by any active member; owned leads only
// by their owner or a SUPERVISOR-and-above.
func CanEditLead(actor Actor, ownerID *uuid.UUID) bool {
	if actor.IsSuperAdmin {
		return true
	}
	if !actor.IsActiveMember {
		return false
	}
	if ownerID == nil {
		return true
	}
	if *ownerID == actor.UserID {
		return true
	}
	return rbac.HasRole(actor.Role, rbac.RoleSupervisor)
}

// CanAssignLeads reports whether the actor may set or change lead owners.
func CanAssignLeads(actor Actor) bool {
	if actor.IsSuperAdmin {
		return true
	}
	if !actor.IsActiveMember {
		return false
	}
	return rbac.HasRole(actor.Role, rbac.RoleSupervisor)
}

// CanResolveReassignment reports whether the actor may approve or reject a
// reassignment request. Same rule as assignment.
func CanResolveReassignment(actor Actor) bool {
	return CanAssignLeads(actor)
}
