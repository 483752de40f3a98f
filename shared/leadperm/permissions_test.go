package leadperm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leadhub-backend/shared/utils/rbac"
)

func TestCanEditLead(t *testing.T) {
	self := uuid.New()
	other := uuid.New()

	tests := []struct {
		name  string
		actor Actor
		owner *uuid.UUID
		want  bool
	}{
		{
			name:  "superadmin edits anything",
			actor: Actor{UserID: self, IsSuperAdmin: true},
			owner: &other,
			want:  true,
		},
		{
			name:  "inactive member blocked even as owner",
			actor: Actor{UserID: self, Role: rbac.RoleAdmin, IsActiveMember: false},
			owner: &self,
			want:  false,
		},
		{
			name:  "active vendedor edits unowned lead",
			actor: Actor{UserID: self, Role: rbac.RoleVendedor, IsActiveMember: true},
			owner: nil,
			want:  true,
		},
		{
			name:  "active vendedor edits own lead",
			actor: Actor{UserID: self, Role: rbac.RoleVendedor, IsActiveMember: true},
			owner: &self,
			want:  true,
		},
		{
			name:  "active vendedor blocked on someone else's lead",
			actor: Actor{UserID: self, Role: rbac.RoleVendedor, IsActiveMember: true},
			owner: &other,
			want:  false,
		},
		{
			name:  "active supervisor edits someone else's lead",
			actor: Actor{UserID: self, Role: rbac.RoleSupervisor, IsActiveMember: true},
			owner: &other,
			want:  true,
		},
		{
			name:  "active pasante blocked on someone else's lead",
			actor: Actor{UserID: self, Role: rbac.RolePasante, IsActiveMember: true},
			owner: &other,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEditLead(tt.actor, tt.owner))
		})
	}
}

func TestCanAssignLeads(t *testing.T) {
	self := uuid.New()

	assert.True(t, CanAssignLeads(Actor{UserID: self, IsSuperAdmin: true}))
	assert.False(t, CanAssignLeads(Actor{UserID: self, Role: rbac.RoleAdmin, IsActiveMember: false}))
	assert.True(t, CanAssignLeads(Actor{UserID: self, Role: rbac.RoleAdmin, IsActiveMember: true}))
	assert.True(t, CanAssignLeads(Actor{UserID: self, Role: rbac.RoleSupervisor, IsActiveMember: true}))
	assert.False(t, CanAssignLeads(Actor{UserID: self, Role: rbac.RoleVendedor, IsActiveMember: true}))
	assert.False(t, CanAssignLeads(Actor{UserID: self, Role: rbac.RoleFreelance, IsActiveMember: true}))
}

func TestCanResolveReassignmentMatchesAssign(t *testing.T) {
	actors := []Actor{
		{UserID: uuid.New(), IsSuperAdmin: true},
		{UserID: uuid.New(), Role: rbac.RoleSupervisor, IsActiveMember: true},
		{UserID: uuid.New(), Role: rbac.RoleVendedor, IsActiveMember: true},
		{UserID: uuid.New(), Role: rbac.RoleAdmin, IsActiveMember: false},
	}
	for _, actor := range actors {
		assert.Equal(t, CanAssignLeads(actor), CanResolveReassignment(actor))
	}
}
