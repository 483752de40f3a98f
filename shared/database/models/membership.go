package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership binds a user to a tenant with a role. At most one membership
// exists per (user, tenant) pair; deactivation revokes access without
// deleting history.
type Membership struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_tenant"`
	TenantID  uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_memberships_user_tenant"`
	Role      string    `json:"role" gorm:"size:20;not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User   User   `json:"user" gorm:"foreignKey:UserID"`
	Tenant Tenant `json:"tenant" gorm:"foreignKey:TenantID"`
}
