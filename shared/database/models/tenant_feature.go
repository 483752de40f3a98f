package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantFeature is the per-tenant override of one catalog feature key. Rows
// are lazily backfilled from the tenant's plan on first access and edited
// independently afterwards.
type TenantFeature struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_tenant_features_tenant_key"`
	FeatureKey string    `json:"feature_key" gorm:"size:40;not null;uniqueIndex:idx_tenant_features_tenant_key"`
	Enabled    bool      `json:"enabled" gorm:"default:false"`
	Config     JSONMap   `json:"config" gorm:"type:jsonb"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
