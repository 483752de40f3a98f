package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a subscription tier template. Deactivating a plan only blocks it
// for new tenants; existing tenants keep their copied limits.
type Plan struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	MaxUsers      int       `json:"max_users" gorm:"not null"`
	MaxStorageGb  int       `json:"max_storage_gb" gorm:"not null"`
	RetentionDays int       `json:"retention_days" gorm:"not null"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Features []PlanFeature `json:"features,omitempty" gorm:"foreignKey:PlanID"`
}

// PlanFeature is the default entitlement a plan grants for one catalog key.
type PlanFeature struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlanID     uuid.UUID `json:"plan_id" gorm:"type:uuid;not null;uniqueIndex:idx_plan_features_plan_key"`
	FeatureKey string    `json:"feature_key" gorm:"size:40;not null;uniqueIndex:idx_plan_features_plan_key"`
	Enabled    bool      `json:"enabled" gorm:"default:false"`
	Config     JSONMap   `json:"config" gorm:"type:jsonb"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
