package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated company workspace. DeletedAt is a plain nullable
// timestamp rather than gorm.DeletedAt: soft-deleted tenants stay
// addressable for the restore flow and are excluded explicitly per query.
type Tenant struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string     `json:"name" gorm:"size:200;not null"`
	Slug          string     `json:"slug" gorm:"size:100;uniqueIndex;not null"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	DeletedAt     *time.Time `json:"deleted_at"`
	PlanID        *uuid.UUID `json:"plan_id" gorm:"type:uuid"`
	MaxUsers      *int       `json:"max_users"`
	MaxStorageGb  *int       `json:"max_storage_gb"`
	RetentionDays *int       `json:"retention_days"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Plan *Plan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}
