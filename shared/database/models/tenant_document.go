package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantDocument tracks an object stored for a tenant in MinIO. SizeBytes
// feeds the tenant storage limit check.
type TenantDocument struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID     uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	UploadedByID uuid.UUID `json:"uploaded_by_id" gorm:"type:uuid;not null"`
	ObjectKey    string    `json:"object_key" gorm:"size:500;not null;uniqueIndex"`
	FileName     string    `json:"file_name" gorm:"size:255;not null"`
	SizeBytes    int64     `json:"size_bytes" gorm:"not null"`
	ContentType  string    `json:"content_type" gorm:"size:120"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	UploadedBy User `json:"uploaded_by" gorm:"foreignKey:UploadedByID"`
}
