package models

import (
	"time"

	"github.com/google/uuid"
)

// Lead statuses.
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusLost      = "LOST"
	LeadStatusWon       = "WON"
)

// LeadStatuses lists every valid lead status.
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusLost,
	LeadStatusWon,
}

// IsValidLeadStatus reports whether s is a member of LeadStatuses.
func IsValidLeadStatus(s string) bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Lead is a tenant-scoped sales prospect. The partial unique index on
// (tenant_id, ruc_normalized) among non-deleted rows is the authoritative
// duplicate-RUC arbiter; application pre-checks exist only for friendlier
// rejection.
type Lead struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID   `json:"tenant_id" gorm:"type:uuid;not null;index;uniqueIndex:uq_leads_tenant_ruc,where:deleted_at IS NULL AND ruc_normalized IS NOT NULL"`
	BusinessName   string      `json:"business_name" gorm:"size:200;not null"`
	NameNormalized string      `json:"name_normalized" gorm:"size:200;index"`
	Ruc            *string     `json:"ruc" gorm:"size:40"`
	RucNormalized  *string     `json:"ruc_normalized" gorm:"size:40;uniqueIndex:uq_leads_tenant_ruc,where:deleted_at IS NULL AND ruc_normalized IS NOT NULL"`
	Country        *string     `json:"country" gorm:"size:80"`
	City           *string     `json:"city" gorm:"size:120"`
	Industry       *string     `json:"industry" gorm:"size:120"`
	Source         *string     `json:"source" gorm:"size:120"`
	Notes          *string     `json:"notes" gorm:"type:text"`
	Phones         StringSlice `json:"phones" gorm:"type:jsonb"`
	Emails         StringSlice `json:"emails" gorm:"type:jsonb"`
	Status         string      `json:"status" gorm:"size:20;default:'NEW'"`
	OwnerID        *uuid.UUID  `json:"owner_id" gorm:"type:uuid;index"`
	DeletedAt      *time.Time  `json:"deleted_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	// Relations
	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
}
