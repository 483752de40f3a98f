package models

import (
	"time"

	"github.com/google/uuid"
)

// Reassignment request statuses. PENDING is the only non-terminal state.
const (
	ReassignmentStatusPending  = "PENDING"
	ReassignmentStatusApproved = "APPROVED"
	ReassignmentStatusRejected = "REJECTED"
)

// LeadReassignmentRequest is a pending change-of-owner proposal raised by a
// member who cannot edit the lead directly. Exactly one resolution
// transition is allowed.
type LeadReassignmentRequest struct {
	ID               uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeadID           uuid.UUID  `json:"lead_id" gorm:"type:uuid;not null;index"`
	TenantID         uuid.UUID  `json:"tenant_id" gorm:"type:uuid;not null;index"`
	RequestedByID    uuid.UUID  `json:"requested_by_id" gorm:"type:uuid;not null"`
	RequestedOwnerID *uuid.UUID `json:"requested_owner_id" gorm:"type:uuid"`
	Reason           string     `json:"reason" gorm:"size:1000;not null"`
	Status           string     `json:"status" gorm:"size:20;default:'PENDING'"`
	ResolvedByID     *uuid.UUID `json:"resolved_by_id" gorm:"type:uuid"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	ResolutionNote   *string    `json:"resolution_note" gorm:"size:1000"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Lead           Lead  `json:"lead" gorm:"foreignKey:LeadID"`
	RequestedBy    User  `json:"requested_by" gorm:"foreignKey:RequestedByID"`
	RequestedOwner *User `json:"requested_owner,omitempty" gorm:"foreignKey:RequestedOwnerID"`
	ResolvedBy     *User `json:"resolved_by,omitempty" gorm:"foreignKey:ResolvedByID"`
}
