package services

import (
	"github.com/google/uuid"

	"leadhub-backend/shared/database/models"
)

// TargetOwner picks the owner an approval applies: the resolver-supplied
// owner wins over the requester's suggestion. Nil means the lead keeps its
// current owner.
func TargetOwner(explicit, suggested *uuid.UUID) *uuid.UUID {
	if explicit != nil {
		return explicit
	}
	return suggested
}

// CanTransition reports whether a request in the given status may still be
// resolved. Only PENDING requests may; APPROVED and REJECTED are terminal.
func CanTransition(status string) bool {
	return status == models.ReassignmentStatusPending
}

// ResolutionStatus maps the approve flag to the terminal status.
func ResolutionStatus(approve bool) string {
	if approve {
		return models.ReassignmentStatusApproved
	}
	return models.ReassignmentStatusRejected
}
