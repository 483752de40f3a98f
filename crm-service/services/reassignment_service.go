package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
	"leadhub-backend/shared/leadperm"
)

const (
	minReasonLen     = 5
	maxReasonLen     = 1000
	maxResolutionLen = 1000
)

type ReassignmentService struct {
	db *gorm.DB
}

func NewReassignmentService(db *gorm.DB) *ReassignmentService {
	return &ReassignmentService{db: db}
}

// Request opens a reassignment request for a lead the requester cannot
// edit directly. Actors who can edit the lead are told to just do so.
func (s *ReassignmentService) Request(ctx *guard.TenantContext, leadID uuid.UUID, suggestedOwner *uuid.UUID, reason string) (*models.LeadReassignmentRequest, *apperr.AppError) {
	if appErr := guard.AssertTenantFeature(s.db, ctx.Tenant.ID, features.KeyAssignments); appErr != nil {
		return nil, appErr
	}

	if len(reason) < minReasonLen || len(reason) > maxReasonLen {
		return nil, apperr.Validation(fmt.Sprintf("Reason must be %d-%d characters", minReasonLen, maxReasonLen))
	}

	actor := ctx.Actor()
	if !actor.IsActiveMember {
		return nil, apperr.Forbidden("You are not an active member of this workspace")
	}

	var lead models.Lead
	err := s.db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", leadID, ctx.Tenant.ID).First(&lead).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("Lead not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve lead")
	}

	if leadperm.CanEditLead(actor, lead.OwnerID) {
		return nil, apperr.Validation("You can edit this lead directly; no reassignment request is needed")
	}

	if suggestedOwner != nil {
		ok, err := ownerIsActiveMember(s.db, ctx.Tenant.ID, *suggestedOwner)
		if err != nil {
			return nil, apperr.Internal("Failed to validate suggested owner")
		}
		if !ok {
			return nil, apperr.Validation("The suggested owner is not an active member of this workspace")
		}
	}

	request := models.LeadReassignmentRequest{
		LeadID:           lead.ID,
		TenantID:         ctx.Tenant.ID,
		RequestedByID:    actor.UserID,
		RequestedOwnerID: suggestedOwner,
		Reason:           reason,
		Status:           models.ReassignmentStatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, apperr.Internal("Failed to create reassignment request")
	}

	return &request, nil
}

// Resolve approves or rejects a pending request. The request row is locked
// for the duration so two resolvers cannot both win, and an approval's
// owner change commits atomically with the status transition.
func (s *ReassignmentService) Resolve(ctx *guard.TenantContext, requestID uuid.UUID, approve bool, explicitOwner *uuid.UUID, note *string) (*models.LeadReassignmentRequest, *apperr.AppError) {
	if appErr := guard.AssertTenantFeature(s.db, ctx.Tenant.ID, features.KeyAssignments); appErr != nil {
		return nil, appErr
	}
	if !leadperm.CanResolveReassignment(ctx.Actor()) {
		return nil, apperr.Forbidden("You cannot resolve reassignment requests")
	}
	if note != nil && len(*note) > maxResolutionLen {
		return nil, apperr.Validation(fmt.Sprintf("Resolution note must be at most %d characters", maxResolutionLen))
	}

	var request models.LeadReassignmentRequest
	var appErr *apperr.AppError

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND tenant_id = ?", requestID, ctx.Tenant.ID).
			First(&request).Error
		if err == gorm.ErrRecordNotFound {
			appErr = apperr.NotFound("Reassignment request not found")
			return err
		}
		if err != nil {
			return err
		}

		if !CanTransition(request.Status) {
			appErr = apperr.Conflict("This request has already been resolved", apperr.CodeAlreadyResolved)
			return gorm.ErrInvalidData
		}

		if approve {
			// Explicit owner wins over the suggestion; nil target means
			// approve without changing the owner.
			target := TargetOwner(explicitOwner, request.RequestedOwnerID)
			if target != nil {
				ok, err := ownerIsActiveMember(tx, ctx.Tenant.ID, *target)
				if err != nil {
					return err
				}
				if !ok {
					appErr = apperr.Validation("The target owner is not an active member of this workspace")
					return gorm.ErrInvalidData
				}

				result := tx.Model(&models.Lead{}).
					Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", request.LeadID, ctx.Tenant.ID).
					Updates(map[string]interface{}{"owner_id": target, "updated_at": time.Now()})
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					appErr = apperr.Conflict("The lead no longer exists; the request cannot be approved", "")
					return gorm.ErrInvalidData
				}
			}
		}

		now := time.Now()
		request.Status = ResolutionStatus(approve)
		request.ResolvedByID = &ctx.UserID
		request.ResolvedAt = &now
		request.ResolutionNote = note
		return tx.Save(&request).Error
	})
	if txErr != nil {
		if appErr != nil {
			return nil, appErr
		}
		return nil, apperr.Internal("Failed to resolve reassignment request")
	}

	return &request, nil
}
