package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"leadhub-backend/shared/apperr"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	"leadhub-backend/shared/guard"
	"leadhub-backend/shared/leadperm"
	"leadhub-backend/shared/utils/normalize"
)

// Field length bounds for lead payloads.
const (
	maxBusinessName = 200
	maxRucLen       = 40
	maxCountryLen   = 80
	maxCityLen      = 120
	maxNotesLen     = 5000
	maxPhoneCount   = 20
	maxPhoneLen     = 40
	maxEmailCount   = 20
	maxEmailLen     = 200
	maxBulkAssign   = 500
)

type LeadService struct {
	db *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

// CreateLeadInput is the validated payload for a new lead.
type CreateLeadInput struct {
	BusinessName string
	Ruc          *string
	Country      *string
	City         *string
	Industry     *string
	Source       *string
	Notes        *string
	Phones       []string
	Emails       []string
	Status       string
	OwnerID      *uuid.UUID
}

// UpdateLeadInput carries partial updates; nil fields are untouched.
// Ownership changes go through Assign, never through Update.
type UpdateLeadInput struct {
	BusinessName *string
	Ruc          *string
	Country      *string
	City         *string
	Industry     *string
	Source       *string
	Notes        *string
	Phones       []string
	Emails       []string
	Status       *string
}

func validateOptional(value *string, max int, field string) *apperr.AppError {
	if value != nil && len(*value) > max {
		return apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func validateContactLists(phones, emails []string) *apperr.AppError {
	if len(phones) > maxPhoneCount {
		return apperr.Validation(fmt.Sprintf("At most %d phones are allowed", maxPhoneCount))
	}
	for _, p := range phones {
		if len(p) > maxPhoneLen {
			return apperr.Validation(fmt.Sprintf("Each phone must be at most %d characters", maxPhoneLen))
		}
	}
	if len(emails) > maxEmailCount {
		return apperr.Validation(fmt.Sprintf("At most %d emails are allowed", maxEmailCount))
	}
	for _, e := range emails {
		if len(e) > maxEmailLen {
			return apperr.Validation(fmt.Sprintf("Each email must be at most %d characters", maxEmailLen))
		}
	}
	return nil
}

// ownerIsActiveMember verifies the proposed owner holds an active
// membership in the tenant.
func ownerIsActiveMember(db *gorm.DB, tenantID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Membership{}).
		Where("tenant_id = ? AND user_id = ? AND is_active = ?", tenantID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// findDuplicateRuc is the friendly pre-check; the partial unique index is
// the authoritative arbiter.
func (s *LeadService) findDuplicateRuc(tenantID uuid.UUID, rucNormalized string, excludeID *uuid.UUID) (bool, error) {
	q := s.db.Model(&models.Lead{}).
		Where("tenant_id = ? AND ruc_normalized = ? AND deleted_at IS NULL", tenantID, rucNormalized)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	var count int64
	err := q.Count(&count).Error
	return count > 0, err
}

func duplicateRucError() *apperr.AppError {
	return apperr.Conflict("A lead with this RUC already exists in this workspace", apperr.CodeDuplicateRuc)
}

// loadLead fetches a non-archived lead scoped to the tenant.
func (s *LeadService) loadLead(tenantID, leadID uuid.UUID) (*models.Lead, *apperr.AppError) {
	var lead models.Lead
	err := s.db.Where("id = ? AND tenant_id = ? AND deleted_at IS NULL", leadID, tenantID).First(&lead).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("Lead not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve lead")
	}
	return &lead, nil
}

// Create validates and inserts a new lead. Assigning an owner other than
// the creator requires assignment privileges.
func (s *LeadService) Create(ctx *guard.TenantContext, in CreateLeadInput) (*models.Lead, *apperr.AppError) {
	if len(in.BusinessName) < 1 || len(in.BusinessName) > maxBusinessName {
		return nil, apperr.Validation(fmt.Sprintf("Business name must be 1-%d characters", maxBusinessName))
	}
	if appErr := validateOptional(in.Ruc, maxRucLen, "RUC"); appErr != nil {
		return nil, appErr
	}
	if appErr := validateOptional(in.Country, maxCountryLen, "Country"); appErr != nil {
		return nil, appErr
	}
	for field, v := range map[string]*string{"City": in.City, "Industry": in.Industry, "Source": in.Source} {
		if appErr := validateOptional(v, maxCityLen, field); appErr != nil {
			return nil, appErr
		}
	}
	if appErr := validateOptional(in.Notes, maxNotesLen, "Notes"); appErr != nil {
		return nil, appErr
	}
	if appErr := validateContactLists(in.Phones, in.Emails); appErr != nil {
		return nil, appErr
	}
	if in.Status == "" {
		in.Status = models.LeadStatusNew
	}
	if !models.IsValidLeadStatus(in.Status) {
		return nil, apperr.Validation("Invalid lead status")
	}

	actor := ctx.Actor()
	if !actor.IsActiveMember {
		return nil, apperr.Forbidden("You are not an active member of this workspace")
	}

	if in.OwnerID != nil && *in.OwnerID != actor.UserID {
		if !leadperm.CanAssignLeads(actor) {
			return nil, apperr.Forbidden("You cannot assign leads to other members")
		}
	}
	if in.OwnerID != nil {
		ok, err := ownerIsActiveMember(s.db, ctx.Tenant.ID, *in.OwnerID)
		if err != nil {
			return nil, apperr.Internal("Failed to validate owner")
		}
		if !ok {
			return nil, apperr.Validation("The proposed owner is not an active member of this workspace")
		}
	}

	lead := models.Lead{
		TenantID:       ctx.Tenant.ID,
		BusinessName:   in.BusinessName,
		NameNormalized: normalize.LeadName(in.BusinessName),
		Country:        in.Country,
		City:           in.City,
		Industry:       in.Industry,
		Source:         in.Source,
		Notes:          in.Notes,
		Phones:         normalize.Phones(in.Phones),
		Emails:         normalize.Emails(in.Emails),
		Status:         in.Status,
		OwnerID:        in.OwnerID,
	}

	if in.Ruc != nil && normalize.Ruc(*in.Ruc) != "" {
		rucNorm := normalize.Ruc(*in.Ruc)
		dup, err := s.findDuplicateRuc(ctx.Tenant.ID, rucNorm, nil)
		if err != nil {
			return nil, apperr.Internal("Failed to check RUC uniqueness")
		}
		if dup {
			return nil, duplicateRucError()
		}
		lead.Ruc = in.Ruc
		lead.RucNormalized = &rucNorm
	}

	if err := s.db.Create(&lead).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			// A concurrent insert won the race; same rejection as the
			// pre-check.
			return nil, duplicateRucError()
		}
		return nil, apperr.Internal("Failed to create lead")
	}

	return &lead, nil
}

// Update applies a partial edit after re-checking edit permission against
// the lead's current owner.
func (s *LeadService) Update(ctx *guard.TenantContext, leadID uuid.UUID, in UpdateLeadInput) (*models.Lead, *apperr.AppError) {
	lead, appErr := s.loadLead(ctx.Tenant.ID, leadID)
	if appErr != nil {
		return nil, appErr
	}

	if !leadperm.CanEditLead(ctx.Actor(), lead.OwnerID) {
		return nil, apperr.Forbidden("You cannot edit this lead")
	}

	if in.BusinessName != nil {
		if len(*in.BusinessName) < 1 || len(*in.BusinessName) > maxBusinessName {
			return nil, apperr.Validation(fmt.Sprintf("Business name must be 1-%d characters", maxBusinessName))
		}
		lead.BusinessName = *in.BusinessName
		lead.NameNormalized = normalize.LeadName(*in.BusinessName)
	}
	if appErr := validateOptional(in.Ruc, maxRucLen, "RUC"); appErr != nil {
		return nil, appErr
	}
	if appErr := validateOptional(in.Country, maxCountryLen, "Country"); appErr != nil {
		return nil, appErr
	}
	for field, v := range map[string]*string{"City": in.City, "Industry": in.Industry, "Source": in.Source} {
		if appErr := validateOptional(v, maxCityLen, field); appErr != nil {
			return nil, appErr
		}
	}
	if appErr := validateOptional(in.Notes, maxNotesLen, "Notes"); appErr != nil {
		return nil, appErr
	}
	if appErr := validateContactLists(in.Phones, in.Emails); appErr != nil {
		return nil, appErr
	}

	if in.Ruc != nil {
		rucNorm := normalize.Ruc(*in.Ruc)
		if rucNorm == "" {
			lead.Ruc = nil
			lead.RucNormalized = nil
		} else {
			dup, err := s.findDuplicateRuc(ctx.Tenant.ID, rucNorm, &lead.ID)
			if err != nil {
				return nil, apperr.Internal("Failed to check RUC uniqueness")
			}
			if dup {
				return nil, duplicateRucError()
			}
			lead.Ruc = in.Ruc
			lead.RucNormalized = &rucNorm
		}
	}
	if in.Country != nil {
		lead.Country = in.Country
	}
	if in.City != nil {
		lead.City = in.City
	}
	if in.Industry != nil {
		lead.Industry = in.Industry
	}
	if in.Source != nil {
		lead.Source = in.Source
	}
	if in.Notes != nil {
		lead.Notes = in.Notes
	}
	if in.Phones != nil {
		lead.Phones = normalize.Phones(in.Phones)
	}
	if in.Emails != nil {
		lead.Emails = normalize.Emails(in.Emails)
	}
	if in.Status != nil {
		if !models.IsValidLeadStatus(*in.Status) {
			return nil, apperr.Validation("Invalid lead status")
		}
		lead.Status = *in.Status
	}

	if err := s.db.Save(lead).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, duplicateRucError()
		}
		return nil, apperr.Internal("Failed to update lead")
	}

	return lead, nil
}

// Archive soft-deletes a lead. Archived leads release their RUC for reuse.
func (s *LeadService) Archive(ctx *guard.TenantContext, leadID uuid.UUID) *apperr.AppError {
	lead, appErr := s.loadLead(ctx.Tenant.ID, leadID)
	if appErr != nil {
		return appErr
	}

	if !leadperm.CanEditLead(ctx.Actor(), lead.OwnerID) {
		return apperr.Forbidden("You cannot archive this lead")
	}

	now := time.Now()
	lead.DeletedAt = &now
	if err := s.db.Save(lead).Error; err != nil {
		return apperr.Internal("Failed to archive lead")
	}
	return nil
}

// Assign sets or clears a lead's owner. Requires the ASSIGNMENTS feature
// on top of the caller's CRM_LEADS gate.
func (s *LeadService) Assign(ctx *guard.TenantContext, leadID uuid.UUID, ownerID *uuid.UUID) (*models.Lead, *apperr.AppError) {
	if appErr := guard.AssertTenantFeature(s.db, ctx.Tenant.ID, features.KeyAssignments); appErr != nil {
		return nil, appErr
	}
	if !leadperm.CanAssignLeads(ctx.Actor()) {
		return nil, apperr.Forbidden("You cannot assign leads")
	}

	lead, appErr := s.loadLead(ctx.Tenant.ID, leadID)
	if appErr != nil {
		return nil, appErr
	}

	if ownerID != nil {
		ok, err := ownerIsActiveMember(s.db, ctx.Tenant.ID, *ownerID)
		if err != nil {
			return nil, apperr.Internal("Failed to validate owner")
		}
		if !ok {
			return nil, apperr.Validation("The proposed owner is not an active member of this workspace")
		}
	}

	lead.OwnerID = ownerID
	if err := s.db.Save(lead).Error; err != nil {
		return nil, apperr.Internal("Failed to assign lead")
	}
	return lead, nil
}

// BulkAssign reassigns up to maxBulkAssign leads in one statement and
// reports how many rows actually changed.
func (s *LeadService) BulkAssign(ctx *guard.TenantContext, leadIDs []uuid.UUID, ownerID *uuid.UUID) (int64, *apperr.AppError) {
	if len(leadIDs) < 1 || len(leadIDs) > maxBulkAssign {
		return 0, apperr.Validation(fmt.Sprintf("Between 1 and %d lead ids are required", maxBulkAssign))
	}

	if appErr := guard.AssertTenantFeature(s.db, ctx.Tenant.ID, features.KeyAssignments); appErr != nil {
		return 0, appErr
	}
	if !leadperm.CanAssignLeads(ctx.Actor()) {
		return 0, apperr.Forbidden("You cannot assign leads")
	}

	if ownerID != nil {
		ok, err := ownerIsActiveMember(s.db, ctx.Tenant.ID, *ownerID)
		if err != nil {
			return 0, apperr.Internal("Failed to validate owner")
		}
		if !ok {
			return 0, apperr.Validation("The proposed owner is not an active member of this workspace")
		}
	}

	result := s.db.Model(&models.Lead{}).
		Where("id IN ? AND tenant_id = ? AND deleted_at IS NULL", leadIDs, ctx.Tenant.ID).
		Updates(map[string]interface{}{"owner_id": ownerID, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, apperr.Internal("Failed to assign leads")
	}

	return result.RowsAffected, nil
}
