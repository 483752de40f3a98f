package features

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadhub-backend/shared/database/models"
)

// tenantFeatureConflict targets the (tenant_id, feature_key) unique pair so
// concurrent backfills collapse into no-ops instead of failing.
var tenantFeatureConflict = []clause.Column{{Name: "tenant_id"}, {Name: "feature_key"}}

// BuildDefaultRows computes the initial entitlement row for every catalog
// key: the plan's value where the plan defines one, else the hardcoded core
// default.
func BuildDefaultRows(tenantID uuid.UUID, planFeatures []models.PlanFeature) []models.TenantFeature {
	planMap := make(map[string]models.PlanFeature, len(planFeatures))
	for _, pf := range planFeatures {
		planMap[pf.FeatureKey] = pf
	}

	rows := make([]models.TenantFeature, 0, len(Keys))
	for _, key := range Keys {
		row := models.TenantFeature{
			TenantID:   tenantID,
			FeatureKey: key,
			Enabled:    CoreDefaultEnabled(key),
		}
		if pf, ok := planMap[key]; ok {
			row.Enabled = pf.Enabled
			row.Config = pf.Config
		}
		rows = append(rows, row)
	}
	return rows
}

// ToFeatureMap flattens entitlement rows into one boolean per catalog key.
// Keys without a row read as disabled.
func ToFeatureMap(rows []models.TenantFeature) map[string]bool {
	byKey := make(map[string]bool, len(rows))
	for _, row := range rows {
		byKey[row.FeatureKey] = row.Enabled
	}

	result := make(map[string]bool, len(Keys))
	for _, key := range Keys {
		result[key] = byKey[key]
	}
	return result
}

// EnsureTenantFeatureRows backfills the tenant's entitlement rows from its
// plan (or core defaults) when none exist yet. Safe under concurrent first
// access: each row is an insert-if-absent, so a racing backfill's conflicts
// are absorbed.
func EnsureTenantFeatureRows(db *gorm.DB, tenantID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.TenantFeature{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var tenant models.Tenant
	if err := db.Select("id", "plan_id").First(&tenant, "id = ?", tenantID).Error; err != nil {
		return err
	}

	var planFeatures []models.PlanFeature
	if tenant.PlanID != nil {
		if err := db.Where("plan_id = ?", *tenant.PlanID).Find(&planFeatures).Error; err != nil {
			return err
		}
	}

	rows := BuildDefaultRows(tenantID, planFeatures)
	return db.Clauses(clause.OnConflict{
		Columns:   tenantFeatureConflict,
		DoNothing: true,
	}).Create(&rows).Error
}

// GetTenantFeatureMap returns one boolean per catalog key for the tenant,
// backfilling rows first if needed.
func GetTenantFeatureMap(db *gorm.DB, tenantID uuid.UUID) (map[string]bool, error) {
	if err := EnsureTenantFeatureRows(db, tenantID); err != nil {
		return nil, err
	}

	var rows []models.TenantFeature
	if err := db.Where("tenant_id = ?", tenantID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return ToFeatureMap(rows), nil
}

// IsTenantFeatureEnabled reports whether one feature is enabled for a
// tenant, backfilling rows first if needed.
func IsTenantFeatureEnabled(db *gorm.DB, tenantID uuid.UUID, featureKey string) (bool, error) {
	if err := EnsureTenantFeatureRows(db, tenantID); err != nil {
		return false, err
	}

	var row models.TenantFeature
	err := db.Where("tenant_id = ? AND feature_key = ?", tenantID, featureKey).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return row.Enabled, nil
}

// MaterializeTenantFeaturesFromPlan writes the plan's entitlements onto the
// tenant. With overwrite=false existing per-tenant customizations survive
// (fill-only-if-absent); overwrite=true force-applies the bundle and is
// reserved for an explicit operator action.
func MaterializeTenantFeaturesFromPlan(db *gorm.DB, tenantID, planID uuid.UUID, overwrite bool) error {
	var planFeatures []models.PlanFeature
	if err := db.Where("plan_id = ?", planID).Find(&planFeatures).Error; err != nil {
		return err
	}

	planMap := make(map[string]models.PlanFeature, len(planFeatures))
	for _, pf := range planFeatures {
		planMap[pf.FeatureKey] = pf
	}

	rows := make([]models.TenantFeature, 0, len(Keys))
	for _, key := range Keys {
		row := models.TenantFeature{
			TenantID:   tenantID,
			FeatureKey: key,
		}
		if pf, ok := planMap[key]; ok {
			row.Enabled = pf.Enabled
			row.Config = pf.Config
		}
		rows = append(rows, row)
	}

	onConflict := clause.OnConflict{Columns: tenantFeatureConflict, DoNothing: true}
	if overwrite {
		onConflict = clause.OnConflict{
			Columns:   tenantFeatureConflict,
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "config", "updated_at"}),
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(onConflict).Create(&rows).Error
	})
}

// SetTenantFeature upserts one per-tenant override.
func SetTenantFeature(db *gorm.DB, tenantID uuid.UUID, featureKey string, enabled bool, cfg models.JSONMap) error {
	row := models.TenantFeature{
		TenantID:   tenantID,
		FeatureKey: featureKey,
		Enabled:    enabled,
		Config:     cfg,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   tenantFeatureConflict,
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "config", "updated_at"}),
	}).Create(&row).Error
}
