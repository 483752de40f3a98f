package features

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leadhub-backend/shared/database/models"
)

func TestCatalogIsClosed(t *testing.T) {
	assert.Len(t, Keys, 11)

	seen := make(map[string]bool)
	for _, key := range Keys {
		assert.False(t, seen[key], "duplicate catalog key %s", key)
		seen[key] = true
		assert.True(t, IsValidKey(key))
	}
	assert.False(t, IsValidKey("BILLING"))
}

func TestCoreDefaults(t *testing.T) {
	enabled := []string{KeyDashboard, KeyCRMLeads, KeyAssignments, KeyInteractions}
	for _, key := range enabled {
		assert.True(t, CoreDefaultEnabled(key), key)
	}
	for _, key := range []string{KeyTasks, KeyDocuments, KeyImport, KeyDedupe, KeyQuotingBasic, KeyClientPortal, KeyNotifications} {
		assert.False(t, CoreDefaultEnabled(key), key)
	}
}

func TestBuildDefaultRowsWithoutPlan(t *testing.T) {
	tenantID := uuid.New()
	rows := BuildDefaultRows(tenantID, nil)

	assert.Len(t, rows, len(Keys))
	byKey := make(map[string]models.TenantFeature)
	for _, row := range rows {
		assert.Equal(t, tenantID, row.TenantID)
		byKey[row.FeatureKey] = row
	}

	assert.True(t, byKey[KeyDashboard].Enabled)
	assert.True(t, byKey[KeyCRMLeads].Enabled)
	assert.False(t, byKey[KeyDocuments].Enabled)
}

func TestBuildDefaultRowsPlanWins(t *testing.T) {
	tenantID := uuid.New()
	planID := uuid.New()
	planFeatures := []models.PlanFeature{
		// Plan disables a core default and enables a non-default.
		{PlanID: planID, FeatureKey: KeyDashboard, Enabled: false},
		{PlanID: planID, FeatureKey: KeyDocuments, Enabled: true, Config: models.JSONMap{"max_versions": float64(3)}},
	}

	rows := BuildDefaultRows(tenantID, planFeatures)
	byKey := make(map[string]models.TenantFeature)
	for _, row := range rows {
		byKey[row.FeatureKey] = row
	}

	assert.False(t, byKey[KeyDashboard].Enabled, "plan value overrides core default")
	assert.True(t, byKey[KeyDocuments].Enabled)
	assert.Equal(t, models.JSONMap{"max_versions": float64(3)}, byKey[KeyDocuments].Config)
	// Keys the plan does not mention fall back to core defaults.
	assert.True(t, byKey[KeyCRMLeads].Enabled)
	assert.False(t, byKey[KeyClientPortal].Enabled)
}

func TestToFeatureMapCompleteAndIdempotent(t *testing.T) {
	tenantID := uuid.New()
	rows := BuildDefaultRows(tenantID, nil)

	first := ToFeatureMap(rows)
	second := ToFeatureMap(rows)

	// Exactly one boolean per catalog key, stable across calls.
	assert.Len(t, first, len(Keys))
	assert.Equal(t, first, second)
	for _, key := range Keys {
		_, ok := first[key]
		assert.True(t, ok, "missing key %s", key)
	}
}

func TestToFeatureMapMissingRowsReadDisabled(t *testing.T) {
	m := ToFeatureMap([]models.TenantFeature{
		{FeatureKey: KeyCRMLeads, Enabled: true},
	})

	assert.Len(t, m, len(Keys))
	assert.True(t, m[KeyCRMLeads])
	assert.False(t, m[KeyDashboard])
}

func TestPlanBundlesOnlyUseCatalogKeys(t *testing.T) {
	for _, bundle := range PlanBundles {
		for _, key := range bundle.EnabledKeys {
			assert.True(t, IsValidKey(key), "%s bundle references unknown key %s", bundle.Name, key)
		}
	}
}
