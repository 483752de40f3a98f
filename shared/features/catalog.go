// Package features maintains per-tenant feature entitlements over a fixed
// catalog of product modules, derived from subscription plans but
// independently overridable.
package features

// Catalog feature keys. The set is closed: plans and tenants hold exactly
// one entitlement row per key.
const (
	KeyCRMLeads      = "CRM_LEADS"
	KeyAssignments   = "ASSIGNMENTS"
	KeyInteractions  = "INTERACTIONS"
	KeyTasks         = "TASKS"
	KeyDocuments     = "DOCUMENTS"
	KeyImport        = "IMPORT"
	KeyDedupe        = "DEDUPE"
	KeyDashboard     = "DASHBOARD"
	KeyQuotingBasic  = "QUOTING_BASIC"
	KeyClientPortal  = "CLIENT_PORTAL"
	KeyNotifications = "NOTIFICATIONS"
)

// Keys lists the full catalog in display order.
var Keys = []string{
	KeyCRMLeads,
	KeyAssignments,
	KeyInteractions,
	KeyTasks,
	KeyDocuments,
	KeyImport,
	KeyDedupe,
	KeyDashboard,
	KeyQuotingBasic,
	KeyClientPortal,
	KeyNotifications,
}

// Labels for the operator UI.
var Labels = map[string]string{
	KeyCRMLeads:      "CRM Leads",
	KeyAssignments:   "Asignaciones",
	KeyInteractions:  "Interacciones",
	KeyTasks:         "Tareas",
	KeyDocuments:     "Documentos",
	KeyImport:        "Importación",
	KeyDedupe:        "Deduplicación",
	KeyDashboard:     "Dashboard",
	KeyQuotingBasic:  "Cotizaciones (básico)",
	KeyClientPortal:  "Portal cliente",
	KeyNotifications: "Notificaciones",
}

// IsValidKey reports whether key belongs to the catalog.
func IsValidKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// CoreDefaultEnabled is the entitlement a tenant without a plan gets for
// key on first access.
func CoreDefaultEnabled(key string) bool {
	switch key {
	case KeyDashboard, KeyCRMLeads, KeyAssignments, KeyInteractions:
		return true
	default:
		return false
	}
}

// PlanBundle describes a seed plan with its default feature set.
type PlanBundle struct {
	Name          string
	Description   string
	MaxUsers      int
	MaxStorageGb  int
	RetentionDays int
	EnabledKeys   []string
}

// PlanBundles are the catalog tiers installed by the seeder.
var PlanBundles = []PlanBundle{
	{
		Name:          "Starter",
		Description:   "Plan base para equipos pequeños.",
		MaxUsers:      10,
		MaxStorageGb:  5,
		RetentionDays: 180,
		EnabledKeys:   []string{KeyDashboard, KeyCRMLeads, KeyAssignments, KeyInteractions},
	},
	{
		Name:          "Growth",
		Description:   "Plan intermedio para equipos en crecimiento.",
		MaxUsers:      25,
		MaxStorageGb:  25,
		RetentionDays: 365,
		EnabledKeys: []string{
			KeyDashboard, KeyCRMLeads, KeyAssignments, KeyInteractions,
			KeyTasks, KeyImport, KeyDedupe, KeyNotifications,
		},
	},
	{
		Name:          "Scale",
		Description:   "Plan avanzado con catálogo completo.",
		MaxUsers:      100,
		MaxStorageGb:  100,
		RetentionDays: 730,
		EnabledKeys:   Keys,
	},
}
