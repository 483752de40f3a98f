package database

import (
	"log"

	"leadhub-backend/shared/config"
	"leadhub-backend/shared/database/models"
	"leadhub-backend/shared/features"
	utils "leadhub-backend/shared/utils/auth"
)

// SeedDatabase seeds the plan catalog and the platform SuperAdmin account.
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	plansCreated, err := seedPlans()
	if err != nil {
		return err
	}

	if plansCreated > 0 {
		log.Printf("✅ Database seeding completed (%d plans created)", plansCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return CreateSuperAdminFromConfig()
}

// seedPlans installs the catalog tiers. Existing plans are left untouched so
// operator edits survive reseeding.
func seedPlans() (int, error) {
	created := 0
	for _, bundle := range features.PlanBundles {
		var existing models.Plan
		result := DB.Where("name = ?", bundle.Name).First(&existing)
		if result.Error == nil {
			continue
		}

		enabled := make(map[string]bool, len(bundle.EnabledKeys))
		for _, key := range bundle.EnabledKeys {
			enabled[key] = true
		}

		plan := models.Plan{
			Name:          bundle.Name,
			Description:   bundle.Description,
			MaxUsers:      bundle.MaxUsers,
			MaxStorageGb:  bundle.MaxStorageGb,
			RetentionDays: bundle.RetentionDays,
			IsActive:      true,
		}
		for _, key := range features.Keys {
			plan.Features = append(plan.Features, models.PlanFeature{
				FeatureKey: key,
				Enabled:    enabled[key],
			})
		}

		if err := DB.Create(&plan).Error; err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

// CreateSuperAdminFromConfig creates the SuperAdmin user using config values.
func CreateSuperAdminFromConfig() error {
	cfg := config.GetConfig()
	return CreateSuperAdmin(cfg.SuperAdminEmail, cfg.SuperAdminPassword, cfg.SuperAdminName)
}

// CreateSuperAdmin creates a platform SuperAdmin user if one with the given
// email does not exist yet.
func CreateSuperAdmin(email, password, name string) error {
	var existing models.User
	if err := DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Super admin already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:        email,
		Password:     hashedPassword,
		Name:         name,
		IsSuperAdmin: true,
	}

	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", email)
	return nil
}
