package db

import (
	types "github.com/leap-pm/ads-service/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Inventory
		// =========================
		&types.Ad{},
		&types.AdTargetingRule{},
		&types.AdPlacement{},

		// =========================
		// Engagement events
		// =========================
		&types.AdImpression{},
		&types.AdClick{},
	)
}
