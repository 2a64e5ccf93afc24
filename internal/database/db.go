package database

import (
	"log"

	"gym-backend/internal/config"
	"gym-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the Postgres connection and runs migrations. The returned
// handle is passed down to the handlers; there is no package-level DB.
func Init(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.SeedSample {
		if err := SeedSampleData(db); err != nil {
			log.Printf("[WARN] sample data seed failed: %v", err)
		}
	}

	log.Println("database connected, migration complete")
	return db
}

// Migrate is separate from Init so tests can run it against their own handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Member{},
		&models.Payment{},
		&models.Attendance{},
		&models.Expense{},
		&models.AuditLog{},
	)
}
