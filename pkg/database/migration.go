package database

import (
	"github.com/roeeblo/smart-job-tracker/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.JobApplication{},
	)
}
