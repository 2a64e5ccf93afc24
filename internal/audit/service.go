package audit

import (
	"gym-backend/internal/config"
	"gym-backend/internal/models"

	"gorm.io/gorm"
)

type Entry struct {
	BranchID    *uint
	UserID      uint
	Username    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
}

// Write records a mutation in the audit trail. The trail is best-effort:
// callers log failures but never fail the request over them.
func Write(db *gorm.DB, e Entry) error {
	row := models.AuditLog{
		BranchID:    e.BranchID,
		UserID:      e.UserID,
		Username:    e.Username,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		Description: e.Description,
	}
	if err := db.Create(&row).Error; err != nil {
		config.LogError("audit", "Write", err)
		return err
	}
	return nil
}
