package models

import "time"

type AuditAction string

const (
	AuditActionCreate     AuditAction = "create"
	AuditActionUpdate     AuditAction = "update"
	AuditActionDelete     AuditAction = "delete"
	AuditActionBulkUpdate AuditAction = "bulk_update"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BranchID *uint  `json:"branch_id"`
	UserID   uint   `json:"user_id"`
	Username string `gorm:"size:100" json:"username"` // denormalized

	// e.g. "member", "payment", "expense"
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action      AuditAction `gorm:"size:20" json:"action"`
	Description string      `gorm:"size:255" json:"description"`
}
