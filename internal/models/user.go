package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
)

type User struct {
	ID uint `gorm:"primaryKey"`
	// Required for managers, nil for admins.
	BranchID *uint
	Branch   *Branch

	Username     string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
