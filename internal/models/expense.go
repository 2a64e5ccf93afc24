package models

import "time"

type Expense struct {
	ID     uint      `gorm:"primaryKey"`
	Reason string    `gorm:"size:255;not null"`
	Amount float64   `gorm:"not null"`
	Date   time.Time `gorm:"index;not null"`
	// Nil means an organization-wide expense not tied to any branch.
	BranchID *uint `gorm:"index"`
	Branch   *Branch

	CreatedAt time.Time
	UpdatedAt time.Time
}
