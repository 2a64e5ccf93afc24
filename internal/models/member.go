package models

import "time"

type MembershipType string

const (
	MembershipBasic   MembershipType = "basic"
	MembershipPremium MembershipType = "premium"
	MembershipVIP     MembershipType = "vip"
)

type Member struct {
	ID       uint `gorm:"primaryKey"`
	BranchID uint `gorm:"index;not null"`
	Branch   Branch

	Name             string `gorm:"size:100;not null"`
	Email            string `gorm:"size:100"`
	Phone            string `gorm:"size:50"`
	EmergencyContact string `gorm:"size:100"`

	MembershipType MembershipType `gorm:"size:20;not null"`
	MonthlyFee     float64        `gorm:"not null"`
	IsActive       bool           `gorm:"not null;default:true"`
	JoinDate       time.Time      `gorm:"index;not null"`

	// Optional scanner slot (1-999). Pointer so absent members don't collide
	// on the unique index.
	FingerprintID *int `gorm:"uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
