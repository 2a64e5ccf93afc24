package models

import (
	"fmt"
	"time"
)

// MonthLabel renders the "YYYY-MM" billing period label for a point in time.
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

type PaymentStatus string

const (
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusOverdue    PaymentStatus = "overdue"
	PaymentStatusNonPayable PaymentStatus = "non_payable"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOther        PaymentMethod = "other"
	// PaymentMethodBulk marks rows flipped to paid by a bulk update,
	// where no per-row method is known.
	PaymentMethodBulk PaymentMethod = "bulk_update"
)

type Payment struct {
	ID       uint `gorm:"primaryKey"`
	MemberID uint `gorm:"index;not null"`
	Member   Member
	// Copied from the member at creation time. Deliberately NOT kept in
	// sync if the member is later moved to another branch.
	BranchID uint `gorm:"index;not null"`
	Branch   Branch

	Amount float64 `gorm:"not null"`
	// Billing period label "YYYY-MM", not a timestamp.
	PaymentMonth string        `gorm:"size:7;index;not null"`
	Status       PaymentStatus `gorm:"size:20;index;not null;default:pending"`
	// Set only while Status is paid, cleared otherwise.
	Method      PaymentMethod `gorm:"size:20"`
	PaymentDate *time.Time
	Notes       string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
