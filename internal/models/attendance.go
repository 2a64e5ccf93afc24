package models

import "time"

type Attendance struct {
	ID       uint `gorm:"primaryKey"`
	MemberID uint `gorm:"index;not null"`
	Member   Member
	// Copied from the member at check-in, same denormalization rule as Payment.
	BranchID uint `gorm:"index;not null"`
	Branch   Branch

	CheckInTime  time.Time `gorm:"index;not null"`
	CheckOutTime *time.Time
	// Whole minutes, present iff CheckOutTime is present.
	DurationMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}
