package attendance

import (
	"errors"
	"math"
	"time"

	"gym-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckInMember opens an attendance record for the member. A member can hold
// at most one open record, so a second check-in before checkout is a
// conflict. The branch is copied from the member, not from the request.
func CheckInMember(db *gorm.DB, m *models.Member, now time.Time) (*models.Attendance, error) {
	if !m.IsActive {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot check in an inactive member")
	}

	var open models.Attendance
	err := db.Where("member_id = ? AND check_out_time IS NULL", m.ID).First(&open).Error
	if err == nil {
		return nil, fiber.NewError(fiber.StatusConflict, "Member is already checked in")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not check open attendance")
	}

	a := models.Attendance{
		MemberID:    m.ID,
		BranchID:    m.BranchID,
		CheckInTime: now,
	}
	if err := db.Create(&a).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Could not create attendance record")
	}
	return &a, nil
}

// CheckOutAttendance closes an open record and derives the visit duration in
// whole minutes, rounded.
func CheckOutAttendance(db *gorm.DB, a *models.Attendance, now time.Time) error {
	if a.CheckOutTime != nil {
		return fiber.NewError(fiber.StatusConflict, "Member already checked out")
	}

	minutes := int(math.Round(now.Sub(a.CheckInTime).Minutes()))
	a.CheckOutTime = &now
	a.DurationMinutes = &minutes

	if err := db.Model(a).Updates(map[string]interface{}{
		"check_out_time":   a.CheckOutTime,
		"duration_minutes": a.DurationMinutes,
	}).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not check out member")
	}
	return nil
}
