package attendance

import (
	"strings"
	"time"

	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CheckInRequest struct {
	MemberID uint `json:"member_id"`
}

type AttendanceResponse struct {
	ID              uint    `json:"id"`
	MemberID        uint    `json:"member_id"`
	MemberName      string  `json:"member_name"`
	BranchID        uint    `json:"branch_id"`
	BranchName      string  `json:"branch_name"`
	CheckInTime     string  `json:"check_in_time"`
	CheckOutTime    *string `json:"check_out_time"`
	DurationMinutes *int    `json:"duration_minutes"`
}

func attendanceResponse(a models.Attendance) AttendanceResponse {
	res := AttendanceResponse{
		ID:              a.ID,
		MemberID:        a.MemberID,
		MemberName:      a.Member.Name,
		BranchID:        a.BranchID,
		BranchName:      a.Branch.Name,
		CheckInTime:     a.CheckInTime.Format("2006-01-02 15:04:05"),
		DurationMinutes: a.DurationMinutes,
	}
	if a.CheckOutTime != nil {
		s := a.CheckOutTime.Format("2006-01-02 15:04:05")
		res.CheckOutTime = &s
	}
	return res
}

// GET /api/attendance?branch_id=&date=&member_name=
func ListAttendanceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}
		requested, err := scope.RequestedBranchID(c)
		if err != nil {
			return err
		}
		filter, err := id.Resolve(requested)
		if err != nil {
			return err
		}

		q := scope.Apply(db.Model(&models.Attendance{}), "branch_id", filter).
			Preload("Member").
			Preload("Branch")

		if dateStr := c.Query("date"); dateStr != "" {
			day, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			q = q.Where("check_in_time >= ? AND check_in_time < ?", day, day.AddDate(0, 0, 1))
		}
		if name := c.Query("member_name"); name != "" {
			var memberIDs []uint
			if err := db.Model(&models.Member{}).
				Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
				Pluck("id", &memberIDs).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not search members")
			}
			q = q.Where("member_id IN ?", memberIDs)
		}

		var rows []models.Attendance
		if err := q.Order("check_in_time DESC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list attendance")
		}

		res := make([]AttendanceResponse, 0, len(rows))
		for _, a := range rows {
			res = append(res, attendanceResponse(a))
		}
		return c.JSON(res)
	}
}

// GET /api/members/:id/attendance
func MemberAttendanceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var m models.Member
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		if err := id.CheckBranch(m.BranchID); err != nil {
			return err
		}

		var rows []models.Attendance
		if err := db.Where("member_id = ?", m.ID).
			Preload("Member").
			Preload("Branch").
			Order("check_in_time DESC").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list attendance")
		}

		res := make([]AttendanceResponse, 0, len(rows))
		for _, a := range rows {
			res = append(res, attendanceResponse(a))
		}
		return c.JSON(res)
	}
}

// POST /api/attendance/checkin
func CheckInHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var body CheckInRequest
		if err := c.BodyParser(&body); err != nil || body.MemberID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "member_id is required")
		}

		var m models.Member
		if err := db.First(&m, body.MemberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		if err := id.CheckBranch(m.BranchID); err != nil {
			return err
		}

		a, err := CheckInMember(db, &m, time.Now())
		if err != nil {
			return err
		}

		a.Member = m
		db.First(&a.Branch, a.BranchID)
		return c.Status(fiber.StatusCreated).JSON(attendanceResponse(*a))
	}
}

// PUT /api/attendance/:id/checkout
func CheckOutHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var a models.Attendance
		if err := db.Preload("Member").Preload("Branch").
			First(&a, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Attendance record not found")
		}
		if err := id.CheckBranch(a.BranchID); err != nil {
			return err
		}

		if err := CheckOutAttendance(db, &a, time.Now()); err != nil {
			return err
		}

		return c.JSON(attendanceResponse(a))
	}
}
