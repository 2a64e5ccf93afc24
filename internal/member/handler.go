package member

import (
	"strings"
	"time"

	"gym-backend/internal/audit"
	"gym-backend/internal/config"
	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type MemberData struct {
	Name             string  `json:"name" validate:"required"`
	Email            string  `json:"email" validate:"omitempty,email"`
	Phone            string  `json:"phone"`
	EmergencyContact string  `json:"emergency_contact"`
	BranchID         uint    `json:"branch_id" validate:"required"`
	MembershipType   string  `json:"membership_type" validate:"required,oneof=basic premium vip"`
	MonthlyFee       float64 `json:"monthly_fee" validate:"required,gte=0"`
	FingerprintID    *int    `json:"fingerprint_id" validate:"omitempty,gte=1,lte=999"`
}

// CreateMemberRequest is the admission flow payload: the member itself plus
// the admission fee that is collected up front.
type CreateMemberRequest struct {
	MemberData        MemberData `json:"member_data" validate:"required"`
	AdmissionFee      float64    `json:"admission_fee" validate:"required,gt=0"`
	PaymentMethod     string     `json:"payment_method" validate:"required,oneof=cash card upi bank_transfer other"`
	FirstPaymentMonth string     `json:"first_payment_month" validate:"required,oneof=current next"`
}

type UpdateMemberRequest struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Phone            *string  `json:"phone"`
	EmergencyContact *string  `json:"emergency_contact"`
	BranchID         *uint    `json:"branch_id"`
	MembershipType   *string  `json:"membership_type"`
	MonthlyFee       *float64 `json:"monthly_fee"`
	FingerprintID    *int     `json:"fingerprint_id"`
}

type ToggleStatusRequest struct {
	IsActive *bool `json:"is_active"`
}

type MemberResponse struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	EmergencyContact string  `json:"emergency_contact"`
	BranchID         uint    `json:"branch_id"`
	BranchName       string  `json:"branch_name"`
	MembershipType   string  `json:"membership_type"`
	MonthlyFee       float64 `json:"monthly_fee"`
	IsActive         bool    `json:"is_active"`
	JoinDate         string  `json:"join_date"`
	FingerprintID    *int    `json:"fingerprint_id"`
}

func memberResponse(m models.Member) MemberResponse {
	return MemberResponse{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		EmergencyContact: m.EmergencyContact,
		BranchID:         m.BranchID,
		BranchName:       m.Branch.Name,
		MembershipType:   string(m.MembershipType),
		MonthlyFee:       m.MonthlyFee,
		IsActive:         m.IsActive,
		JoinDate:         m.JoinDate.Format("2006-01-02"),
		FingerprintID:    m.FingerprintID,
	}
}

// POST /api/members
// Admission flow: creates the member plus two payments in one transaction —
// the admission fee (collected now) and the first monthly fee, which is paid
// immediately when the membership starts this month or left pending when it
// starts next month.
func CreateMemberHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var body CreateMemberRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid required fields")
		}

		if err := id.CheckBranch(body.MemberData.BranchID); err != nil {
			return err
		}

		var branch models.Branch
		if err := db.First(&branch, body.MemberData.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid branch reference")
		}

		now := time.Now()
		firstMonth := models.MonthLabel(now)
		startsNow := body.FirstPaymentMonth == "current"
		if !startsNow {
			firstMonth = models.MonthLabel(now.AddDate(0, 1, 0))
		}

		m := models.Member{
			Name:             strings.TrimSpace(body.MemberData.Name),
			Email:            strings.TrimSpace(body.MemberData.Email),
			Phone:            strings.TrimSpace(body.MemberData.Phone),
			EmergencyContact: strings.TrimSpace(body.MemberData.EmergencyContact),
			BranchID:         branch.ID,
			MembershipType:   models.MembershipType(body.MemberData.MembershipType),
			MonthlyFee:       body.MemberData.MonthlyFee,
			IsActive:         true,
			JoinDate:         now,
			FingerprintID:    body.MemberData.FingerprintID,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&m).Error; err != nil {
				return err
			}

			admission := models.Payment{
				MemberID:     m.ID,
				BranchID:     m.BranchID,
				Amount:       body.AdmissionFee,
				PaymentDate:  &now,
				PaymentMonth: firstMonth,
				Status:       models.PaymentStatusPaid,
				Method:       models.PaymentMethod(body.PaymentMethod),
				Notes:        "Admission fee",
			}
			if err := tx.Create(&admission).Error; err != nil {
				return err
			}

			monthly := models.Payment{
				MemberID:     m.ID,
				BranchID:     m.BranchID,
				Amount:       m.MonthlyFee,
				PaymentMonth: firstMonth,
				Status:       models.PaymentStatusPending,
				Notes:        "Monthly membership fee",
			}
			if startsNow {
				monthly.Status = models.PaymentStatusPaid
				monthly.PaymentDate = &now
				monthly.Method = models.PaymentMethod(body.PaymentMethod)
			}
			return tx.Create(&monthly).Error
		})
		if err != nil {
			config.LogError("member", "CreateMemberHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create member")
		}

		m.Branch = branch
		return c.Status(fiber.StatusCreated).JSON(memberResponse(m))
	}
}

// GET /api/members?branch_id=&status=&name=
func ListMembersHandler(db *gorm.DB) fiber.Handler {
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

		q := scope.Apply(db.Model(&models.Member{}), "branch_id", filter).
			Preload("Branch")

		if status := c.Query("status"); status != "" {
			switch status {
			case "active":
				q = q.Where("is_active = ?", true)
			case "inactive":
				q = q.Where("is_active = ?", false)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "status must be 'active' or 'inactive'")
			}
		}
		if name := c.Query("name"); name != "" {
			q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}

		var members []models.Member
		if err := q.Order("name asc").Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list members")
		}

		res := make([]MemberResponse, 0, len(members))
		for _, m := range members {
			res = append(res, memberResponse(m))
		}
		return c.JSON(res)
	}
}

// GET /api/members/:id
func GetMemberHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var m models.Member
		if err := db.Preload("Branch").First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		if err := id.CheckBranch(m.BranchID); err != nil {
			return err
		}

		return c.JSON(memberResponse(m))
	}
}

// PUT /api/members/:id
// Branch reassignment is admin-only. Moving a member does not rewrite the
// branch stored on their historical payments or attendance.
func UpdateMemberHandler(db *gorm.DB) fiber.Handler {
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

		var body UpdateMemberRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.BranchID != nil && *body.BranchID != m.BranchID {
			if id.Role == models.RoleManager {
				return fiber.NewError(fiber.StatusForbidden, "Managers cannot change a member's branch")
			}
			var branch models.Branch
			if err := db.First(&branch, *body.BranchID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid branch reference")
			}
			m.BranchID = branch.ID
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name cannot be empty")
			}
			m.Name = name
		}
		if body.Email != nil {
			m.Email = strings.TrimSpace(*body.Email)
		}
		if body.Phone != nil {
			m.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.EmergencyContact != nil {
			m.EmergencyContact = strings.TrimSpace(*body.EmergencyContact)
		}
		if body.MembershipType != nil {
			switch models.MembershipType(*body.MembershipType) {
			case models.MembershipBasic, models.MembershipPremium, models.MembershipVIP:
				m.MembershipType = models.MembershipType(*body.MembershipType)
			default:
				return fiber.NewError(fiber.StatusBadRequest, "membership_type must be basic, premium or vip")
			}
		}
		if body.MonthlyFee != nil {
			if *body.MonthlyFee < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "monthly_fee cannot be negative")
			}
			m.MonthlyFee = *body.MonthlyFee
		}
		if body.FingerprintID != nil {
			m.FingerprintID = body.FingerprintID
		}

		if err := db.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update member")
		}

		db.Preload("Branch").First(&m, m.ID)
		return c.JSON(memberResponse(m))
	}
}

// PUT /api/members/:id/toggle-status
func ToggleStatusHandler(db *gorm.DB) fiber.Handler {
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

		var body ToggleStatusRequest
		if err := c.BodyParser(&body); err != nil || body.IsActive == nil {
			return fiber.NewError(fiber.StatusBadRequest, "is_active is required")
		}

		if err := SetActive(db, &m, *body.IsActive); err != nil {
			config.LogError("member", "ToggleStatusHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update member status")
		}

		action := "deactivated"
		if *body.IsActive {
			action = "reactivated"
		}
		_ = audit.Write(db, audit.Entry{
			BranchID:    &m.BranchID,
			UserID:      id.UserID,
			Username:    id.Username,
			EntityType:  "member",
			EntityID:    m.ID,
			Action:      models.AuditActionUpdate,
			Description: "Member " + m.Name + " " + action,
		})

		db.Preload("Branch").First(&m, m.ID)
		return c.JSON(memberResponse(m))
	}
}

// DELETE /api/members/:id (admin)
func DeleteMemberHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var m models.Member
		if err := db.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}

		if err := DeleteCascade(db, &m); err != nil {
			config.LogError("member", "DeleteMemberHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete member")
		}

		_ = audit.Write(db, audit.Entry{
			BranchID:    &m.BranchID,
			UserID:      id.UserID,
			Username:    id.Username,
			EntityType:  "member",
			EntityID:    m.ID,
			Action:      models.AuditActionDelete,
			Description: "Member " + m.Name + " deleted with payments and attendance",
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
