package payment

import (
	"fmt"
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

type CreatePaymentRequest struct {
	MemberID     uint    `json:"member_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	PaymentMonth string  `json:"payment_month" validate:"required"`
	Status       string  `json:"payment_status" validate:"omitempty,oneof=paid pending overdue non_payable"`
	Method       string  `json:"payment_method" validate:"omitempty,oneof=cash card upi bank_transfer other"`
	Notes        string  `json:"notes"`
}

type SetStatusRequest struct {
	Status string `json:"payment_status" validate:"required,oneof=paid pending overdue non_payable"`
	Method string `json:"payment_method" validate:"omitempty,oneof=cash card upi bank_transfer other"`
}

type BulkUpdateRequest struct {
	Month     string `json:"month" validate:"required"`
	NewStatus string `json:"new_status" validate:"required,oneof=paid pending non_payable"`
	// Include wins: when present, the exclude list is ignored.
	MemberIDsToInclude []uint `json:"member_ids_to_include"`
	MemberIDsToExclude []uint `json:"member_ids_to_exclude"`
}

type PaymentResponse struct {
	ID           uint    `json:"id"`
	MemberID     uint    `json:"member_id"`
	MemberName   string  `json:"member_name"`
	MemberPhone  string  `json:"member_phone"`
	BranchID     uint    `json:"branch_id"`
	BranchName   string  `json:"branch_name"`
	Amount       float64 `json:"amount"`
	PaymentMonth string  `json:"payment_month"`
	Status       string  `json:"payment_status"`
	Method       string  `json:"payment_method,omitempty"`
	PaymentDate  *string `json:"payment_date"`
	Notes        string  `json:"notes"`
}

func paymentResponse(p models.Payment) PaymentResponse {
	res := PaymentResponse{
		ID:           p.ID,
		MemberID:     p.MemberID,
		MemberName:   p.Member.Name,
		MemberPhone:  p.Member.Phone,
		BranchID:     p.BranchID,
		BranchName:   p.Branch.Name,
		Amount:       p.Amount,
		PaymentMonth: p.PaymentMonth,
		Status:       string(p.Status),
		Method:       string(p.Method),
		Notes:        p.Notes,
	}
	if p.PaymentDate != nil {
		d := p.PaymentDate.Format("2006-01-02 15:04:05")
		res.PaymentDate = &d
	}
	return res
}

func validMonthLabel(s string) bool {
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// GET /api/payments?branch_id=&status=&member_name=
func ListPaymentsHandler(db *gorm.DB) fiber.Handler {
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

		q := scope.Apply(db.Model(&models.Payment{}), "branch_id", filter).
			Preload("Member").
			Preload("Branch")

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
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

		var rows []models.Payment
		if err := q.Order("payment_date DESC, id DESC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}

		res := make([]PaymentResponse, 0, len(rows))
		for _, p := range rows {
			res = append(res, paymentResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/payments
// The branch is always copied from the member's current branch; a branch in
// the payload is ignored so callers cannot book revenue onto another branch.
func CreatePaymentHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid required fields")
		}
		if !validMonthLabel(body.PaymentMonth) {
			return fiber.NewError(fiber.StatusBadRequest, "payment_month must be 'YYYY-MM'")
		}

		var m models.Member
		if err := db.First(&m, body.MemberID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Member not found")
		}
		if err := id.CheckBranch(m.BranchID); err != nil {
			return err
		}

		status := models.PaymentStatusPending
		if body.Status != "" {
			status = models.PaymentStatus(body.Status)
		}
		if status == models.PaymentStatusPaid && body.Method == "" {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method is required for paid payments")
		}

		p := models.Payment{
			MemberID:     m.ID,
			BranchID:     m.BranchID,
			Amount:       body.Amount,
			PaymentMonth: body.PaymentMonth,
			Notes:        body.Notes,
		}
		applyStatusFields(&p, status, models.PaymentMethod(body.Method), time.Now())

		if err := db.Create(&p).Error; err != nil {
			config.LogError("payment", "CreatePaymentHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create payment")
		}

		p.Member = m
		db.First(&p.Branch, p.BranchID)
		return c.Status(fiber.StatusCreated).JSON(paymentResponse(p))
	}
}

// PUT /api/payments/:id/status
func SetStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var body SetStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Missing or invalid required fields")
		}

		var p models.Payment
		if err := db.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		// Scope is checked against the stored branch, not anything the
		// client sent.
		if err := id.CheckBranch(p.BranchID); err != nil {
			return err
		}

		status := models.PaymentStatus(body.Status)
		if status == models.PaymentStatusPaid && body.Method == "" {
			return fiber.NewError(fiber.StatusBadRequest, "payment_method is required when marking as paid")
		}

		applyStatusFields(&p, status, models.PaymentMethod(body.Method), time.Now())

		updates := map[string]interface{}{
			"status":       p.Status,
			"payment_date": p.PaymentDate,
			"method":       p.Method,
		}
		if err := db.Model(&p).Updates(updates).Error; err != nil {
			config.LogError("payment", "SetStatusHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update payment status")
		}

		db.Preload("Member").Preload("Branch").First(&p, p.ID)
		return c.JSON(paymentResponse(p))
	}
}

// POST /api/payments/bulk-update-status
func BulkUpdateStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var body BulkUpdateRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Month and a valid new_status (paid, pending, non_payable) are required")
		}
		if !validMonthLabel(body.Month) {
			return fiber.NewError(fiber.StatusBadRequest, "month must be 'YYYY-MM'")
		}

		filter, err := id.Resolve(nil)
		if err != nil {
			return err
		}

		count, err := BulkSetStatus(db, filter, body.Month,
			models.PaymentStatus(body.NewStatus),
			body.MemberIDsToInclude, body.MemberIDsToExclude, time.Now())
		if err != nil {
			config.LogError("payment", "BulkUpdateStatusHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Bulk payment update failed")
		}

		_ = audit.Write(db, audit.Entry{
			BranchID:    filter,
			UserID:      id.UserID,
			Username:    id.Username,
			EntityType:  "payment",
			Action:      models.AuditActionBulkUpdate,
			Description: fmt.Sprintf("Bulk set %d payments of %s to %s", count, body.Month, body.NewStatus),
		})

		return c.JSON(fiber.Map{
			"message":        fmt.Sprintf("%d payments updated successfully.", count),
			"modified_count": count,
		})
	}
}

// DELETE /api/payments/:id (admin)
func DeletePaymentHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Payment
		if err := db.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}

		if err := db.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete payment")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
