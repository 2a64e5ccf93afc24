package expense

import (
	"fmt"
	"time"

	"gym-backend/internal/audit"
	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

type CreateExpenseRequest struct {
	Reason string  `json:"reason" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date"` // "2025-12-09", defaults to today
	// Admin only; nil means an organization-wide expense. Managers are
	// always pinned to their own branch.
	BranchID *uint `json:"branch_id"`
}

type UpdateExpenseRequest struct {
	Reason *string  `json:"reason"`
	Amount *float64 `json:"amount"`
	Date   *string  `json:"date"`
}

type ExpenseResponse struct {
	ID         uint    `json:"id"`
	Reason     string  `json:"reason"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	BranchID   *uint   `json:"branch_id"`
	BranchName string  `json:"branch_name,omitempty"`
}

func expenseResponse(e models.Expense) ExpenseResponse {
	res := ExpenseResponse{
		ID:       e.ID,
		Reason:   e.Reason,
		Amount:   e.Amount,
		Date:     e.Date.Format("2006-01-02"),
		BranchID: e.BranchID,
	}
	if e.Branch != nil {
		res.BranchName = e.Branch.Name
	}
	return res
}

// MonthBounds returns the calendar bounds of a "YYYY-MM" label: first day
// 00:00 inclusive to the first day of the next month exclusive.
func MonthBounds(month string) (time.Time, time.Time, error) {
	first, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return first, first.AddDate(0, 1, 0), nil
}

// POST /api/expenses
func CreateExpenseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var body CreateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Reason and a positive amount are required")
		}

		branchID := body.BranchID
		if id.Role == models.RoleManager {
			if branchID != nil && (id.BranchID == nil || *branchID != *id.BranchID) {
				return fiber.NewError(fiber.StatusForbidden, "Managers can only add expenses for their assigned branch")
			}
			branchID = id.BranchID
		}
		if branchID != nil {
			var branch models.Branch
			if err := db.First(&branch, *branchID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid branch reference")
			}
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.ParseInLocation("2006-01-02", body.Date, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			date = d
		}

		e := models.Expense{
			Reason:   body.Reason,
			Amount:   body.Amount,
			Date:     date,
			BranchID: branchID,
		}
		if err := db.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		_ = audit.Write(db, audit.Entry{
			BranchID:    e.BranchID,
			UserID:      id.UserID,
			Username:    id.Username,
			EntityType:  "expense",
			EntityID:    e.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Expense added: %s - %.2f", e.Reason, e.Amount),
		})

		return c.Status(fiber.StatusCreated).JSON(expenseResponse(e))
	}
}

// GET /api/expenses?branch_id=&month=
func ListExpensesHandler(db *gorm.DB) fiber.Handler {
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

		q := scope.Apply(db.Model(&models.Expense{}), "branch_id", filter).
			Preload("Branch")

		if month := c.Query("month"); month != "" {
			from, to, err := MonthBounds(month)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "month must be 'YYYY-MM'")
			}
			q = q.Where("date >= ? AND date < ?", from, to)
		}

		var rows []models.Expense
		if err := q.Order("date DESC, id DESC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		res := make([]ExpenseResponse, 0, len(rows))
		for _, e := range rows {
			res = append(res, expenseResponse(e))
		}
		return c.JSON(res)
	}
}

// PUT /api/expenses/:id
func UpdateExpenseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var e models.Expense
		if err := db.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		if err := id.CheckBranchPtr(e.BranchID); err != nil {
			return err
		}

		var body UpdateExpenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Reason != nil {
			if *body.Reason == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Reason cannot be empty")
			}
			e.Reason = *body.Reason
		}
		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Amount must be positive")
			}
			e.Amount = *body.Amount
		}
		if body.Date != nil {
			d, err := time.ParseInLocation("2006-01-02", *body.Date, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			e.Date = d
		}

		if err := db.Save(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update expense")
		}

		return c.JSON(expenseResponse(e))
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var e models.Expense
		if err := db.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		if err := id.CheckBranchPtr(e.BranchID); err != nil {
			return err
		}

		if err := db.Delete(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete expense")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
