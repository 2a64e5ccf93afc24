package dashboard

import (
	"time"

	"gym-backend/internal/config"
	"gym-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/dashboard?month=YYYY-MM&branch_id=
// branch_id is honored for admins only; managers always get their own
// branch no matter what they request.
func SummaryHandler(db *gorm.DB) fiber.Handler {
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

		month := c.Query("month")
		if month != "" {
			if _, err := time.Parse("2006-01", month); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "month must be 'YYYY-MM'")
			}
		}

		summary, err := ComputeSummary(db, filter, month, time.Now())
		if err != nil {
			config.LogError("dashboard", "SummaryHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute dashboard summary")
		}

		return c.JSON(summary)
	}
}
