package audit

import (
	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GET /api/audit-logs?entity_type=&branch_id=&limit=
func ListAuditLogsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested, err := scope.RequestedBranchID(c)
		if err != nil {
			return err
		}

		limit := c.QueryInt("limit", 100)
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		q := db.Model(&models.AuditLog{})
		if requested != nil {
			q = q.Where("branch_id = ?", *requested)
		}
		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}

		var rows []models.AuditLog
		if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		return c.JSON(rows)
	}
}
