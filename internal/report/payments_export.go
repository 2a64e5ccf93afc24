package report

import (
	"fmt"
	"time"

	"gym-backend/internal/config"
	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// GET /api/reports/payments/export?month=YYYY-MM[&branch_id=]
// Streams the scope-filtered payments of a billing month as an XLSX
// workbook for offline reconciliation.
func ExportPaymentsHandler(db *gorm.DB) fiber.Handler {
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
		if _, err := time.Parse("2006-01", month); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "month must be 'YYYY-MM'")
		}

		var rows []models.Payment
		if err := scope.Apply(db.Model(&models.Payment{}), "branch_id", filter).
			Preload("Member").
			Preload("Branch").
			Where("payment_month = ?", month).
			Order("branch_id ASC, member_id ASC").
			Find(&rows).Error; err != nil {
			config.LogError("report", "ExportPaymentsHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load payments")
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Sheet1"
		headers := []string{"Branch", "Member", "Month", "Amount", "Status", "Method", "Payment Date", "Notes"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, p := range rows {
			rowNo := i + 2
			paymentDate := ""
			if p.PaymentDate != nil {
				paymentDate = p.PaymentDate.Format("2006-01-02 15:04:05")
			}
			values := []interface{}{
				p.Branch.Name,
				p.Member.Name,
				p.PaymentMonth,
				p.Amount,
				string(p.Status),
				string(p.Method),
				paymentDate,
				p.Notes,
			}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, rowNo)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			config.LogError("report", "ExportPaymentsHandler", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render report")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="payments-%s.xlsx"`, month))
		return c.Send(buf.Bytes())
	}
}
