package main

import (
	"log"
	"strings"

	"gym-backend/internal/admin"
	"gym-backend/internal/attendance"
	"gym-backend/internal/audit"
	"gym-backend/internal/auth"
	"gym-backend/internal/config"
	"gym-backend/internal/dashboard"
	"gym-backend/internal/database"
	"gym-backend/internal/expense"
	"gym-backend/internal/member"
	"gym-backend/internal/models"
	"gym-backend/internal/payment"
	"gym-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	db := database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg, db))
	api.Post("/auth/login", auth.LoginHandler(cfg, db))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Dashboard
	protected.Get("/dashboard", dashboard.SummaryHandler(db))

	// Branches (list/read for both roles, mutations admin only)
	protected.Get("/branches", admin.ListBranchesHandler(db))
	protected.Get("/branches/:id", admin.GetBranchHandler(db))

	adminOnly := auth.RequireRole(models.RoleAdmin)

	protected.Post("/branches", adminOnly, admin.CreateBranchHandler(db))
	protected.Put("/branches/:id", adminOnly, admin.UpdateBranchHandler(db))
	protected.Delete("/branches/:id", adminOnly, admin.DeleteBranchHandler(db))
	protected.Post("/branches/:id/manager", adminOnly, admin.CreateBranchManagerHandler(db))
	protected.Get("/branches/:id/managers", adminOnly, admin.ListBranchManagersHandler(db))

	// Members
	protected.Get("/members", member.ListMembersHandler(db))
	protected.Post("/members", member.CreateMemberHandler(db))
	protected.Get("/members/:id", member.GetMemberHandler(db))
	protected.Put("/members/:id", member.UpdateMemberHandler(db))
	protected.Put("/members/:id/toggle-status", member.ToggleStatusHandler(db))
	protected.Delete("/members/:id", adminOnly, member.DeleteMemberHandler(db))

	// Payments
	protected.Get("/payments", payment.ListPaymentsHandler(db))
	protected.Post("/payments", payment.CreatePaymentHandler(db))
	protected.Put("/payments/:id/status", payment.SetStatusHandler(db))
	protected.Post("/payments/bulk-update-status", payment.BulkUpdateStatusHandler(db))
	protected.Delete("/payments/:id", adminOnly, payment.DeletePaymentHandler(db))

	// Attendance
	protected.Get("/attendance", attendance.ListAttendanceHandler(db))
	protected.Get("/members/:id/attendance", attendance.MemberAttendanceHandler(db))
	protected.Post("/attendance/checkin", attendance.CheckInHandler(db))
	protected.Put("/attendance/:id/checkout", attendance.CheckOutHandler(db))

	// Expenses
	protected.Post("/expenses", expense.CreateExpenseHandler(db))
	protected.Get("/expenses", expense.ListExpensesHandler(db))
	protected.Put("/expenses/:id", expense.UpdateExpenseHandler(db))
	protected.Delete("/expenses/:id", expense.DeleteExpenseHandler(db))

	// Reports
	protected.Get("/reports/payments/export", report.ExportPaymentsHandler(db))

	// Audit logs
	protected.Get("/audit-logs", adminOnly, audit.ListAuditLogsHandler(db))

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
