package admin

import (
	"strings"

	"gym-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateManagerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ManagerResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	BranchID  *uint  `json:"branch_id"`
	CreatedAt string `json:"created_at"`
}

// ----------------------------------------
// Manager accounts (one branch each)
// ----------------------------------------

// POST /api/branches/:id/manager (admin)
func CreateBranchManagerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branch models.Branch
		if err := db.First(&branch, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		var body CreateManagerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.ToLower(strings.TrimSpace(body.Username))
		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
		}

		var exist models.User
		if err := db.Where("username = ?", body.Username).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Username is already taken")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         models.RoleManager,
			BranchID:     &branch.ID,
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create manager")
		}

		return c.Status(fiber.StatusCreated).JSON(ManagerResponse{
			ID:        user.ID,
			Username:  user.Username,
			Role:      string(user.Role),
			BranchID:  user.BranchID,
			CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/branches/:id/managers (admin)
func ListBranchManagersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("id")

		var users []models.User
		if err := db.
			Where("branch_id = ? AND role = ?", branchID, models.RoleManager).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list managers")
		}

		res := make([]ManagerResponse, 0, len(users))
		for _, u := range users {
			res = append(res, ManagerResponse{
				ID:        u.ID,
				Username:  u.Username,
				Role:      string(u.Role),
				BranchID:  u.BranchID,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
