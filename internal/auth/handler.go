package auth

import (
	"strings"

	"gym-backend/internal/config"
	"gym-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register-admin
// Bootstrap endpoint, only usable while no admin account exists yet.
func RegisterAdminHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))
		if body.Username == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
		}

		var count int64
		db.Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "An admin account already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Username:     body.Username,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.TrimSpace(strings.ToLower(body.Username))

		var user models.User
		if err := db.Where("username = ?", body.Username).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not generate token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":        user.ID,
				"username":  user.Username,
				"role":      user.Role,
				"branch_id": user.BranchID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := db.First(&user, userID).Error; err == nil {
				response := fiber.Map{
					"user_id":   user.ID,
					"username":  user.Username,
					"role":      user.Role,
					"branch_id": user.BranchID,
				}

				if user.BranchID != nil {
					var branch models.Branch
					if err := db.First(&branch, *user.BranchID).Error; err == nil {
						response["branch"] = fiber.Map{
							"id":       branch.ID,
							"name":     branch.Name,
							"location": branch.Location,
							"contact":  branch.Contact,
						}
					}
				}

				return c.JSON(response)
			}
		}

		// Fallback to the claim values if the row can no longer be loaded.
		return c.JSON(fiber.Map{
			"user_id":   userIDVal,
			"username":  c.Locals(CtxUsernameKey),
			"role":      c.Locals(CtxUserRoleKey),
			"branch_id": c.Locals(CtxBranchIDKey),
		})
	}
}
