package admin

import (
	"strings"

	"gym-backend/internal/models"
	"gym-backend/internal/scope"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BranchResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Contact   string `json:"contact"`
	CreatedAt string `json:"created_at"`
}

type CreateBranchRequest struct {
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Contact  *string `json:"contact"` // optional
}

type UpdateBranchRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Contact  *string `json:"contact"`
}

func branchResponse(b models.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		Contact:   b.Contact,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// Branch CRUD
// ----------------------------------------

// POST /api/branches (admin)
func CreateBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Branch name is required")
		}

		branch := models.Branch{
			Name:     body.Name,
			Location: body.Location,
		}
		if body.Contact != nil {
			branch.Contact = strings.TrimSpace(*body.Contact)
		}

		if err := db.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create branch")
		}

		return c.Status(fiber.StatusCreated).JSON(branchResponse(branch))
	}
}

// GET /api/branches — managers see only their own branch.
func ListBranchesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}
		filter, err := id.Resolve(nil)
		if err != nil {
			return err
		}

		var branches []models.Branch
		if err := scope.Apply(db.Model(&models.Branch{}), "id", filter).
			Order("name asc").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}

		res := make([]BranchResponse, 0, len(branches))
		for _, b := range branches {
			res = append(res, branchResponse(b))
		}
		return c.JSON(res)
	}
}

// GET /api/branches/:id
func GetBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := scope.FromContext(c)
		if err != nil {
			return err
		}

		var branch models.Branch
		if err := db.First(&branch, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}
		if err := id.CheckBranch(branch.ID); err != nil {
			return err
		}

		return c.JSON(branchResponse(branch))
	}
}

// PUT /api/branches/:id (admin)
func UpdateBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branch models.Branch
		if err := db.First(&branch, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Branch name cannot be empty")
			}
			branch.Name = name
		}
		if body.Location != nil {
			branch.Location = *body.Location
		}
		if body.Contact != nil {
			branch.Contact = strings.TrimSpace(*body.Contact)
		}

		if err := db.Save(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update branch")
		}

		return c.JSON(branchResponse(branch))
	}
}

// DELETE /api/branches/:id (admin)
func DeleteBranchHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branch models.Branch
		if err := db.First(&branch, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		if err := db.Delete(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete branch")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
