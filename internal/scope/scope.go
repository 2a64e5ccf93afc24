package scope

import (
	"fmt"

	"gym-backend/internal/auth"
	"gym-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Identity is the authenticated caller as asserted by the JWT middleware.
type Identity struct {
	UserID   uint
	Username string
	Role     models.UserRole
	BranchID *uint
}

// FromContext reads the identity stored by auth.JWTMiddleware. Absence means
// the request never passed authentication.
func FromContext(c *fiber.Ctx) (Identity, error) {
	role, ok := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Identity{}, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}

	id := Identity{Role: role}
	if uid, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
		id.UserID = uid
	}
	if name, ok := c.Locals(auth.CtxUsernameKey).(string); ok {
		id.Username = name
	}
	if bPtr, ok := c.Locals(auth.CtxBranchIDKey).(*uint); ok {
		id.BranchID = bPtr
	}
	return id, nil
}

// Resolve narrows a requested branch to the caller's effective branch filter.
// Managers always get their own branch, whatever was requested. Admins get
// the requested branch, or nil for all branches.
func (id Identity) Resolve(requested *uint) (*uint, error) {
	if id.Role == models.RoleManager {
		if id.BranchID == nil {
			return nil, fiber.NewError(fiber.StatusForbidden, "Manager account has no branch assigned")
		}
		return id.BranchID, nil
	}
	return requested, nil
}

// CheckBranch guards a mutation against the target record's stored branch.
// The branch must come from the existing row, never from the request payload.
func (id Identity) CheckBranch(target uint) error {
	if id.Role != models.RoleManager {
		return nil
	}
	if id.BranchID == nil || *id.BranchID != target {
		return fiber.NewError(fiber.StatusForbidden, "You can only access records in your assigned branch")
	}
	return nil
}

// CheckBranchPtr is CheckBranch for records whose branch is optional.
// Organization-wide records (nil branch) belong to admins only.
func (id Identity) CheckBranchPtr(target *uint) error {
	if id.Role != models.RoleManager {
		return nil
	}
	if target == nil {
		return fiber.NewError(fiber.StatusForbidden, "Organization-wide records require admin access")
	}
	return id.CheckBranch(*target)
}

// Apply narrows a query by the resolved branch filter. A nil filter leaves
// the query unrestricted.
func Apply(q *gorm.DB, column string, filter *uint) *gorm.DB {
	if filter == nil {
		return q
	}
	return q.Where(column+" = ?", *filter)
}

// RequestedBranchID parses the optional branch_id query parameter.
func RequestedBranchID(c *fiber.Ctx) (*uint, error) {
	bidStr := c.Query("branch_id")
	if bidStr == "" {
		return nil, nil
	}
	var bid uint
	if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "branch_id is invalid")
	}
	return &bid, nil
}
