package middleware

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"musix/models"
	"musix/store"
)

// RoleLookup resolves a user's role name.
type RoleLookup interface {
	UserRole(ctx context.Context, id uuid.UUID) (string, error)
}

// AdminRequired checks that the logged-in user has the admin role. It must
// run after AuthRequired.
func AdminRequired(roles RoleLookup, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in."})
		}

		role, err := roles.UserRole(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not allowed to do this."})
			}
			logger.Error("role lookup failed", "user", userID, "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not check permissions."})
		}

		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin role required."})
		}

		c.Locals("role", role)
		return c.Next()
	}
}
