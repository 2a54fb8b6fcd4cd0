package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetUser returns the logged-in user.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}

	user, err := h.Store.GetUser(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err, "User not found.", "Could not load user.")
	}
	return c.JSON(user)
}

// GetUserRole returns the logged-in user's role name.
func (h *Handler) GetUserRole(c *fiber.Ctx) error {
	userID, ok, err := h.currentUser(c)
	if !ok {
		return err
	}

	role, err := h.Store.UserRole(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err, "User not found.", "Could not load role.")
	}
	return c.JSON(fiber.Map{"role": role})
}
