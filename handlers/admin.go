package handlers

import (
	"github.com/gofiber/fiber/v2"

	"musix/middleware"
	"musix/models"
)

// GetAllUsers lists every user.
func (h *Handler) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.Store.ListUsers(c.UserContext())
	if err != nil {
		return h.fail(c, err, "", "Could not list users.")
	}
	return c.JSON(users)
}

// GetUserByID returns a single user.
func (h *Handler) GetUserByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "userID", "user")
	if !ok {
		return err
	}

	user, err := h.Store.GetUser(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "User not found.", "Could not load user.")
	}
	return c.JSON(user)
}

// GetUserPlaylistsByUserID lists the playlists owned by a user.
func (h *Handler) GetUserPlaylistsByUserID(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "userID", "user")
	if !ok {
		return err
	}

	if _, err := h.Store.GetUser(c.UserContext(), id); err != nil {
		return h.fail(c, err, "User not found.", "Could not load user.")
	}
	playlists, err := h.Store.ListPlaylists(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err, "", "Could not list playlists.")
	}
	return c.JSON(playlists)
}

// UpdateUserRole changes a user's role.
func (h *Handler) UpdateUserRole(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "userID", "user")
	if !ok {
		return err
	}

	var in models.RoleInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	if err := h.Store.SetUserRole(c.UserContext(), id, in.Role); err != nil {
		return h.fail(c, err, "User not found.", "Could not update role.")
	}

	h.Log.Info("user role changed", "user", id, "role", in.Role)
	return c.JSON(fiber.Map{"message": "Role updated.", "role": in.Role})
}

// DeleteUserByID deletes a user together with their playlists. Admins
// cannot delete their own account.
func (h *Handler) DeleteUserByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c, "userID", "user")
	if !ok {
		return err
	}
	if self, ok := middleware.UserID(c); ok && self == id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot delete your own account."})
	}

	if err := h.Store.DeleteUser(c.UserContext(), id); err != nil {
		return h.fail(c, err, "User not found.", "Could not delete user.")
	}
	h.Player.Drop(id)

	h.Log.Info("user deleted", "user", id)
	return c.JSON(fiber.Map{"message": "User deleted."})
}
