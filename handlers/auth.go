package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"musix/middleware"
	"musix/models"
	"musix/store"
)

// RegisterUser creates a new account with the "user" role.
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var in models.RegisterInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hashing failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register user."})
	}

	user, err := h.Store.CreateUser(c.UserContext(), models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	})
	if errors.Is(err, store.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already registered."})
	}
	if err != nil {
		return h.fail(c, err, "", "Could not register user.")
	}

	h.Log.Info("user registered", "user", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered.", "user": user})
}

// LoginUser checks the credentials and stores the user's ID in the session.
func (h *Handler) LoginUser(c *fiber.Ctx) error {
	var in models.LoginInput
	if ok, err := h.bind(c, &in); !ok {
		return err
	}

	user, err := h.Store.GetUserByEmail(c.UserContext(), strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Log.Error("user lookup failed", "err", err)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password."})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password."})
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		h.Log.Error("session get failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session."})
	}
	if err := sess.Regenerate(); err != nil {
		h.Log.Error("session regenerate failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session."})
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		h.Log.Error("session save failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not save session."})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged in.", "user": user})
}

// LogoutUser destroys the session and the user's player queue.
func (h *Handler) LogoutUser(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err != nil {
		h.Log.Error("session get failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load session."})
	}
	if userID, ok := sess.Get(middleware.SessionUserKey).(uuid.UUID); ok {
		h.Player.Drop(userID)
	}
	if err := sess.Destroy(); err != nil {
		h.Log.Error("session destroy failed", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not end session."})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out."})
}
