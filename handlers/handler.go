// Package handlers contains the fiber handlers of the musix API.
package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"musix/middleware"
	"musix/player"
	"musix/store"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	Store    store.Store
	Sessions *session.Store
	Player   *player.Manager
	Log      *log.Logger
	PageSize int

	validate *validator.Validate
}

// New wires a Handler. pageSize bounds GET /songs pages.
func New(s store.Store, sessions *session.Store, players *player.Manager, logger *log.Logger, pageSize int) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		Store:    s,
		Sessions: sessions,
		Player:   players,
		Log:      logger,
		PageSize: pageSize,
		validate: v,
	}
}

// bind parses the request body into v and validates it. On failure the
// 400 response has already been written and the returned bool is false.
func (h *Handler) bind(c *fiber.Ctx, v interface{}) (bool, error) {
	if err := c.BodyParser(v); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}
	return h.check(c, v)
}

// check validates v, writing a 400 response with per-field errors on failure.
func (h *Handler) check(c *fiber.Ctx, v interface{}) (bool, error) {
	err := h.validate.Struct(v)
	if err == nil {
		return true, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body."})
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed.", "fields": fields})
}

// paramID parses the named uuid route parameter.
func paramID(c *fiber.Ctx, name, what string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + what + " ID."})
	}
	return id, true, nil
}

// currentUser returns the user ID placed in Locals by AuthRequired.
func (h *Handler) currentUser(c *fiber.Ctx) (uuid.UUID, bool, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not logged in."})
	}
	return userID, true, nil
}

// fail maps store errors onto status codes; anything unexpected is logged
// and reported as a 500 with the given message.
func (h *Handler) fail(c *fiber.Ctx, err error, notFound, internal string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound})
	case errors.Is(err, store.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Already exists."})
	case errors.Is(err, store.ErrInvalidRole):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role."})
	}
	h.Log.Error(internal, "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internal})
}
