package middleware

import (
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// SessionUserKey is the session and Locals key holding the logged-in user's ID.
const SessionUserKey = "userID"

// AuthRequired only lets requests with a logged-in session through. The
// user's ID is made available to handlers via c.Locals(SessionUserKey).
func AuthRequired(store *session.Store, logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			logger.Error("session lookup failed", "err", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session not found or invalid."})
		}

		userID, ok := sess.Get(SessionUserKey).(uuid.UUID)
		if !ok || userID == uuid.Nil {
			_ = sess.Destroy()
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please log in."})
		}

		c.Locals(SessionUserKey, userID)
		return c.Next()
	}
}

// UserID returns the user ID stored by AuthRequired.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(SessionUserKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
