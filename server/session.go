package server

import (
	"encoding/gob"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis/v3"
	"github.com/google/uuid"

	"musix/config"
)

func init() {
	// Sessions are gob encoded; the logged-in user's ID is a uuid.UUID.
	gob.Register(uuid.UUID{})
}

// NewStorage returns the Redis storage configured in cfg, or nil when
// sessions, rate limits and cached responses should stay in memory.
func NewStorage(cfg *config.Config) fiber.Storage {
	if !cfg.HasRedis() {
		return nil
	}
	return redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		Database: cfg.Redis.Database,
	})
}

// NewSessionStore creates the cookie session store on top of storage. A nil
// storage uses fiber's in-memory default.
func NewSessionStore(cfg *config.Config, storage fiber.Storage) *session.Store {
	return session.New(session.Config{
		Storage:        storage,
		Expiration:     cfg.Session.Expiration,
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}
