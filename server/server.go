// Package server assembles the fiber application: middleware, routes and
// error handling.
package server

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	jsoniter "github.com/json-iterator/go"

	"musix/config"
	"musix/handlers"
	"musix/middleware"
	"musix/player"
	"musix/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Deps are the collaborators the application is built from.
type Deps struct {
	Config   *config.Config
	Store    store.Store
	Sessions *session.Store
	// Storage backs the login limiter and the stats cache. Nil keeps them
	// in memory.
	Storage fiber.Storage
	Player  *player.Manager
	Logger  *log.Logger
}

// New builds the fiber application with every route registered.
func New(d Deps) *fiber.App {
	cfg := d.Config
	if d.Player == nil {
		d.Player = player.NewManager()
	}

	app := fiber.New(fiber.Config{
		AppName:               "musix",
		DisableStartupMessage: true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          errorHandler(d.Logger),
	})

	app.Use(middleware.RequestLogger(d.Logger))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	if len(cfg.Server.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ","),
			AllowCredentials: true,
		}))
	}

	h := handlers.New(d.Store, d.Sessions, d.Player, d.Logger, cfg.Library.PageSize)
	auth := middleware.AuthRequired(d.Sessions, d.Logger)
	admin := middleware.AdminRequired(d.Store, d.Logger)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := d.Store.Ping(c.UserContext()); err != nil {
			d.Logger.Error("health check failed", "err", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Authentication
	api.Post("/register", h.RegisterUser)
	api.Post("/login", loginLimiter(cfg, d.Storage), h.LoginUser)
	api.Post("/logout", h.LogoutUser)

	userAPI := api.Group("/user", auth)
	userAPI.Get("/", h.GetUser)
	userAPI.Get("/role", h.GetUserRole)

	// Songs; writes need the admin role.
	songAPI := api.Group("/songs", auth)
	songAPI.Get("/", middleware.ValidatePageQuery, h.GetSongs)
	songAPI.Get("/favorites", h.GetFavoriteSongs)
	songAPI.Get("/:songID", h.GetSongByID)
	songAPI.Put("/:songID/favorite", h.ToggleFavorite)
	songAPI.Patch("/:songID/favorite", h.ToggleFavorite)
	songAPI.Post("/", admin, h.AdminCreateSong)
	songAPI.Put("/:songID", admin, h.AdminUpdateSong)
	songAPI.Delete("/:songID", admin, h.AdminDeleteSong)

	api.Get("/stats", auth, statsCache(cfg, d.Storage), h.GetStats)

	playlistAPI := api.Group("/playlists", auth)
	playlistAPI.Get("/", h.GetUserPlaylists)
	playlistAPI.Post("/", h.CreatePlaylist)
	playlistAPI.Get("/:playlistID", h.GetPlaylistByID)
	playlistAPI.Delete("/:playlistID", h.DeletePlaylist)
	playlistAPI.Post("/:playlistID/add-song", h.AddSongToPlaylist)
	playlistAPI.Post("/:playlistID/remove-song", h.RemoveSongFromPlaylist)

	playerAPI := api.Group("/player", auth)
	playerAPI.Get("/", h.GetPlayer)
	playerAPI.Post("/queue", h.LoadQueue)
	playerAPI.Post("/play", h.Play)
	playerAPI.Post("/pause", h.Pause)
	playerAPI.Post("/toggle", h.TogglePlay)
	playerAPI.Post("/next", h.Next)
	playerAPI.Post("/prev", h.Prev)
	playerAPI.Post("/ended", h.Ended)
	playerAPI.Post("/seek", h.Seek)

	adminAPI := api.Group("/admin", auth, admin)
	adminAPI.Get("/users", h.GetAllUsers)
	adminAPI.Get("/users/:userID", h.GetUserByID)
	adminAPI.Get("/users/:userID/playlists", h.GetUserPlaylistsByUserID)
	adminAPI.Put("/users/:userID/role", h.UpdateUserRole)
	adminAPI.Delete("/users/:userID", h.DeleteUserByID)

	if cfg.Server.StaticDir != "" {
		app.Static("/", cfg.Server.StaticDir)
	}

	return app
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	if cfg.Library.LoginRateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        cfg.Library.LoginRateLimit,
		Expiration: time.Minute,
		Storage:    storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many login attempts, try again later."})
		},
	})
}

// statsCache caches GET /api/stats responses for cache.stats_ttl.
func statsCache(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	if cfg.Cache.StatsTTL <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return cache.New(cache.Config{
		Expiration:   cfg.Cache.StatsTTL,
		Storage:      storage,
		CacheHeader:  "X-Cache",
		KeyGenerator: func(c *fiber.Ctx) string { return "musix:stats" },
	})
}

func errorHandler(logger *log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		logger.Error("unhandled error", "path", c.Path(), "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error."})
	}
}
