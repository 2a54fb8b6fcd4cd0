package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"musix/config"
	"musix/logging"
	"musix/models"
	"musix/player"
	"musix/server"
	"musix/store"
	"musix/store/postgres"
	"musix/store/sqlite"
)

func serveCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			logger.SetLevel(logging.ParseLevel(cfg.Log.Level))

			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			storage := server.NewStorage(cfg)
			if storage != nil {
				defer storage.Close()
			}

			app := server.New(server.Deps{
				Config:   cfg,
				Store:    db,
				Sessions: server.NewSessionStore(cfg, storage),
				Storage:  storage,
				Player:   player.NewManager(),
				Logger:   logger,
			})

			errc := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", cfg.Addr(), "driver", cfg.Database.Driver, "redis", cfg.HasRedis())
				errc <- app.Listen(cfg.Addr())
			}()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)

			select {
			case err := <-errc:
				return err
			case s := <-sig:
				logger.Info("shutting down", "signal", s.String())
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(shutdownCtx)
		},
	}
}

func migrateCommand(logger *log.Logger) *cli.Command {
	withStore := func(fn func(db store.Migrator) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return fn(db)
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withStore(func(db store.Migrator) error {
					if err := db.Migrate(); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the latest migration",
				Action: withStore(func(db store.Migrator) error {
					if err := db.MigrateDown(); err != nil {
						return err
					}
					logger.Info("migration rolled back")
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "Print the current schema version",
				Action: withStore(func(db store.Migrator) error {
					version, err := db.MigrationVersion()
					if err != nil {
						return err
					}
					fmt.Println(version)
					return nil
				}),
			},
		},
	}
}

func initCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write an example configuration file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("config")
			if err := config.WriteExample(path); err != nil {
				return err
			}
			logger.Info("config file created", "path", path)
			return nil
		},
	}
}

func createAdminCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "Create a user with the admin role",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "Login email", Required: true},
			&cli.StringFlag{Name: "name", Usage: "Display name", Value: "Administrator"},
			&cli.StringFlag{Name: "password", Usage: "Password (at least 6 characters)", Required: true, Sources: cli.EnvVars("MUSIX_ADMIN_PASSWORD")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			password := cmd.String("password")
			if len(password) < 6 || len(password) > 72 {
				return fmt.Errorf("password must be between 6 and 72 characters")
			}

			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}
			db, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Migrate(); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user, err := db.CreateUser(ctx, models.User{
				Name:     cmd.String("name"),
				Email:    strings.ToLower(strings.TrimSpace(cmd.String("email"))),
				Password: string(hashed),
				Role:     models.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			logger.Info("admin created", "user", user.ID, "email", user.Email)
			return nil
		},
	}
}

// openStore connects to the configured database backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Migrator, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	case config.DriverSQLite:
		return sqlite.Open(cfg.Database.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
