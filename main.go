package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"musix/logging"
)

func main() {
	logger := logging.New(os.Stderr, os.Getenv("MUSIX_LOG_LEVEL"))

	app := &cli.Command{
		Name:  "musix",
		Usage: "Music library and player backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("MUSIX_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(logger),
			migrateCommand(logger),
			initCommand(logger),
			createAdminCommand(logger),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}
