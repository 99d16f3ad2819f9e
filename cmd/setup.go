package main

import (
	"context"
	"fmt"
	"os"

	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if missing, then initializes the local cache
// database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}
	r.config = config

	r.logger.Info("initializing cache database", "path", config.Database.Path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.writePlainln("✓ Setup complete")
	r.writePlainln("  Config:   %s", configPath)
	r.writePlainln("  Database: %s", config.Database.Path)
	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the local cache database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
