package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/session"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	httpClient := &http.Client{}
	if config.API.RequestTimeout > 0 {
		httpClient.Timeout = time.Duration(config.API.RequestTimeout) * time.Second
	}

	base := api.New(config.API.BaseURL, httpClient)
	store := session.NewFileStore(config.TokenPath())
	sess := session.New(base, store, logger)

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Session: sess,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "lgz",
		Usage:    "Generate scripts and produce short-form videos from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
