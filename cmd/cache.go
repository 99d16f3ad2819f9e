package main

import (
	"context"
	"fmt"

	"github.com/legyenez/lgz/internal/repositories"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/legyenez/lgz/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheSync replaces the local script, hook, and video caches with fresh
// backend listings.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	engine := tasks.NewEngine(client)

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := engine.SyncCache(ctx, prog, tasks.CacheStores{
		Scripts: repositories.NewScriptRepository(db),
		Hooks:   repositories.NewHookRepository(db),
		Videos:  repositories.NewVideoRepository(db),
	})
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("cache sync failed: %w", err)
	}

	r.writePlainln("✓ Cache synced")
	r.writePlain("  Scripts: %d\n", result.Scripts)
	r.writePlain("  Hooks:   %d\n", result.Hooks)
	r.writePlain("  Videos:  %d\n", result.Videos)
	return nil
}

// CacheClear empties the local caches without touching backend state.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repositories.NewScriptRepository(db).Clear(); err != nil {
		return fmt.Errorf("failed to clear script cache: %w", err)
	}
	if err := repositories.NewHookRepository(db).Clear(); err != nil {
		return fmt.Errorf("failed to clear hook cache: %w", err)
	}
	if err := repositories.NewVideoRepository(db).Clear(); err != nil {
		return fmt.Errorf("failed to clear video cache: %w", err)
	}

	r.writePlainln("✓ Cache cleared")
	return nil
}

// cacheCommand handles the local offline cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Sync and clear the local offline cache",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Replace the local caches with fresh backend listings",
				Action: r.CacheSync,
			},
			{
				Name:   "clear",
				Usage:  "Empty the local caches",
				Action: r.CacheClear,
			},
		},
	}
}
