package main

import (
	"context"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/repositories"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// HooksList lists the hook library with optional filtering and sorting.
func (r *Runner) HooksList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	hookType := cmd.String("type")
	mode := cmd.String("mode")

	var hooks []api.Hook
	if cmd.Bool("cached") {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		hooks, err = repositories.NewHookRepository(db).List(hookType, mode, limit)
		if err != nil {
			return fmt.Errorf("failed to list cached hooks: %w", err)
		}
	} else {
		client, err := r.requireAuth(ctx)
		if err != nil {
			return err
		}
		hooks, err = client.ListHooks(ctx, api.HookFilter{
			HookType: hookType,
			Mode:     mode,
			SortBy:   cmd.String("sort"),
			Limit:    limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list hooks: %w", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(hooks, cmd.Bool("pretty"))
	}

	if len(hooks) == 0 {
		r.writePlainln("No hooks found.")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Hooks (%d)", len(hooks)))
	for _, h := range hooks {
		r.writePlain("%5.1f%%  %-18s %s\n", h.AvgRetention, h.HookType, h.HookText)
	}
	return nil
}

// HooksAdd records a manual hook in the library.
func (r *Runner) HooksAdd(ctx context.Context, cmd *cli.Command) error {
	text := cmd.String("text")
	if text == "" {
		return fmt.Errorf("%w: text", shared.ErrMissingArgument)
	}

	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	hook, err := client.CreateHook(ctx, api.CreateHookRequest{
		HookText:     text,
		Mode:         cmd.String("mode"),
		HookType:     cmd.String("type"),
		Tags:         cmd.StringSlice("tags"),
		AvgRetention: cmd.Float("retention"),
	})
	if err != nil {
		return fmt.Errorf("failed to add hook: %w", err)
	}

	r.writePlainln("✓ Hook added: %s", hook.ID)
	return nil
}

// hooksCommand handles the hook-phrase library
func hooksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "hooks",
		Usage: "Browse and grow the hook-phrase library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List hooks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Hook type filter (emotional_trigger, urgency, ...)",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Content mode filter (STATE_BASED or FAITH_EXPLICIT)",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field: created_at, avg_retention, or usage_count",
						Value: "avg_retention",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of hooks",
						Value:   50,
					},
					&cli.BoolFlag{Name: "cached", Usage: "Read from the local cache instead of the backend"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.HooksList,
			},
			{
				Name:  "add",
				Usage: "Add a hook to the library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "text",
						Usage:    "Hook text",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Content mode",
						Value: "STATE_BASED",
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Hook type",
						Value:   "emotional_trigger",
					},
					&cli.StringSliceFlag{
						Name:  "tags",
						Usage: "Tags (repeatable)",
					},
					&cli.FloatFlag{
						Name:  "retention",
						Usage: "Known average retention percent",
					},
				},
				Action: r.HooksAdd,
			},
		},
	}
}
