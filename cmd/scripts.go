package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/formatter"
	"github.com/legyenez/lgz/internal/repositories"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// ScriptsList lists scripts from the backend, or from the local cache with --cached.
func (r *Runner) ScriptsList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")

	var scripts []api.Script
	if cmd.Bool("cached") {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		scripts, err = repositories.NewScriptRepository(db).List(cmd.String("topic"), limit)
		if err != nil {
			return fmt.Errorf("failed to list cached scripts: %w", err)
		}
	} else {
		client, err := r.requireAuth(ctx)
		if err != nil {
			return err
		}
		scripts, err = client.ListScripts(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list scripts: %w", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(scripts, cmd.Bool("pretty"))
	}

	if len(scripts) == 0 {
		r.writePlainln("No scripts found.")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Scripts (%d)", len(scripts)))
	for _, s := range scripts {
		r.writePlain("%s  %-30s %s (%d chars)\n", s.ID, s.Topic, s.Mode, s.CharacterCount)
	}
	return nil
}

// ScriptsGenerate requests a new script from the backend and prints it.
func (r *Runner) ScriptsGenerate(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	topic := cmd.String("topic")
	mode := cmd.String("mode")
	keywords := cmd.StringSlice("keywords")

	var script *api.Script
	if cmd.Bool("optimized") {
		script, err = client.GenerateOptimizedScript(ctx, api.OptimizedScriptRequest{
			Topic:        topic,
			Mode:         mode,
			Keywords:     keywords,
			UseAnalytics: true,
			TopNExamples: cmd.Int("top-n"),
		})
	} else {
		script, err = client.GenerateScript(ctx, api.GenerateScriptRequest{
			Topic:    topic,
			Mode:     mode,
			Keywords: keywords,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to generate script: %w", err)
	}

	r.logger.Info("script generated", "id", script.ID, "chars", script.CharacterCount)

	if cmd.Bool("json") {
		return r.writeJSON(script, cmd.Bool("pretty"))
	}

	r.writePlain("%s", formatter.ScriptToText(script))

	if outputPath := cmd.String("output"); outputPath != "" {
		path, err := formatter.WriteScriptExport(script, cmd.String("format"), outputPath)
		if err != nil {
			return fmt.Errorf("failed to export script: %w", err)
		}
		r.writePlainln("✓ Script exported to %s", path)
	}
	return nil
}

// ScriptsUpdate replaces a script's text with edited content.
func (r *Runner) ScriptsUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: script ID", shared.ErrMissingArgument)
	}

	text := cmd.String("text")
	file := cmd.String("file")
	if text == "" && file == "" {
		return fmt.Errorf("%w: either --text or --file must be provided", shared.ErrMissingArgument)
	}
	if text != "" && file != "" {
		return fmt.Errorf("%w: cannot specify both --text and --file", shared.ErrInvalidArgument)
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read script file: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: script text is empty", shared.ErrInvalidArgument)
	}

	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	script, err := client.UpdateScript(ctx, id, text)
	if err != nil {
		return fmt.Errorf("failed to update script: %w", err)
	}

	r.writePlainln("✓ Script updated: %s (%d chars)", script.ID, script.CharacterCount)
	return nil
}

// scriptsCommand handles script generation and editing
func scriptsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scripts",
		Usage: "Generate and manage video scripts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List scripts, most recent first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of scripts",
						Value:   20,
					},
					&cli.BoolFlag{Name: "cached", Usage: "Read from the local cache instead of the backend"},
					&cli.StringFlag{Name: "topic", Usage: "Topic substring filter (cached only)"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.ScriptsList,
			},
			{
				Name:  "generate",
				Usage: "Generate a new script",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "topic",
						Aliases: []string{"t"},
						Usage:   "Topic to write about",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Content mode (STATE_BASED or FAITH_EXPLICIT)",
						Value: "STATE_BASED",
					},
					&cli.StringSliceFlag{
						Name:    "keywords",
						Aliases: []string{"k"},
						Usage:   "Keywords to weave in (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "optimized",
						Usage: "Use analytics-driven generation seeded with top performing hooks",
					},
					&cli.IntFlag{
						Name:  "top-n",
						Usage: "Number of top examples for optimized generation",
						Value: 5,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Export the script to a file",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: markdown, txt, or json",
						Value:   "markdown",
					},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.ScriptsGenerate,
			},
			{
				Name:      "update",
				Usage:     "Replace a script's text",
				ArgsUsage: "<script-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "New script text"},
					&cli.StringFlag{Name: "file", Usage: "File containing the new script text"},
				},
				Action: r.ScriptsUpdate,
			},
		},
	}
}
