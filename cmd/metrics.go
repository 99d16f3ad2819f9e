package main

import (
	"context"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/formatter"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// MetricsList lists recorded performance metrics, or the aggregate overview
// with --overview.
func (r *Runner) MetricsList(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("overview") {
		overview, err := client.AnalyticsOverview(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch analytics overview: %w", err)
		}

		if cmd.Bool("json") {
			return r.writeJSON(overview, cmd.Bool("pretty"))
		}

		r.writePlainHeader("Analytics overview")
		r.writePlain("Scripts:   %d\n", overview.TotalScripts)
		r.writePlain("Hooks:     %d\n", overview.TotalHooks)
		r.writePlain("Videos:    %d\n", overview.TotalVideos)
		r.writePlain("Views:     %d\n", overview.TotalViews)
		r.writePlain("Retention: %.1f%%\n", overview.AvgRetention)
		if overview.BestHookText != "" {
			r.writePlain("Best hook: %q (%d views)\n", overview.BestHookText, overview.BestHookViews)
		}
		return nil
	}

	metrics, err := client.ListMetrics(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list metrics: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(metrics, cmd.Bool("pretty"))
	}

	if len(metrics) == 0 {
		r.writePlainln("No metrics recorded yet.")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Metrics (%d)", len(metrics)))
	for _, m := range metrics {
		r.writePlain("%s  views=%d likes=%d retention=%.1f%% swipe=%.1f%%\n",
			m.ScriptID, m.Views, m.Likes, m.RetentionPercent, m.SwipeRate)
	}
	return nil
}

// MetricsAdd records a manual performance measurement for a published video.
func (r *Runner) MetricsAdd(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	metric, err := client.CreateMetric(ctx, api.Metric{
		ScriptID:         cmd.String("script"),
		HookUsed:         cmd.String("hook"),
		Views:            cmd.Int("views"),
		Likes:            cmd.Int("likes"),
		Comments:         cmd.Int("comments"),
		Subs:             cmd.Int("subs"),
		RetentionPercent: cmd.Float("retention"),
		SwipeRate:        cmd.Float("swipe"),
	})
	if err != nil {
		return fmt.Errorf("failed to record metric: %w", err)
	}

	r.writePlainln("✓ Metric recorded: %s", metric.ID)
	return nil
}

// MetricsExport writes the metrics listing to a CSV, markdown, or JSON file.
func (r *Runner) MetricsExport(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	metrics, err := client.ListMetrics(ctx, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list metrics: %w", err)
	}
	if len(metrics) == 0 {
		return fmt.Errorf("%w: no metrics to export", shared.ErrInvalidArgument)
	}

	format := cmd.String("format")
	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = "metrics_export." + format
	}

	result, err := formatter.WriteMetricsExport(metrics, format, outputPath)
	if err != nil {
		return fmt.Errorf("failed to export metrics: %w", err)
	}

	r.writePlainln("✓ Exported %d metrics to %s", len(metrics), result.File)
	return nil
}

// metricsCommand handles manual performance tracking
func metricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Record and export content performance",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded metrics",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of metrics",
						Value:   50,
					},
					&cli.BoolFlag{Name: "overview", Usage: "Show the aggregate analytics overview instead"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.MetricsList,
			},
			{
				Name:  "add",
				Usage: "Record a metric for a published video",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "script",
						Aliases:  []string{"s"},
						Usage:    "Script ID the video came from",
						Required: true,
					},
					&cli.StringFlag{Name: "hook", Usage: "Hook text used in the video"},
					&cli.IntFlag{Name: "views", Usage: "View count"},
					&cli.IntFlag{Name: "likes", Usage: "Like count"},
					&cli.IntFlag{Name: "comments", Usage: "Comment count"},
					&cli.IntFlag{Name: "subs", Usage: "Subscribers gained"},
					&cli.FloatFlag{Name: "retention", Usage: "Retention percent"},
					&cli.FloatFlag{Name: "swipe", Usage: "Swipe rate percent"},
				},
				Action: r.MetricsAdd,
			},
			{
				Name:  "export",
				Usage: "Export metrics to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, or json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of metrics",
						Value:   500,
					},
				},
				Action: r.MetricsExport,
			},
		},
	}
}
