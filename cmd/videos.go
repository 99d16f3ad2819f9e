package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/formatter"
	"github.com/legyenez/lgz/internal/poller"
	"github.com/legyenez/lgz/internal/repositories"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/legyenez/lgz/internal/tasks"
	"github.com/urfave/cli/v3"
)

// VideosList lists render jobs, most recent first.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	status := api.VideoStatus(cmd.String("status"))

	var videos []api.Video
	if cmd.Bool("cached") {
		db, err := r.openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		videos, err = repositories.NewVideoRepository(db).List(status, limit)
		if err != nil {
			return fmt.Errorf("failed to list cached videos: %w", err)
		}
	} else {
		client, err := r.requireAuth(ctx)
		if err != nil {
			return err
		}
		videos, err = client.ListVideos(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}
		if status != "" {
			filtered := videos[:0]
			for _, v := range videos {
				if v.Status == status {
					filtered = append(filtered, v)
				}
			}
			videos = filtered
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(videos, cmd.Bool("pretty"))
	}

	r.writePlain("%s", formatter.VideosToText(videos))
	return nil
}

// VideosStatus shows a single render job.
func (r *Runner) VideosStatus(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: video ID", shared.ErrMissingArgument)
	}

	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	video, err := client.GetVideo(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch video: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(video, cmd.Bool("pretty"))
	}

	r.writePlainln("%s  %s", video.ID, video.Status)
	r.writePlain("  Script: %s\n", video.ScriptID)
	if video.Duration > 0 {
		r.writePlain("  Duration: %s\n", shared.FormatDuration(video.Duration))
	}
	if video.VideoURL != "" {
		r.writePlain("  Video: %s\n", video.VideoURL)
	}
	if video.Error != "" {
		r.writePlain("  Error: %s\n", video.Error)
	}
	return nil
}

// VideosGenerate submits a render job and reports the three-way outcome.
//
// A timeout waiting for the acknowledgement is reported as ambiguous, not as
// a failure, because the backend may have queued the job anyway.
func (r *Runner) VideosGenerate(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	req := api.GenerateVideoRequest{
		ScriptID:        cmd.String("script"),
		VoiceID:         cmd.String("voice"),
		BackgroundMusic: cmd.String("music"),
		BRollSearch:     cmd.String("broll"),
	}

	if req.VoiceID == "" {
		if prefs, err := client.GetVoicePreferences(ctx); err == nil && prefs != nil && prefs.VoiceID != "" {
			req.VoiceID = prefs.VoiceID
			req.VoiceSettings = &prefs.VoiceSettings
		} else {
			req.VoiceID = api.DefaultVoiceID
			settings := api.DefaultVoiceSettings()
			req.VoiceSettings = &settings
		}
	}

	watcher := r.newWatcher(client)
	result, err := watcher.Submit(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to submit video: %w", err)
	}

	switch result.Status {
	case poller.Accepted:
		r.writePlainln("✓ %s", result.Message)
		r.writePlain("  Video ID: %s\n", result.VideoID)
		return nil
	case poller.AmbiguousTimeout:
		r.logger.Warn("no acknowledgement before the timeout", "script", req.ScriptID)
		r.writePlainln("⚠ %s", result.Message)
		return nil
	default:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, result.Message)
	}
}

// VideosWatch polls the job list and prints each fresh snapshot until interrupted.
func (r *Runner) VideosWatch(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher := r.newWatcher(client)
	go watcher.Run(watchCtx)

	r.writePlainln("Watching render jobs (Ctrl+C to stop)...")
	for {
		select {
		case <-watchCtx.Done():
			r.writePlainln("Stopped watching.")
			return nil
		case jobs := <-watcher.Updates():
			r.writePlain("%s\n", formatter.VideosToText(jobs))
		}
	}
}

// VideosDownload saves a completed render to a local file.
func (r *Runner) VideosDownload(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("%w: video ID", shared.ErrMissingArgument)
	}

	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	video, err := client.GetVideo(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch video: %w", err)
	}
	if video.Status != api.StatusCompleted {
		return fmt.Errorf("%w: status is %s", shared.ErrVideoNotReady, video.Status)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = id + ".mp4"
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	written, err := client.DownloadVideo(ctx, id, f)
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to download video: %w", err)
	}

	r.writePlainln("✓ Downloaded %s (%d bytes)", outputPath, written)
	return nil
}

// VideosExport bulk-downloads completed renders with a worker pool.
func (r *Runner) VideosExport(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	engine := tasks.NewEngine(client)

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			if update.Total > 0 {
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			} else {
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	result, err := engine.BulkDownload(ctx, prog, cmd.StringSlice("ids"), tasks.BulkDownloadOpts{
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-done
	if err != nil {
		return fmt.Errorf("bulk download failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Downloaded: %d\n", result.Downloaded)
	r.writePlain("Skipped:    %d\n", result.Skipped)
	r.writePlain("Failed:     %d\n", result.Failed)
	r.writePlain("Output:     %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest:   %s\n", result.ManifestPath)
	}
	return nil
}

// videosCommand handles render jobs
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "videos",
		Usage: "Submit, watch, and download render jobs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List render jobs, most recent first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of jobs",
						Value:   20,
					},
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Status filter: queued, processing, completed, or failed",
					},
					&cli.BoolFlag{Name: "cached", Usage: "Read from the local cache instead of the backend"},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.VideosList,
			},
			{
				Name:      "status",
				Usage:     "Show a single render job",
				ArgsUsage: "<video-id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.VideosStatus,
			},
			{
				Name:  "generate",
				Usage: "Submit a script for rendering",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "script",
						Aliases:  []string{"s"},
						Usage:    "Script ID to render",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "voice",
						Usage: "TTS voice ID (defaults to saved preferences)",
					},
					&cli.StringFlag{
						Name:  "music",
						Usage: "Background music track",
					},
					&cli.StringFlag{
						Name:  "broll",
						Usage: "B-roll search phrase",
					},
				},
				Action: r.VideosGenerate,
			},
			{
				Name:   "watch",
				Usage:  "Poll the job list and print updates until interrupted",
				Action: r.VideosWatch,
			},
			{
				Name:      "download",
				Usage:     "Download a completed render",
				ArgsUsage: "<video-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: <video-id>.mp4)",
					},
				},
				Action: r.VideosDownload,
			},
			{
				Name:  "export",
				Usage: "Bulk-download completed renders",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "ids",
						Usage: "Specific video IDs (default: all completed)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent download workers",
						Value: 3,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Download requests per second",
						Value: 2,
					},
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.VideosExport,
			},
		},
	}
}
