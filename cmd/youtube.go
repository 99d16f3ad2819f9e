package main

import (
	"context"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// youtubeUser resolves the authenticated user for channel operations.
func (r *Runner) youtubeUser(ctx context.Context) (*api.Client, *api.User, error) {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return nil, nil, err
	}
	user := r.session.User()
	if user == nil {
		return nil, nil, fmt.Errorf("failed to resolve account for channel operations")
	}
	return client, user, nil
}

// YouTubeConnect opens the backend's OAuth consent URL in the system browser.
func (r *Runner) YouTubeConnect(ctx context.Context, cmd *cli.Command) error {
	client, user, err := r.youtubeUser(ctx)
	if err != nil {
		return err
	}

	authURL, err := client.YouTubeAuthURL(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to get authorization URL: %w", err)
	}

	r.writePlainln("Opening browser for YouTube authorization...")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
		r.writePlainln("Open this URL to authorize: %s", authURL)
		return nil
	}

	r.writePlainln("Complete the consent flow in the browser, then run 'lgz youtube status'.")
	return nil
}

// YouTubeStatus shows the backend-held channel connection.
func (r *Runner) YouTubeStatus(ctx context.Context, cmd *cli.Command) error {
	client, user, err := r.youtubeUser(ctx)
	if err != nil {
		return err
	}

	status, err := client.YouTubeStatus(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch channel status: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}

	if !status.Connected {
		r.writePlainln("No channel connected. Run 'lgz youtube connect'.")
		return nil
	}

	r.writePlainln("✓ Connected to %s", status.ChannelName)
	r.writePlain("  Channel ID: %s\n", status.ChannelID)
	if status.ConnectedAt != "" {
		r.writePlain("  Since: %s\n", status.ConnectedAt)
	}
	return nil
}

// YouTubeSync asks the backend to refresh channel analytics.
func (r *Runner) YouTubeSync(ctx context.Context, cmd *cli.Command) error {
	client, user, err := r.youtubeUser(ctx)
	if err != nil {
		return err
	}

	if err := client.YouTubeSync(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to sync channel analytics: %w", err)
	}

	r.writePlainln("✓ Channel analytics sync started")
	return nil
}

// YouTubeDisconnect removes the backend-held channel connection.
func (r *Runner) YouTubeDisconnect(ctx context.Context, cmd *cli.Command) error {
	client, user, err := r.youtubeUser(ctx)
	if err != nil {
		return err
	}

	if err := client.YouTubeDisconnect(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to disconnect channel: %w", err)
	}

	r.writePlainln("✓ Channel disconnected")
	return nil
}

// youtubeCommand handles the backend-held channel connection
func youtubeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "youtube",
		Aliases: []string{"yt"},
		Usage:   "Manage the connected YouTube channel",
		Commands: []*cli.Command{
			{
				Name:   "connect",
				Usage:  "Authorize a channel via the system browser",
				Action: r.YouTubeConnect,
			},
			{
				Name:  "status",
				Usage: "Show the channel connection",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.YouTubeStatus,
			},
			{
				Name:   "sync",
				Usage:  "Refresh channel analytics",
				Action: r.YouTubeSync,
			},
			{
				Name:   "disconnect",
				Usage:  "Remove the channel connection",
				Action: r.YouTubeDisconnect,
			},
		},
	}
}
