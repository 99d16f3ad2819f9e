package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/legyenez/lgz/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive video factory.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	client, err := r.requireAuth(ctx)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lgz-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	tuiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := r.newWatcher(client)
	go watcher.Run(tuiCtx)

	model := ui.NewModel(tuiCtx, client, watcher)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive video factory: pick a script, render it, watch the job list",
		Action: r.TUI,
	}
}
