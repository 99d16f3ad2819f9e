package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/poller"
	"github.com/legyenez/lgz/internal/session"
	"github.com/legyenez/lgz/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	session *session.Session
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Session *session.Session
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Session == nil {
		base := api.New(opts.Config.API.BaseURL, nil)
		store := session.NewFileStore(opts.Config.TokenPath())
		opts.Session = session.New(base, store, opts.Logger)
	}

	return &Runner{
		config:  opts.Config,
		session: opts.Session,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. to redirect logs to a file while
// the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, scriptsCommand, hooksCommand, videosCommand, metricsCommand, youtubeCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAuth restores the persisted session and returns an authenticated
// client. The restore is fail-closed: any doubt about the token leaves the
// session anonymous and the command refuses to run.
func (r *Runner) requireAuth(ctx context.Context) (*api.Client, error) {
	r.session.Restore(ctx)
	if r.session.Gate() != session.GateAllow {
		return nil, fmt.Errorf("%w: run 'lgz auth login' first", shared.ErrNotAuthenticated)
	}
	return r.session.Client(), nil
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

func (r *Runner) newWatcher(client poller.VideoAPI) *poller.Watcher {
	return poller.NewWatcher(client, poller.Opts{
		Interval:      time.Duration(r.config.Poll.IntervalSeconds) * time.Second,
		SubmitTimeout: time.Duration(r.config.Poll.SubmitTimeoutSeconds) * time.Second,
		Logger:        r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
