// Package poller reconciles the client's view of render jobs with the backend.
//
// A [Watcher] refreshes the job list wholesale on a fixed interval for as long
// as its context lives; cancellation is the teardown. Submissions are
// serialized per watcher and classified into a three-way [SubmitStatus]: a
// client-side acknowledgement timeout is deliberately not a failure, since the
// job may well be queued server-side.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

const (
	defaultInterval      = 5 * time.Second
	defaultSubmitTimeout = 10 * time.Second
	defaultPageSize      = 20
)

// VideoAPI is the slice of the API client the watcher needs.
type VideoAPI interface {
	ListVideos(ctx context.Context, limit int) ([]api.Video, error)
	GenerateVideo(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error)
}

// Opts configures a Watcher. Zero values fall back to defaults.
type Opts struct {
	Interval      time.Duration // job list refresh cadence
	SubmitTimeout time.Duration // acknowledgement timeout for submissions
	PageSize      int           // listing page bound
	Logger        *log.Logger
}

// Watcher polls the backend's job listing and holds the latest snapshot.
type Watcher struct {
	client        VideoAPI
	interval      time.Duration
	submitTimeout time.Duration
	pageSize      int
	logger        *log.Logger

	mu         sync.Mutex
	jobs       []api.Video
	submitting bool

	pokeCh  chan struct{}
	updates chan []api.Video
}

// NewWatcher creates a Watcher over the given client.
func NewWatcher(client VideoAPI, opts Opts) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Watcher{
		client:        client,
		interval:      opts.Interval,
		submitTimeout: opts.SubmitTimeout,
		pageSize:      opts.PageSize,
		logger:        opts.Logger,
		pokeCh:        make(chan struct{}, 1),
		updates:       make(chan []api.Video, 1),
	}
}

// Run refreshes immediately, then on every tick or poke until ctx is
// cancelled. Cancellation stops the ticker; no refresh fires after Run returns.
func (w *Watcher) Run(ctx context.Context) {
	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx)
		case <-w.pokeCh:
			w.refresh(ctx)
		}
	}
}

// Refresh performs a single wholesale reconciliation of the job list.
// Listing errors are logged and swallowed; the next tick retries naturally.
func (w *Watcher) Refresh(ctx context.Context) {
	w.refresh(ctx)
}

// Poke requests an out-of-band refresh from a running watcher. Non-blocking;
// coalesces with an already-pending poke.
func (w *Watcher) Poke() {
	select {
	case w.pokeCh <- struct{}{}:
	default:
	}
}

// Jobs returns a copy of the latest snapshot, most recent first.
func (w *Watcher) Jobs() []api.Video {
	w.mu.Lock()
	defer w.mu.Unlock()

	jobs := make([]api.Video, len(w.jobs))
	copy(jobs, w.jobs)
	return jobs
}

// Job looks up a job in the latest snapshot by id.
func (w *Watcher) Job(id string) (api.Video, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, job := range w.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return api.Video{}, false
}

// Updates exposes snapshot notifications. Sends are non-blocking; a slow
// consumer sees the most recent snapshot it managed to receive.
func (w *Watcher) Updates() <-chan []api.Video {
	return w.updates
}

// Submitting reports whether a submission is currently in flight.
func (w *Watcher) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Watcher) refresh(ctx context.Context) {
	videos, err := w.client.ListVideos(ctx, w.pageSize)
	if err != nil {
		// Transient staleness is acceptable; never disrupt the view.
		w.logger.Warn("failed to refresh job list", "error", err)
		return
	}

	w.mu.Lock()
	w.jobs = videos
	w.mu.Unlock()

	snapshot := make([]api.Video, len(videos))
	copy(snapshot, videos)

	select {
	case w.updates <- snapshot:
	default:
	}
}
