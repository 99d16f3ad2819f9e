// package tasks implements long-running client operations against the
// backend: bulk downloads of finished renders and offline cache syncs.
//
// The core abstraction is Engine, which orchestrates the work behind the
// videos download and cache sync commands. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"io"

	"github.com/legyenez/lgz/internal/api"
)

// BackendAPI is the slice of the REST client the engine needs.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type BackendAPI interface {
	ListVideos(ctx context.Context, limit int) ([]api.Video, error)
	GetVideo(ctx context.Context, id string) (*api.Video, error)
	DownloadVideo(ctx context.Context, id string, w io.Writer) (int64, error)
	ListScripts(ctx context.Context, limit int) ([]api.Script, error)
	ListHooks(ctx context.Context, filter api.HookFilter) ([]api.Hook, error)
}

// Engine orchestrates bulk downloads and cache syncs.
type Engine struct {
	api BackendAPI
}

// NewEngine creates a new Engine backed by the given API client.
func NewEngine(client BackendAPI) *Engine {
	return &Engine{api: client}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
