package tasks

import (
	"context"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

// Listing page bounds for a full cache sync.
const (
	syncScriptLimit = 200
	syncHookLimit   = 500
	syncVideoLimit  = 200
)

// ScriptCache stores a backend script listing wholesale.
type ScriptCache interface {
	ReplaceAll(scripts []api.Script) error
}

// HookCache stores a backend hook listing wholesale.
type HookCache interface {
	ReplaceAll(hooks []api.Hook) error
}

// VideoCache stores a backend render job listing wholesale.
type VideoCache interface {
	ReplaceAll(videos []api.Video) error
}

// CacheStores bundles the local caches refreshed during a sync. A nil store
// skips that listing.
type CacheStores struct {
	Scripts ScriptCache
	Hooks   HookCache
	Videos  VideoCache
}

// SyncResult reports how many rows each cache holds after a sync.
type SyncResult struct {
	Scripts int `json:"scripts"`
	Hooks   int `json:"hooks"`
	Videos  int `json:"videos"`
}

// SyncCache refreshes the local caches from the backend listings.
//
// Each listing is fetched and replaced independently; the first failure
// aborts the sync, leaving already-synced caches at their new contents.
func (e *Engine) SyncCache(ctx context.Context, prog chan<- ProgressUpdate, stores CacheStores) (*SyncResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &SyncResult{}
	step, total := 0, 3

	if stores.Scripts != nil {
		step++
		scripts, err := e.api.ListScripts(ctx, syncScriptLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list scripts: %v", shared.ErrAPIRequest, err)
		}
		if err := stores.Scripts.ReplaceAll(scripts); err != nil {
			return nil, err
		}
		result.Scripts = len(scripts)
		e.sendProgress(prog, syncUpdate(SyncScripts, step, total, len(scripts), "scripts"))
	}

	if stores.Hooks != nil {
		step++
		hooks, err := e.api.ListHooks(ctx, api.HookFilter{Limit: syncHookLimit})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list hooks: %v", shared.ErrAPIRequest, err)
		}
		if err := stores.Hooks.ReplaceAll(hooks); err != nil {
			return nil, err
		}
		result.Hooks = len(hooks)
		e.sendProgress(prog, syncUpdate(SyncHooks, step, total, len(hooks), "hooks"))
	}

	if stores.Videos != nil {
		step++
		videos, err := e.api.ListVideos(ctx, syncVideoLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list render jobs: %v", shared.ErrAPIRequest, err)
		}
		if err := stores.Videos.ReplaceAll(videos); err != nil {
			return nil, err
		}
		result.Videos = len(videos)
		e.sendProgress(prog, syncUpdate(SyncVideos, step, total, len(videos), "videos"))
	}

	return result, nil
}
