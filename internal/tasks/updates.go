package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	FetchJobs Phase = iota
	DownloadRender
	WriteManifest
	SyncScripts
	SyncHooks
	SyncVideos
)

func (p Phase) String() string {
	switch p {
	case FetchJobs:
		return "fetch_jobs"
	case DownloadRender:
		return "download_render"
	case WriteManifest:
		return "write_manifest"
	case SyncScripts:
		return "sync_scripts"
	case SyncHooks:
		return "sync_hooks"
	case SyncVideos:
		return "sync_videos"
	default:
		return ""
	}
}

func fetchJobsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchJobs,
		Step:    1,
		Total:   1,
		Message: "Fetching render jobs...",
	}
}

func downloadStartedUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadRender,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading %s...", step, total, id),
	}
}

func downloadCompletedUpdate(step, total int, id string, bytes int64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadRender,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d bytes)", step, total, id, bytes),
	}
}

func downloadSkippedUpdate(step, total int, id string, status string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadRender,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] - %s skipped (%s)", step, total, id, status),
	}
}

func downloadFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadRender,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}

func syncUpdate(phase Phase, step, total, count int, what string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Cached %d %s", step, total, count, what),
	}
}
