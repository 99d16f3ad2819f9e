package poller

import (
	"context"
	"errors"
	"fmt"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

// SubmitStatus is the three-way submission outcome. Collapsing the timeout
// into Rejected would tell users a job failed when it may be running.
type SubmitStatus int

const (
	Accepted         SubmitStatus = iota // backend acknowledged; job is queued
	AmbiguousTimeout                     // no acknowledgement in time; job may still exist server-side
	Rejected                             // explicit error response
)

func (s SubmitStatus) String() string {
	switch s {
	case Accepted:
		return "accepted"
	case AmbiguousTimeout:
		return "ambiguous_timeout"
	case Rejected:
		return "rejected"
	default:
		return ""
	}
}

// SubmitResult reports a submission outcome to the user-facing layer.
type SubmitResult struct {
	Status  SubmitStatus
	Message string
	VideoID string // known only when Accepted
}

const (
	acceptedMessage  = "Video generation started. It runs in the background; the job list refreshes automatically."
	ambiguousMessage = "The request timed out, but generation likely started anyway. Check the video list."
	rejectedFallback = "Video generation failed"
)

// Submit issues a render job submission with a bounded acknowledgement
// timeout. The timeout bounds only the "was it accepted" round-trip, never the
// rendering itself. Accepted and ambiguous outcomes poke an immediate list
// refresh so the job shows up before the next tick.
//
// Submissions are serialized per watcher: a call while another is in flight
// returns [shared.ErrSubmitInFlight]. The in-flight flag resets on every exit
// path.
func (w *Watcher) Submit(ctx context.Context, req api.GenerateVideoRequest) (SubmitResult, error) {
	if req.ScriptID == "" {
		return SubmitResult{}, fmt.Errorf("%w: script_id", shared.ErrMissingArgument)
	}
	if req.VoiceID == "" {
		return SubmitResult{}, fmt.Errorf("%w: voice_id", shared.ErrMissingArgument)
	}

	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return SubmitResult{}, shared.ErrSubmitInFlight
	}
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	subCtx, cancel := context.WithTimeout(ctx, w.submitTimeout)
	defer cancel()

	resp, err := w.client.GenerateVideo(subCtx, req)

	switch {
	case err == nil:
		w.Poke()
		return SubmitResult{Status: Accepted, Message: acceptedMessage, VideoID: resp.ID}, nil

	case errors.Is(err, context.DeadlineExceeded):
		// Genuinely ambiguous: the backend may have queued the job before the
		// acknowledgement deadline passed. Reconcile rather than report failure.
		w.Poke()
		return SubmitResult{Status: AmbiguousTimeout, Message: ambiguousMessage}, nil

	case errors.Is(err, context.Canceled):
		// Caller teardown, not an outcome.
		return SubmitResult{}, err

	default:
		return SubmitResult{
			Status:  Rejected,
			Message: api.ErrorMessage(err, rejectedFallback),
		}, nil
	}
}
