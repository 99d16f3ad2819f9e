package poller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

type mockAPI struct {
	mu        sync.Mutex
	listCalls int
	lists     [][]api.Video // successive ListVideos returns; the last entry repeats
	listErr   error
	generate  func(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error)
}

func (m *mockAPI) ListVideos(ctx context.Context, limit int) ([]api.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}

	if len(m.lists) == 0 {
		return nil, nil
	}
	idx := m.listCalls - 1
	if idx >= len(m.lists) {
		idx = len(m.lists) - 1
	}
	return m.lists[idx], nil
}

func (m *mockAPI) GenerateVideo(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error) {
	if m.generate != nil {
		return m.generate(ctx, req)
	}
	return &api.GenerateVideoResponse{ID: "v-new", Status: api.StatusQueued}, nil
}

func (m *mockAPI) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func waitUpdate(t *testing.T, w *Watcher, timeout time.Duration) []api.Video {
	t.Helper()
	select {
	case jobs := <-w.Updates():
		return jobs
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a job list update")
		return nil
	}
}

func TestWatcher(t *testing.T) {
	t.Run("Refresh Replaces Jobs Wholesale", func(t *testing.T) {
		mock := &mockAPI{lists: [][]api.Video{
			{{ID: "v2", Status: api.StatusProcessing}, {ID: "v1", Status: api.StatusCompleted}},
			{{ID: "v2", Status: api.StatusCompleted}},
		}}

		w := NewWatcher(mock, Opts{})
		w.Refresh(context.Background())
		w.Refresh(context.Background())

		jobs := w.Jobs()
		if len(jobs) != 1 || jobs[0].ID != "v2" {
			t.Fatalf("expected wholesale replacement with [v2], got %+v", jobs)
		}
		if jobs[0].Status != api.StatusCompleted {
			t.Errorf("expected refreshed status, got %s", jobs[0].Status)
		}
		if _, ok := w.Job("v1"); ok {
			t.Error("job absent from the latest listing must disappear from the view")
		}
	})

	t.Run("Refresh Errors Are Swallowed", func(t *testing.T) {
		mock := &mockAPI{lists: [][]api.Video{{{ID: "v1"}}}}

		w := NewWatcher(mock, Opts{})
		w.Refresh(context.Background())

		mock.mu.Lock()
		mock.listErr = errors.New("connection refused")
		mock.mu.Unlock()

		w.Refresh(context.Background())

		// Last good snapshot survives a failed refresh.
		if jobs := w.Jobs(); len(jobs) != 1 || jobs[0].ID != "v1" {
			t.Errorf("expected last good snapshot to survive, got %+v", jobs)
		}
	})

	t.Run("Run Stops Refreshing After Cancel", func(t *testing.T) {
		mock := &mockAPI{}
		w := NewWatcher(mock, Opts{Interval: 10 * time.Millisecond})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()

		// Let a few ticks fire, then tear down.
		time.Sleep(55 * time.Millisecond)
		cancel()
		<-done

		if mock.calls() < 2 {
			t.Fatalf("expected periodic refreshes while running, got %d calls", mock.calls())
		}

		settled := mock.calls()
		time.Sleep(60 * time.Millisecond)
		if mock.calls() != settled {
			t.Errorf("refreshes continued after teardown: %d -> %d", settled, mock.calls())
		}
	})

	t.Run("Submit", func(t *testing.T) {
		t.Run("Accepted Pokes An Immediate Refresh", func(t *testing.T) {
			mock := &mockAPI{lists: [][]api.Video{
				{},
				{{ID: "v-new", Status: api.StatusQueued}},
			}}

			// Interval far beyond the test horizon: any second refresh must
			// come from the post-submit poke, not the ticker.
			w := NewWatcher(mock, Opts{Interval: time.Hour})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			waitUpdate(t, w, 2*time.Second) // initial refresh

			res, err := w.Submit(ctx, api.GenerateVideoRequest{ScriptID: "s1", VoiceID: "voice"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Status != Accepted {
				t.Fatalf("expected Accepted, got %s", res.Status)
			}
			if res.VideoID != "v-new" {
				t.Errorf("expected acknowledged job id, got %q", res.VideoID)
			}

			jobs := waitUpdate(t, w, 2*time.Second)
			if len(jobs) != 1 || jobs[0].ID != "v-new" {
				t.Errorf("expected the new job in the poked refresh, got %+v", jobs)
			}
			if w.Submitting() {
				t.Error("submitting flag must reset after an accepted submission")
			}
		})

		t.Run("Timeout Is Ambiguous Not Failure", func(t *testing.T) {
			mock := &mockAPI{
				generate: func(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				},
			}

			w := NewWatcher(mock, Opts{Interval: time.Hour, SubmitTimeout: 20 * time.Millisecond})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go w.Run(ctx)

			waitUpdate(t, w, 2*time.Second) // initial refresh

			res, err := w.Submit(ctx, api.GenerateVideoRequest{ScriptID: "s1", VoiceID: "voice"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Status != AmbiguousTimeout {
				t.Fatalf("expected AmbiguousTimeout, got %s", res.Status)
			}
			if res.Message == "" {
				t.Error("ambiguous outcome must carry a warning message")
			}

			// The ambiguous path still reconciles once, immediately.
			waitUpdate(t, w, 2*time.Second)
			if w.Submitting() {
				t.Error("submitting flag must reset after a timeout")
			}
		})

		t.Run("Rejection Carries Backend Detail", func(t *testing.T) {
			mock := &mockAPI{
				generate: func(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error) {
					return nil, &api.Error{Status: http.StatusNotFound, Detail: "Script not found"}
				},
			}

			w := NewWatcher(mock, Opts{Interval: time.Hour})

			res, err := w.Submit(context.Background(), api.GenerateVideoRequest{ScriptID: "s1", VoiceID: "voice"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Status != Rejected {
				t.Fatalf("expected Rejected, got %s", res.Status)
			}
			if res.Message != "Script not found" {
				t.Errorf("expected backend detail, got %q", res.Message)
			}
			if w.Submitting() {
				t.Error("submitting flag must reset after a rejection")
			}
		})

		t.Run("Serializes Concurrent Submissions", func(t *testing.T) {
			release := make(chan struct{})
			started := make(chan struct{})

			mock := &mockAPI{
				generate: func(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error) {
					close(started)
					<-release
					return &api.GenerateVideoResponse{ID: "v1", Status: api.StatusQueued}, nil
				},
			}

			w := NewWatcher(mock, Opts{Interval: time.Hour})

			first := make(chan SubmitResult, 1)
			go func() {
				res, _ := w.Submit(context.Background(), api.GenerateVideoRequest{ScriptID: "s1", VoiceID: "voice"})
				first <- res
			}()

			<-started
			_, err := w.Submit(context.Background(), api.GenerateVideoRequest{ScriptID: "s2", VoiceID: "voice"})
			if !errors.Is(err, shared.ErrSubmitInFlight) {
				t.Errorf("expected ErrSubmitInFlight, got %v", err)
			}

			close(release)
			if res := <-first; res.Status != Accepted {
				t.Errorf("expected first submission to complete accepted, got %s", res.Status)
			}
		})

		t.Run("Validates Required Fields", func(t *testing.T) {
			w := NewWatcher(&mockAPI{}, Opts{})

			if _, err := w.Submit(context.Background(), api.GenerateVideoRequest{VoiceID: "voice"}); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument for empty script_id, got %v", err)
			}
			if _, err := w.Submit(context.Background(), api.GenerateVideoRequest{ScriptID: "s1"}); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument for empty voice_id, got %v", err)
			}
		})
	})
}
