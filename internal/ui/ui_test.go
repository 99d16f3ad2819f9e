package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/poller"
)

type stubLister struct {
	scripts []api.Script
}

func (s *stubLister) ListScripts(ctx context.Context, limit int) ([]api.Script, error) {
	return s.scripts, nil
}

func (s *stubLister) UpdateScript(ctx context.Context, id, text string) (*api.Script, error) {
	for _, sc := range s.scripts {
		if sc.ID == id {
			sc.Script = text
			return &sc, nil
		}
	}
	return nil, errors.New("script not found")
}

type stubVideoAPI struct {
	generate func(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error)
}

func (s *stubVideoAPI) ListVideos(ctx context.Context, limit int) ([]api.Video, error) {
	return nil, nil
}

func (s *stubVideoAPI) GenerateVideo(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error) {
	if s.generate != nil {
		return s.generate(ctx, req)
	}
	return &api.GenerateVideoResponse{ID: "v1", Status: api.StatusQueued}, nil
}

func newTestModel(t *testing.T, videoAPI poller.VideoAPI) *Model {
	t.Helper()

	lister := &stubLister{scripts: []api.Script{
		{ID: "s1", Topic: "morning routines", Mode: "viral", CharacterCount: 120},
		{ID: "s2", Topic: "focus", Mode: "educational", CharacterCount: 300},
	}}

	watcher := poller.NewWatcher(videoAPI, poller.Opts{Interval: time.Hour})
	m := NewModel(context.Background(), lister, watcher)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(scriptsFetchedMsg{scripts: lister.scripts})

	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel(t *testing.T) {
	t.Run("Enter Selects A Script And Asks For Confirmation", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(keyMsg("enter"))

		if m.view != ConfirmView {
			t.Fatalf("expected confirm view, got %d", m.view)
		}
		if m.selected == nil || m.selected.ID != "s1" {
			t.Errorf("expected first script selected, got %+v", m.selected)
		}
	})

	t.Run("Declining Returns To The Script List", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(keyMsg("enter"))
		m.Update(keyMsg("n"))

		if m.view != ScriptListView {
			t.Errorf("expected script list view, got %d", m.view)
		}
	})

	t.Run("Confirming Starts A Submission", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(keyMsg("enter"))
		_, cmd := m.Update(keyMsg("y"))

		if cmd == nil {
			t.Fatal("expected a submit command")
		}

		msg := cmd()
		done, ok := msg.(submitDoneMsg)
		if !ok {
			t.Fatalf("expected submitDoneMsg, got %T", msg)
		}
		if done.err != nil {
			t.Fatalf("expected no error, got %v", done.err)
		}
		if done.result.Status != poller.Accepted {
			t.Errorf("expected Accepted, got %s", done.result.Status)
		}
	})

	t.Run("Editing Disables Submission Until Saved Or Discarded", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(keyMsg("enter"))
		m.Update(keyMsg("e"))

		if m.view != EditView || !m.editing {
			t.Fatalf("expected edit view with editing flag, got view=%d editing=%v", m.view, m.editing)
		}

		// The confirm key must stay inert while the edit buffer is open.
		m.view = ConfirmView
		_, cmd := m.Update(keyMsg("y"))
		if cmd != nil {
			t.Error("expected no submit command while editing")
		}

		m.view = EditView
		m.Update(keyMsg("esc"))
		if m.editing {
			t.Fatal("expected discard to clear the editing flag")
		}

		_, cmd = m.Update(keyMsg("y"))
		if cmd == nil {
			t.Error("expected submission to work after discarding the edit")
		}
	})

	t.Run("Saving An Edit Updates The Selected Script", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(keyMsg("enter"))
		m.Update(keyMsg("e"))
		m.editor.SetValue("A sharper opening line.")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
		if cmd == nil {
			t.Fatal("expected a save command")
		}

		m.Update(cmd())

		if m.editing || m.view != ConfirmView {
			t.Errorf("expected to return to confirm view, got view=%d editing=%v", m.view, m.editing)
		}
		if m.selected.Script != "A sharper opening line." {
			t.Errorf("expected selected script updated, got %q", m.selected.Script)
		}
	})

	t.Run("Confirm Key Is Inert While A Submission Is In Flight", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		stub := &stubVideoAPI{
			generate: func(ctx context.Context, req api.GenerateVideoRequest) (*api.GenerateVideoResponse, error) {
				close(started)
				<-release
				return &api.GenerateVideoResponse{ID: "v1", Status: api.StatusQueued}, nil
			},
		}

		m := newTestModel(t, stub)
		m.Update(keyMsg("enter"))

		go m.watcher.Submit(context.Background(), api.GenerateVideoRequest{ScriptID: "s1", VoiceID: api.DefaultVoiceID})
		<-started

		_, cmd := m.Update(keyMsg("y"))
		close(release)

		if cmd != nil {
			t.Error("expected no command while submitting")
		}
		if m.view != ConfirmView {
			t.Errorf("expected to stay in confirm view, got %d", m.view)
		}
	})

	t.Run("Submission Outcome Lands In The Job View As A Toast", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(submitDoneMsg{result: poller.SubmitResult{Status: poller.AmbiguousTimeout, Message: "Still waiting on the backend"}})

		if m.view != JobListView {
			t.Fatalf("expected job list view, got %d", m.view)
		}
		if m.toast != "Still waiting on the backend" || m.toastStyle != toastWarn {
			t.Errorf("expected warning toast, got %q style %d", m.toast, m.toastStyle)
		}
	})

	t.Run("Job Snapshots Replace The Job List", func(t *testing.T) {
		m := newTestModel(t, &stubVideoAPI{})

		m.Update(jobsUpdatedMsg{jobs: []api.Video{
			{ID: "v1", Status: api.StatusProcessing},
			{ID: "v2", Status: api.StatusCompleted, Duration: 42},
		}})
		m.Update(jobsUpdatedMsg{jobs: []api.Video{
			{ID: "v2", Status: api.StatusCompleted, Duration: 42},
		}})

		if got := len(m.jobList.Items()); got != 1 {
			t.Errorf("expected job list replaced wholesale, got %d items", got)
		}
	})
}
