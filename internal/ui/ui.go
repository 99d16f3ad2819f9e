package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/poller"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ScriptListView ViewState = iota
	ConfirmView
	EditView
	JobListView
)

// ScriptAPI is the slice of the REST client the TUI needs directly.
// Render jobs go through the watcher instead.
type ScriptAPI interface {
	ListScripts(ctx context.Context, limit int) ([]api.Script, error)
	UpdateScript(ctx context.Context, id, text string) (*api.Script, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	client     ScriptAPI
	watcher    *poller.Watcher
	width      int
	height     int
	scriptList list.Model
	scripts    []api.Script
	selected   *api.Script
	editor     textarea.Model
	editing    bool
	jobList    list.Model
	toast      string
	toastStyle int
	err        error
	help       help.Model
	keys       keyMap
}

// toast severities
const (
	toastOK = iota
	toastWarn
	toastErr
)

// NewModel creates a new TUI model with the provided dependencies.
//
// The caller owns the watcher's Run loop; the model only consumes its
// Updates channel and submits through it.
func NewModel(ctx context.Context, client ScriptAPI, watcher *poller.Watcher) *Model {
	return &Model{
		ctx:     ctx,
		view:    ScriptListView,
		client:  client,
		watcher: watcher,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching scripts and subscribing to job updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchScripts(), m.waitForJobs())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.scriptList.Width() == 0 {
			m.scriptList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.jobList.Width() == 0 {
			m.jobList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ScriptListView:
			return m.handleScriptListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case EditView:
			return m.handleEditKeys(msg)
		case JobListView:
			return m.handleJobListKeys(msg)
		}

	case scriptsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.scripts = msg.scripts
		items := make([]list.Item, len(msg.scripts))
		for i, s := range msg.scripts {
			items[i] = scriptItem{script: s}
		}
		m.scriptList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.scriptList.Title = "Scripts"
		m.scriptList.SetSize(m.width-4, m.height-8)
		return m, nil

	case jobsUpdatedMsg:
		m.setJobs(msg.jobs)
		return m, m.waitForJobs()

	case scriptSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.script
		for i := range m.scripts {
			if m.scripts[i].ID == msg.script.ID {
				m.scripts[i] = *msg.script
			}
		}
		m.editing = false
		m.view = ConfirmView
		return m, nil

	case submitDoneMsg:
		m.applySubmitOutcome(msg)
		m.view = JobListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ScriptListView:
		return m.renderScriptList()
	case ConfirmView:
		return m.renderConfirm()
	case EditView:
		return m.renderEdit()
	case JobListView:
		return m.renderJobList()
	default:
		return ""
	}
}

func (m *Model) handleScriptListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "v":
		m.view = JobListView
		return m, nil
	case "enter":
		selected := m.scriptList.SelectedItem()
		if selected != nil {
			if s, ok := selected.(scriptItem); ok {
				script := s.script
				m.selected = &script
				m.view = ConfirmView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.scriptList, cmd = m.scriptList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = ScriptListView
		return m, nil
	case "e":
		m.startEditing()
		return m, nil
	case "y":
		// Editing and an in-flight submission both keep the confirm key inert.
		if m.editing || m.watcher.Submitting() {
			return m, nil
		}
		return m, m.submitRender(m.selected.ID)
	}
	return m, nil
}

func (m *Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Discard the buffer.
		m.editing = false
		m.view = ConfirmView
		return m, nil
	case "ctrl+s":
		return m, m.saveScript(m.selected.ID, m.editor.Value())
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// startEditing loads the selected script into the edit buffer. While the
// buffer is open the script cannot be submitted.
func (m *Model) startEditing() {
	m.editor = textarea.New()
	m.editor.SetWidth(m.width - 4)
	m.editor.SetHeight(m.height - 10)
	m.editor.SetValue(m.selected.Script)
	m.editor.Focus()
	m.editing = true
	m.view = EditView
}

func (m *Model) handleJobListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ScriptListView
		return m, nil
	case "r":
		m.watcher.Poke()
		return m, nil
	}

	var cmd tea.Cmd
	m.jobList, cmd = m.jobList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ScriptListView:
		m.scriptList, cmd = m.scriptList.Update(msg)
	case JobListView:
		m.jobList, cmd = m.jobList.Update(msg)
	}
	return m, cmd
}

// setJobs replaces the job list contents with the latest snapshot.
func (m *Model) setJobs(jobs []api.Video) {
	items := make([]list.Item, len(jobs))
	for i, v := range jobs {
		items[i] = jobItem{job: v}
	}
	if m.jobList.Items() == nil {
		m.jobList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.jobList.Title = "Render Jobs"
		m.jobList.SetSize(m.width-4, m.height-8)
		return
	}
	m.jobList.SetItems(items)
}

func (m *Model) applySubmitOutcome(msg submitDoneMsg) {
	if msg.err != nil {
		m.toast = fmt.Sprintf("Submission failed: %v", msg.err)
		m.toastStyle = toastErr
		return
	}

	switch msg.result.Status {
	case poller.Accepted:
		m.toast = msg.result.Message
		m.toastStyle = toastOK
	case poller.AmbiguousTimeout:
		m.toast = msg.result.Message
		m.toastStyle = toastWarn
	default:
		m.toast = msg.result.Message
		m.toastStyle = toastErr
	}
}

func (m *Model) fetchScripts() tea.Cmd {
	return func() tea.Msg {
		scripts, err := m.client.ListScripts(m.ctx, 0)
		return scriptsFetchedMsg{scripts: scripts, err: err}
	}
}

func (m *Model) waitForJobs() tea.Cmd {
	return func() tea.Msg {
		select {
		case jobs := <-m.watcher.Updates():
			return jobsUpdatedMsg{jobs: jobs}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) saveScript(id, text string) tea.Cmd {
	return func() tea.Msg {
		script, err := m.client.UpdateScript(m.ctx, id, text)
		return scriptSavedMsg{script: script, err: err}
	}
}

func (m *Model) submitRender(scriptID string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.watcher.Submit(m.ctx, api.GenerateVideoRequest{
			ScriptID: scriptID,
			VoiceID:  api.DefaultVoiceID,
		})
		return submitDoneMsg{result: res, err: err}
	}
}

func (m *Model) renderScriptList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.jobs, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.scriptList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Generate a video from '%s'?", m.selected.Topic))
	info := fmt.Sprintf("\nMode: %s\nCharacters: %d\nVoice: default\n", m.selected.Mode, m.selected.CharacterCount)

	if m.watcher.Submitting() {
		info += "\n" + styles.warn.Render("A submission is already in flight...")
	}

	editKey := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no, editKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderEdit() string {
	title := styles.title.Render(fmt.Sprintf("Editing '%s'", m.selected.Topic))

	saveKey := key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save"))
	discardKey := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard"))
	helpView := m.help.ShortHelpView([]key.Binding{saveKey, discardKey})

	return fmt.Sprintf("%s\n%s\n\n%s", title, m.editor.View(), helpView)
}

func (m *Model) renderJobList() string {
	var toast string
	if m.toast != "" {
		switch m.toastStyle {
		case toastOK:
			toast = styles.ok.Render(m.toast) + "\n\n"
		case toastWarn:
			toast = styles.warn.Render(m.toast) + "\n\n"
		default:
			toast = styles.err.Render(m.toast) + "\n\n"
		}
	}

	helpKeys := []key.Binding{m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", toast, m.jobList.View(), helpView)
}
