package ui

import (
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/poller"
)

// scriptsFetchedMsg carries the script listing loaded at startup.
type scriptsFetchedMsg struct {
	scripts []api.Script
	err     error
}

// jobsUpdatedMsg carries a fresh job list snapshot from the watcher.
type jobsUpdatedMsg struct {
	jobs []api.Video
}

// scriptSavedMsg carries the backend's view of an edited script.
type scriptSavedMsg struct {
	script *api.Script
	err    error
}

// submitDoneMsg carries the classified outcome of a render submission.
type submitDoneMsg struct {
	result poller.SubmitResult
	err    error
}
