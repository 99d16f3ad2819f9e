package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/legyenez/lgz/internal/api"
	"github.com/legyenez/lgz/internal/shared"
)

var (
	_ list.Item = scriptItem{}
	_ list.Item = jobItem{}
)

// scriptItem wraps [api.Script] to implement [list.Item].
type scriptItem struct {
	script api.Script
}

func (i scriptItem) FilterValue() string { return i.script.Topic }
func (i scriptItem) Title() string       { return i.script.Topic }
func (i scriptItem) Description() string {
	desc := fmt.Sprintf("%s • %d chars", i.script.Mode, i.script.CharacterCount)
	if i.script.HookText != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.script.HookText)
	}
	return desc
}

// jobItem wraps [api.Video] to implement [list.Item].
type jobItem struct {
	job api.Video
}

func (i jobItem) FilterValue() string { return i.job.ID }
func (i jobItem) Title() string       { return i.job.ID }
func (i jobItem) Description() string {
	switch i.job.Status {
	case api.StatusCompleted:
		if i.job.Duration > 0 {
			return fmt.Sprintf("%s • %s", i.job.Status, shared.FormatDuration(i.job.Duration))
		}
		return string(i.job.Status)
	case api.StatusFailed:
		if i.job.Error != "" {
			return fmt.Sprintf("%s • %s", i.job.Status, i.job.Error)
		}
		return string(i.job.Status)
	default:
		return string(i.job.Status)
	}
}
