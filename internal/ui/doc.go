// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for turning scripts into videos:
//  1. [ScriptListView] : Browse generated scripts
//  2. [ConfirmView] : Confirm a render submission
//  3. [JobListView] : Watch render jobs update live
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Job list snapshots flow through a channel from the poller.Watcher, so the job
// view refreshes without blocking the event loop. Submissions go through the
// watcher as well, which serializes them and classifies the outcome.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
