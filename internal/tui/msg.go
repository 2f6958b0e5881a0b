package tui

import "github.com/runoshun/tasklist/internal/domain"

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgTasksLoaded is sent when tasks are loaded from the repository.
type MsgTasksLoaded struct {
	Filter domain.TaskFilter
	Tasks  []*domain.Task
	Stats  domain.Statistics
}

func (MsgTasksLoaded) sealed() {}

// MsgTaskChanged is sent after a successful mutation.
type MsgTaskChanged struct {
	Status string // Message for the status line
}

func (MsgTaskChanged) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
