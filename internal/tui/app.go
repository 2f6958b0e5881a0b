package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/usecase"
)

// Model is the main bubbletea model for the TUI.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error

	// State (slices - contain pointers)
	tasks []*domain.Task

	// Components (structs with pointers)
	keys       KeyMap
	styles     Styles
	help       help.Model
	titleInput textinput.Model

	status string
	filter domain.TaskFilter
	stats  domain.Statistics

	// Commands run on their own goroutines; the repository is not
	// safe for concurrent use.
	mu sync.Mutex

	// Numeric state (smaller types last)
	mode          Mode
	cursor        int
	width         int
	height        int
	confirmTaskID int
}

// New creates a new TUI Model with the given container.
func New(c *app.Container) *Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = domain.MaxTitleLength

	return &Model{
		container:  c,
		mode:       ModeNormal,
		filter:     domain.FilterAll,
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		help:       help.New(),
		titleInput: ti,
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadTasks()
}

// SelectedTask returns the task under the cursor, or nil if none.
func (m *Model) SelectedTask() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return m.tasks[m.cursor]
}

// loadTasks returns a command that loads tasks matching the current filter.
func (m *Model) loadTasks() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		out, err := m.container.ListTasksUseCase().Execute(context.Background(), usecase.ListTasksInput{Filter: filter})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTasksLoaded{Filter: out.Filter, Tasks: out.Tasks, Stats: out.Stats}
	}
}

// toggleTask completes a pending task or reopens a completed one.
func (m *Model) toggleTask(task *domain.Task) tea.Cmd {
	taskID, completed := task.ID, task.Completed
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		ctx := context.Background()
		if completed {
			out, err := m.container.ReopenTaskUseCase().Execute(ctx, usecase.ReopenTaskInput{TaskID: taskID})
			if err != nil {
				return MsgError{Err: err}
			}
			return MsgTaskChanged{Status: fmt.Sprintf("Reopened #%d", out.Task.ID)}
		}
		out, err := m.container.CompleteTaskUseCase().Execute(ctx, usecase.CompleteTaskInput{TaskID: taskID})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskChanged{Status: fmt.Sprintf("Completed #%d", out.Task.ID)}
	}
}

// createTask returns a command that creates a task.
func (m *Model) createTask(title string) tea.Cmd {
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		out, err := m.container.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{Title: title})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskChanged{Status: fmt.Sprintf("Created #%d", out.Task.ID)}
	}
}

// deleteTask returns a command that deletes a task.
func (m *Model) deleteTask(taskID int) tea.Cmd {
	return func() tea.Msg {
		m.mu.Lock()
		defer m.mu.Unlock()

		out, err := m.container.DeleteTaskUseCase().Execute(context.Background(), usecase.DeleteTaskInput{TaskID: taskID})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskChanged{Status: fmt.Sprintf("Deleted #%d", out.Task.ID)}
	}
}
