// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/tasklist/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// LogEntry is one recorded log call.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	TaskID   int
}

// MockLogger records log calls.
type MockLogger struct {
	entries []LogEntry
	mu      sync.Mutex
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level string, taskID int, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, TaskID: taskID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(taskID int, category, msg string) { m.record("DEBUG", taskID, category, msg) }

// Info records an info entry.
func (m *MockLogger) Info(taskID int, category, msg string) { m.record("INFO", taskID, category, msg) }

// Warn records a warning entry.
func (m *MockLogger) Warn(taskID int, category, msg string) { m.record("WARN", taskID, category, msg) }

// Error records an error entry.
func (m *MockLogger) Error(taskID int, category, msg string) { m.record("ERROR", taskID, category, msg) }

// Entries returns recorded entries at level, or all entries when level is "".
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockCodec is an in-memory domain.TaskCodec.
// Fields are ordered to minimize memory padding.
type MockCodec struct {
	Stored  []*domain.Task
	LoadErr error
	SaveErr error
	Saves   int
}

// Load returns copies of the stored tasks.
func (m *MockCodec) Load() ([]*domain.Task, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return cloneTasks(m.Stored), nil
}

// Save records a copy of tasks.
func (m *MockCodec) Save(tasks []*domain.Task) error {
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Stored = cloneTasks(tasks)
	return nil
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks     []*domain.Task
	Clock     domain.Clock
	CreateErr error
	UpdateErr error
	NextIDN   int
}

// NewMockTaskRepository creates an empty MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		NextIDN: 1,
		Clock:   &MockClock{NowTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// Create appends a task.
func (m *MockTaskRepository) Create(title, description string) (*domain.Task, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	task, err := domain.NewTask(m.NextIDN, title, description, m.Clock.Now())
	if err != nil {
		return nil, err
	}
	m.NextIDN++
	m.Tasks = append(m.Tasks, task)
	return task.Clone(), nil
}

// Add inserts task as-is, bypassing validation.
func (m *MockTaskRepository) Add(task *domain.Task) {
	m.Tasks = append(m.Tasks, task)
	if task.ID >= m.NextIDN {
		m.NextIDN = task.ID + 1
	}
}

func (m *MockTaskRepository) find(id int) (*domain.Task, error) {
	for _, t := range m.Tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.NotFoundf("task with ID %d not found", id)
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(id int) (*domain.Task, error) {
	task, err := m.find(id)
	if err != nil {
		return nil, err
	}
	return task.Clone(), nil
}

// ListAll returns all tasks.
func (m *MockTaskRepository) ListAll() []*domain.Task {
	return cloneTasks(m.Tasks)
}

// ListPending returns pending tasks.
func (m *MockTaskRepository) ListPending() []*domain.Task {
	var out []*domain.Task
	for _, t := range m.Tasks {
		if !t.Completed {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ListCompleted returns completed tasks.
func (m *MockTaskRepository) ListCompleted() []*domain.Task {
	var out []*domain.Task
	for _, t := range m.Tasks {
		if t.Completed {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Complete marks a task completed.
func (m *MockTaskRepository) Complete(id int) (*domain.Task, error) {
	task, err := m.find(id)
	if err != nil {
		return nil, err
	}
	if err := task.MarkCompleted(m.Clock.Now()); err != nil {
		return nil, err
	}
	return task.Clone(), nil
}

// Reopen marks a task pending.
func (m *MockTaskRepository) Reopen(id int) (*domain.Task, error) {
	task, err := m.find(id)
	if err != nil {
		return nil, err
	}
	task.MarkPending()
	return task.Clone(), nil
}

// Update replaces the supplied fields.
func (m *MockTaskRepository) Update(id int, fields domain.UpdateFields) (*domain.Task, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	task, err := m.find(id)
	if err != nil {
		return nil, err
	}
	if fields.Title != nil {
		if err := domain.ValidateTitle(*fields.Title); err != nil {
			return nil, err
		}
		task.Title = strings.TrimSpace(*fields.Title)
	}
	if fields.Description != nil {
		task.Description = *fields.Description
	}
	return task.Clone(), nil
}

// Delete removes a task.
func (m *MockTaskRepository) Delete(id int) error {
	for i, t := range m.Tasks {
		if t.ID == id {
			m.Tasks = append(m.Tasks[:i], m.Tasks[i+1:]...)
			return nil
		}
	}
	return domain.NotFoundf("task with ID %d not found", id)
}

// Statistics summarizes the tasks.
func (m *MockTaskRepository) Statistics() domain.Statistics {
	return domain.ComputeStatistics(m.Tasks)
}

// NewTestTask builds a task for fixtures and panics on invalid input.
func NewTestTask(id int, title string, completed bool) *domain.Task {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute)
	task, err := domain.NewTask(id, title, "", created)
	if err != nil {
		panic(fmt.Sprintf("invalid test task: %v", err))
	}
	if completed {
		_ = task.MarkCompleted(created.Add(time.Hour))
	}
	return task
}

func cloneTasks(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

var (
	_ domain.TaskRepository = (*MockTaskRepository)(nil)
	_ domain.TaskCodec      = (*MockCodec)(nil)
	_ domain.Logger         = (*MockLogger)(nil)
	_ domain.Clock          = (*MockClock)(nil)
)
