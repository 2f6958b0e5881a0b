package domain

import "time"

// TaskRepository is the single authority over the task collection.
// Every mutating operation persists the full collection before returning.
type TaskRepository interface {
	// Create validates and appends a new task with the next sequential ID.
	Create(title, description string) (*Task, error)

	// Get returns the task with the given ID or a NotFound error.
	Get(id int) (*Task, error)

	// ListAll returns every task in insertion order.
	ListAll() []*Task

	// ListPending returns tasks that are not completed, in insertion order.
	ListPending() []*Task

	// ListCompleted returns completed tasks, in insertion order.
	ListCompleted() []*Task

	// Complete marks a pending task as completed.
	Complete(id int) (*Task, error)

	// Reopen marks a completed task as pending. Reopening a pending task
	// is a no-op.
	Reopen(id int) (*Task, error)

	// Update replaces the supplied fields of a task.
	Update(id int, fields UpdateFields) (*Task, error)

	// Delete removes a task.
	Delete(id int) error

	// Statistics summarizes the collection.
	Statistics() Statistics
}

// UpdateFields lists the optional fields of an update. Nil means "leave
// unchanged".
type UpdateFields struct {
	Title       *string
	Description *string
}

// TaskCodec loads and saves the whole task collection.
type TaskCodec interface {
	// Load returns the stored tasks. A missing store yields no tasks and
	// no error; an unreadable document yields an error wrapping
	// ErrStoreCorrupted.
	Load() ([]*Task, error)

	// Save replaces the stored collection with tasks.
	Save(tasks []*Task) error
}

// ConfigLoader produces the effective configuration.
type ConfigLoader interface {
	Load() (*Config, error)
	LoadWithOptions(opts LoadConfigOptions) (*Config, error)
}

// ConfigManager inspects and creates configuration files.
type ConfigManager interface {
	GetGlobalConfigInfo() ConfigInfo
	GetProjectConfigInfo() ConfigInfo
	// InitGlobalConfig writes the template and returns the file path.
	InitGlobalConfig() (string, error)
	// InitProjectConfig writes the template and returns the file path.
	InitProjectConfig() (string, error)
}

// Logger records application events. taskID 0 means "not task specific".
type Logger interface {
	Debug(taskID int, category, msg string)
	Info(taskID int, category, msg string)
	Warn(taskID int, category, msg string)
	Error(taskID int, category, msg string)
}

// NopLogger discards all log entries.
type NopLogger struct{}

func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
