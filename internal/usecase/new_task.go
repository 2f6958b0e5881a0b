// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/tasklist/internal/domain"
)

// NewTaskInput contains the parameters for creating a task.
type NewTaskInput struct {
	Title       string // Task title (required, surrounding whitespace ignored)
	Description string // Task description (optional)
}

// NewTaskOutput contains the result of creating a task.
type NewTaskOutput struct {
	Task *domain.Task // The created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(tasks domain.TaskRepository, logger domain.Logger) *NewTask {
	return &NewTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute creates a new task with the given input.
// A PersistenceFailed error may come with a non-nil output: the task exists
// in memory but was not written.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	task, err := uc.tasks.Create(strings.TrimSpace(in.Title), strings.TrimSpace(in.Description))
	if task == nil {
		return nil, err
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", fmt.Sprintf("created: %s", task.Title))
	}
	return &NewTaskOutput{Task: task}, err
}
