package usecase

import (
	"context"

	"github.com/runoshun/tasklist/internal/domain"
)

// ReopenTaskInput contains the parameters for reopening a task.
type ReopenTaskInput struct {
	TaskID int
}

// ReopenTaskOutput contains the result of reopening a task.
type ReopenTaskOutput struct {
	Task       *domain.Task
	WasPending bool // The task was already pending; nothing changed
}

// ReopenTask is the use case for moving a completed task back to pending.
type ReopenTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewReopenTask creates a new ReopenTask use case.
func NewReopenTask(tasks domain.TaskRepository, logger domain.Logger) *ReopenTask {
	return &ReopenTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute reopens the task. Reopening a pending task is not an error.
func (uc *ReopenTask) Execute(_ context.Context, in ReopenTaskInput) (*ReopenTaskOutput, error) {
	current, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	if !current.Completed {
		return &ReopenTaskOutput{Task: current, WasPending: true}, nil
	}

	task, err := uc.tasks.Reopen(in.TaskID)
	if task == nil {
		return nil, err
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "reopened")
	}
	return &ReopenTaskOutput{Task: task}, err
}
