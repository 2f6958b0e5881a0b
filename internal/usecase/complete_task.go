package usecase

import (
	"context"

	"github.com/runoshun/tasklist/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	TaskID int
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	Task *domain.Task // The completed task
}

// CompleteTask is the use case for marking a task as completed.
// Completing an already completed task fails with AlreadyCompleted.
type CompleteTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(tasks domain.TaskRepository, logger domain.Logger) *CompleteTask {
	return &CompleteTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute marks the task as completed.
func (uc *CompleteTask) Execute(_ context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	task, err := uc.tasks.Complete(in.TaskID)
	if task == nil {
		return nil, err
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "completed")
	}
	return &CompleteTaskOutput{Task: task}, err
}
