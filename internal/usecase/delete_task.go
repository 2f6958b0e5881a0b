package usecase

import (
	"context"

	"github.com/runoshun/tasklist/internal/domain"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID int
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The task as it was before deletion
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskRepository, logger domain.Logger) *DeleteTask {
	return &DeleteTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute deletes the task.
func (uc *DeleteTask) Execute(_ context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := uc.tasks.Get(in.TaskID)
	if err != nil {
		return nil, err
	}
	err = uc.tasks.Delete(in.TaskID)
	if err != nil && domain.KindOf(err) != domain.KindPersistenceFailed {
		return nil, err
	}
	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "deleted")
	}
	return &DeleteTaskOutput{Task: task}, err
}
