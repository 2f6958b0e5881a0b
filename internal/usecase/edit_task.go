package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/runoshun/tasklist/internal/domain"
)

// EditTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
type EditTaskInput struct {
	Title       *string
	Description *string
	Completed   *bool // true completes a pending task, false reopens a completed one
	TaskID      int
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask is the use case for updating a task's fields and state.
type EditTask struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskRepository, logger domain.Logger) *EditTask {
	return &EditTask{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute applies the field updates first, then the completion change.
// A persistence failure on the update does not stop the completion change;
// both errors are returned together.
func (uc *EditTask) Execute(_ context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	fields := domain.UpdateFields{
		Title:       trimmed(in.Title),
		Description: trimmed(in.Description),
	}

	task, updateErr := uc.tasks.Update(in.TaskID, fields)
	if task == nil {
		return nil, updateErr
	}

	var stateErr error
	if in.Completed != nil {
		var changed *domain.Task
		switch {
		case *in.Completed && !task.Completed:
			changed, stateErr = uc.tasks.Complete(in.TaskID)
		case !*in.Completed && task.Completed:
			changed, stateErr = uc.tasks.Reopen(in.TaskID)
		}
		if changed != nil {
			task = changed
		} else if stateErr != nil {
			return nil, errors.Join(updateErr, stateErr)
		}
	}

	if uc.logger != nil {
		uc.logger.Info(task.ID, "task", "updated")
	}
	return &EditTaskOutput{Task: task}, errors.Join(updateErr, stateErr)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
