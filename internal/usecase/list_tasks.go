package usecase

import (
	"context"

	"github.com/runoshun/tasklist/internal/domain"
)

// ListTasksInput contains the parameters for listing tasks.
type ListTasksInput struct {
	Filter domain.TaskFilter // Empty means all tasks
}

// ListTasksOutput contains the result of listing tasks.
type ListTasksOutput struct {
	Tasks  []*domain.Task    // Matching tasks in insertion order
	Filter domain.TaskFilter // Effective filter
	Stats  domain.Statistics // Statistics over the whole collection
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	tasks domain.TaskRepository
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(tasks domain.TaskRepository) *ListTasks {
	return &ListTasks{tasks: tasks}
}

// Execute lists tasks matching the filter.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	filter := domain.ParseTaskFilter(string(in.Filter))

	var tasks []*domain.Task
	switch filter {
	case domain.FilterPending:
		tasks = uc.tasks.ListPending()
	case domain.FilterCompleted:
		tasks = uc.tasks.ListCompleted()
	default:
		tasks = uc.tasks.ListAll()
	}

	return &ListTasksOutput{
		Tasks:  tasks,
		Filter: filter,
		Stats:  uc.tasks.Statistics(),
	}, nil
}
