package usecase

import (
	"context"

	"github.com/runoshun/tasklist/internal/domain"
)

// sampleTasks are created on first start so the UI has something to show.
var sampleTasks = []NewTaskInput{
	{Title: "Learn Go web development", Description: "Read the documentation and build small examples"},
	{Title: "Prepare presentation", Description: "Create slides and example code"},
}

// SeedTasksInput contains the parameters for seeding tasks.
type SeedTasksInput struct{}

// SeedTasksOutput contains the seeded tasks, empty when the collection
// already had tasks.
type SeedTasksOutput struct {
	Tasks []*domain.Task
}

// SeedTasks creates sample tasks when the collection is empty.
type SeedTasks struct {
	tasks  domain.TaskRepository
	logger domain.Logger
}

// NewSeedTasks creates a new SeedTasks use case.
func NewSeedTasks(tasks domain.TaskRepository, logger domain.Logger) *SeedTasks {
	return &SeedTasks{
		tasks:  tasks,
		logger: logger,
	}
}

// Execute seeds the collection if it is empty.
func (uc *SeedTasks) Execute(ctx context.Context, _ SeedTasksInput) (*SeedTasksOutput, error) {
	out := &SeedTasksOutput{}
	if len(uc.tasks.ListAll()) > 0 {
		return out, nil
	}

	create := NewNewTask(uc.tasks, uc.logger)
	for _, in := range sampleTasks {
		res, err := create.Execute(ctx, in)
		if err != nil {
			return out, err
		}
		out.Tasks = append(out.Tasks, res.Task)
	}
	return out, nil
}
