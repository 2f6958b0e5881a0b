package usecase

import (
	"context"

	"github.com/runoshun/tasklist/internal/domain"
)

// TaskStatsInput contains the parameters for task statistics.
type TaskStatsInput struct{}

// TaskStatsOutput contains the task statistics.
type TaskStatsOutput struct {
	Stats domain.Statistics
}

// TaskStats is the use case for summarizing the task collection.
type TaskStats struct {
	tasks domain.TaskRepository
}

// NewTaskStats creates a new TaskStats use case.
func NewTaskStats(tasks domain.TaskRepository) *TaskStats {
	return &TaskStats{tasks: tasks}
}

// Execute computes the statistics.
func (uc *TaskStats) Execute(_ context.Context, _ TaskStatsInput) (*TaskStatsOutput, error) {
	return &TaskStatsOutput{Stats: uc.tasks.Statistics()}, nil
}
