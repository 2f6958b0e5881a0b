package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/testutil"
)

func TestDeleteTask_Execute(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(testutil.NewTestTask(1, "one", false))
	repo.Add(testutil.NewTestTask(2, "two", false))
	logger := testutil.NewMockLogger()
	uc := NewDeleteTask(repo, logger)

	out, err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: 1})
	require.NoError(t, err)
	assert.Equal(t, "one", out.Task.Title)
	require.Len(t, repo.Tasks, 1)
	assert.Equal(t, 2, repo.Tasks[0].ID)
	assert.Len(t, logger.Entries("INFO"), 1)

	_, err = uc.Execute(context.Background(), DeleteTaskInput{TaskID: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
