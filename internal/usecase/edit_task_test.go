package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/taskrepo"
	"github.com/runoshun/tasklist/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestEditTask_Execute(t *testing.T) {
	tests := []struct {
		name          string
		in            EditTaskInput
		startDone     bool
		wantTitle     string
		wantDesc      string
		wantCompleted bool
		wantErr       error
	}{
		{
			name:      "title and description are trimmed",
			in:        EditTaskInput{Title: ptr("  New "), Description: ptr(" body ")},
			wantTitle: "New",
			wantDesc:  "body",
		},
		{
			name:      "no fields",
			in:        EditTaskInput{},
			wantTitle: "original",
		},
		{
			name:          "complete pending task",
			in:            EditTaskInput{Completed: ptr(true)},
			wantTitle:     "original",
			wantCompleted: true,
		},
		{
			name:          "completed true on completed task is a no-op",
			in:            EditTaskInput{Completed: ptr(true)},
			startDone:     true,
			wantTitle:     "original",
			wantCompleted: true,
		},
		{
			name:      "reopen completed task",
			in:        EditTaskInput{Completed: ptr(false), Title: ptr("Renamed")},
			startDone: true,
			wantTitle: "Renamed",
		},
		{
			name:    "blank title",
			in:      EditTaskInput{Title: ptr("   "), Completed: ptr(true)},
			wantErr: domain.ErrInvalidData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTaskRepository()
			repo.Add(testutil.NewTestTask(1, "original", tt.startDone))
			uc := NewEditTask(repo, nil)

			in := tt.in
			in.TaskID = 1
			out, err := uc.Execute(context.Background(), in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, out)
				task, getErr := repo.Get(1)
				require.NoError(t, getErr)
				assert.Equal(t, "original", task.Title)
				assert.Equal(t, tt.startDone, task.Completed)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, out.Task.Title)
			assert.Equal(t, tt.wantDesc, out.Task.Description)
			assert.Equal(t, tt.wantCompleted, out.Task.Completed)
			assert.Equal(t, tt.wantCompleted, out.Task.CompletedAt != nil)
		})
	}
}

func TestEditTask_Execute_NotFound(t *testing.T) {
	uc := NewEditTask(testutil.NewMockTaskRepository(), nil)

	_, err := uc.Execute(context.Background(), EditTaskInput{TaskID: 1, Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditTask_Execute_StrictSaveFailureStillCompletes(t *testing.T) {
	diskFull := errors.New("disk full")
	codec := &testutil.MockCodec{Stored: []*domain.Task{testutil.NewTestTask(1, "original", false)}}
	repo := taskrepo.Open(codec, nil, nil, taskrepo.WithStrictPersistence(true))
	codec.SaveErr = diskFull

	uc := NewEditTask(repo, nil)
	out, err := uc.Execute(context.Background(), EditTaskInput{
		TaskID:    1,
		Title:     ptr("renamed"),
		Completed: ptr(true),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
	assert.ErrorIs(t, err, diskFull)
	require.NotNil(t, out)
	assert.Equal(t, "renamed", out.Task.Title)
	assert.True(t, out.Task.Completed)

	got, getErr := repo.Get(1)
	require.NoError(t, getErr)
	assert.Equal(t, "renamed", got.Title)
	assert.True(t, got.Completed)
	assert.NotNil(t, got.CompletedAt)
}
