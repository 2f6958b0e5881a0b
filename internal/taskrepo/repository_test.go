package taskrepo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/infra/jsonstore"
	"github.com/runoshun/tasklist/internal/testutil"
)

func newTestRepo(t *testing.T, stored ...*domain.Task) (*Repository, *testutil.MockCodec, *testutil.MockClock) {
	t.Helper()
	codec := &testutil.MockCodec{Stored: stored}
	clock := &testutil.MockClock{NowTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return Open(codec, clock, testutil.NewMockLogger()), codec, clock
}

func TestOpen_Empty(t *testing.T) {
	repo, codec, _ := newTestRepo(t)

	assert.Equal(t, 1, repo.NextID())
	assert.Empty(t, repo.ListAll())
	assert.Equal(t, 0, codec.Saves)
}

func TestOpen_NextIDFromMax(t *testing.T) {
	repo, _, _ := newTestRepo(t,
		testutil.NewTestTask(3, "three", false),
		testutil.NewTestTask(9, "nine", true),
		testutil.NewTestTask(5, "five", false),
	)

	assert.Equal(t, 10, repo.NextID())
	tasks := repo.ListAll()
	require.Len(t, tasks, 3)
	assert.Equal(t, []int{3, 9, 5}, ids(tasks))
}

func TestOpen_LoadErrorStartsEmpty(t *testing.T) {
	codec := &testutil.MockCodec{LoadErr: domain.ErrStoreCorrupted}
	logger := testutil.NewMockLogger()

	repo := Open(codec, nil, logger)

	assert.Empty(t, repo.ListAll())
	assert.Equal(t, 1, repo.NextID())
	warnings := logger.Entries("WARN")
	require.Len(t, warnings, 1)
	assert.Equal(t, "store", warnings[0].Category)
}

func TestRepository_Create(t *testing.T) {
	repo, codec, clock := newTestRepo(t)

	task, err := repo.Create("  Buy milk ", "2 liters")
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 liters", task.Description)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
	assert.True(t, task.CreatedAt.Equal(clock.NowTime))

	second, err := repo.Create("Second", "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)

	assert.Equal(t, 2, codec.Saves)
	require.Len(t, codec.Stored, 2)
	assert.Equal(t, 3, repo.NextID())
}

func TestRepository_CreateInvalidTitle(t *testing.T) {
	repo, codec, _ := newTestRepo(t)

	_, err := repo.Create("   ", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidData)
	assert.Empty(t, repo.ListAll())
	assert.Equal(t, 1, repo.NextID())
	assert.Equal(t, 0, codec.Saves)
}

func TestRepository_Get(t *testing.T) {
	repo, _, _ := newTestRepo(t, testutil.NewTestTask(1, "one", false))

	task, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "one", task.Title)

	_, err = repo.Get(2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo, _, _ := newTestRepo(t, testutil.NewTestTask(1, "one", false))

	got, err := repo.Get(1)
	require.NoError(t, err)
	got.Title = "mutated"
	got.Completed = true

	list := repo.ListAll()
	list[0].Title = "mutated too"
	list = append(list, testutil.NewTestTask(99, "extra", false))

	fresh, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "one", fresh.Title)
	assert.False(t, fresh.Completed)
	assert.Len(t, repo.ListAll(), 1)
	assert.Len(t, list, 2)
}

func TestRepository_Filters(t *testing.T) {
	repo, _, _ := newTestRepo(t,
		testutil.NewTestTask(1, "a", false),
		testutil.NewTestTask(2, "b", true),
		testutil.NewTestTask(3, "c", false),
		testutil.NewTestTask(4, "d", true),
	)

	assert.Equal(t, []int{1, 3}, ids(repo.ListPending()))
	assert.Equal(t, []int{2, 4}, ids(repo.ListCompleted()))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(repo.ListAll()))
}

func TestRepository_Complete(t *testing.T) {
	repo, codec, clock := newTestRepo(t, testutil.NewTestTask(1, "one", false))

	task, err := repo.Complete(1)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, task.CompletedAt.Equal(clock.NowTime))
	assert.Equal(t, 1, codec.Saves)

	_, err = repo.Complete(1)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, 1, codec.Saves)

	_, err = repo.Complete(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_Reopen(t *testing.T) {
	repo, codec, _ := newTestRepo(t,
		testutil.NewTestTask(1, "done", true),
		testutil.NewTestTask(2, "open", false),
	)

	task, err := repo.Reopen(1)
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, 1, codec.Saves)

	// Already pending: no error, no write
	task, err = repo.Reopen(2)
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.Equal(t, 1, codec.Saves)

	_, err = repo.Reopen(3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_Update(t *testing.T) {
	title := "  New title "
	desc := "new description"
	blank := " "

	t.Run("both fields", func(t *testing.T) {
		repo, codec, _ := newTestRepo(t, testutil.NewTestTask(1, "old", false))

		task, err := repo.Update(1, domain.UpdateFields{Title: &title, Description: &desc})
		require.NoError(t, err)
		assert.Equal(t, "New title", task.Title)
		assert.Equal(t, desc, task.Description)
		assert.Equal(t, 1, codec.Saves)
	})

	t.Run("no fields still persists", func(t *testing.T) {
		repo, codec, _ := newTestRepo(t, testutil.NewTestTask(1, "old", false))

		task, err := repo.Update(1, domain.UpdateFields{})
		require.NoError(t, err)
		assert.Equal(t, "old", task.Title)
		assert.Equal(t, 1, codec.Saves)
	})

	t.Run("invalid title changes nothing", func(t *testing.T) {
		repo, codec, _ := newTestRepo(t, testutil.NewTestTask(1, "old", false))

		_, err := repo.Update(1, domain.UpdateFields{Title: &blank, Description: &desc})
		assert.ErrorIs(t, err, domain.ErrInvalidData)

		task, err := repo.Get(1)
		require.NoError(t, err)
		assert.Equal(t, "old", task.Title)
		assert.Empty(t, task.Description)
		assert.Equal(t, 0, codec.Saves)
	})

	t.Run("missing task", func(t *testing.T) {
		repo, codec, _ := newTestRepo(t)

		_, err := repo.Update(5, domain.UpdateFields{Title: &title})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 0, codec.Saves)
	})
}

func TestRepository_DeleteNeverReusesIDsWithinProcess(t *testing.T) {
	repo, codec, _ := newTestRepo(t)

	_, err := repo.Create("first", "")
	require.NoError(t, err)
	last, err := repo.Create("second", "")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(last.ID))
	assert.Equal(t, []int{1}, ids(repo.ListAll()))
	assert.Equal(t, 3, codec.Saves)

	next, err := repo.Create("third", "")
	require.NoError(t, err)
	assert.Equal(t, 3, next.ID)

	assert.ErrorIs(t, repo.Delete(2), domain.ErrNotFound)
}

func TestRepository_Statistics(t *testing.T) {
	repo, _, _ := newTestRepo(t)
	assert.Equal(t, domain.Statistics{}, repo.Statistics())

	_, _ = repo.Create("a", "")
	_, _ = repo.Create("b", "")
	_, _ = repo.Create("c", "")
	_, _ = repo.Create("d", "")
	_, err := repo.Complete(2)
	require.NoError(t, err)

	stats := repo.Statistics()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 3, stats.Pending)
	assert.InDelta(t, 25.0, stats.CompletionRate, 1e-9)
}

func TestRepository_SaveFailure(t *testing.T) {
	diskFull := errors.New("disk full")

	t.Run("lenient logs and continues", func(t *testing.T) {
		codec := &testutil.MockCodec{SaveErr: diskFull}
		logger := testutil.NewMockLogger()
		repo := Open(codec, nil, logger)

		task, err := repo.Create("kept in memory", "")
		require.NoError(t, err)
		assert.Equal(t, 1, task.ID)
		assert.Len(t, repo.ListAll(), 1)
		require.Len(t, logger.Entries("WARN"), 1)
		assert.Contains(t, logger.Entries("WARN")[0].Msg, "disk full")
	})

	t.Run("strict reports PersistenceFailed", func(t *testing.T) {
		codec := &testutil.MockCodec{SaveErr: diskFull}
		repo := Open(codec, nil, nil, WithStrictPersistence(true))

		task, err := repo.Create("kept in memory", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
		assert.ErrorIs(t, err, diskFull)
		require.NotNil(t, task)
		assert.Len(t, repo.ListAll(), 1)

		_, err = repo.Complete(1)
		assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
		got, getErr := repo.Get(1)
		require.NoError(t, getErr)
		assert.True(t, got.Completed)

		assert.ErrorIs(t, repo.Delete(1), domain.ErrPersistenceFailed)
		assert.Empty(t, repo.ListAll())
	})
}

func TestRepository_WithJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tasks_data.json")

	repo := Open(jsonstore.New(path, nil), nil, nil)
	_, err := repo.Create("Write report", "quarterly")
	require.NoError(t, err)
	_, err = repo.Create("Call mom", "")
	require.NoError(t, err)
	_, err = repo.Complete(1)
	require.NoError(t, err)
	require.NoError(t, repo.Delete(2))

	reloaded := Open(jsonstore.New(path, nil), nil, nil)
	tasks := reloaded.ListAll()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write report", tasks[0].Title)
	assert.Equal(t, "quarterly", tasks[0].Description)
	assert.True(t, tasks[0].Completed)
	assert.NotNil(t, tasks[0].CompletedAt)
	// ID 2 was deleted but the counter comes from the max surviving id.
	assert.Equal(t, 2, reloaded.NextID())
}

func TestRepository_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks_data.json")
	require.NoError(t, os.WriteFile(path, []byte("not valid json"), 0o600))
	logger := testutil.NewMockLogger()

	repo := Open(jsonstore.New(path, logger), nil, logger)

	assert.Empty(t, repo.ListAll())
	assert.Equal(t, 1, repo.NextID())
	assert.NotEmpty(t, logger.Entries("WARN"))

	// The next save replaces the corrupt content.
	_, err := repo.Create("fresh", "")
	require.NoError(t, err)
	reloaded := Open(jsonstore.New(path, nil), nil, nil)
	assert.Len(t, reloaded.ListAll(), 1)
}

func ids(tasks []*domain.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
