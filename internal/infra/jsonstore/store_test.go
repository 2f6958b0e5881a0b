package jsonstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/testutil"
)

func TestStore_LoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing.json"), nil)

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Load() returned %d tasks, want 0", len(tasks))
	}
}

func TestStore_LoadCorrupted(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"whitespace only", "  \n\t"},
		{"not json", "not valid json"},
		{"truncated array", `[{"id": 1, "title": "a"`},
		{"object instead of array", `{"id": 1, "title": "a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeStoreFile(t, tt.content)
			store := New(path, nil)

			tasks, err := store.Load()
			if !errors.Is(err, domain.ErrStoreCorrupted) {
				t.Fatalf("Load() error = %v, want ErrStoreCorrupted", err)
			}
			if tasks != nil {
				t.Errorf("Load() tasks = %v, want nil", tasks)
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.json")
	store := New(path, nil)

	created := time.Date(2024, 2, 3, 4, 5, 6, 789000000, time.UTC)
	first, _ := domain.NewTask(1, "First", "with ünïcode", created)
	second, _ := domain.NewTask(3, "Second", "", created.Add(time.Minute))
	if err := second.MarkCompleted(created.Add(time.Hour)); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}

	if err := store.Save([]*domain.Task{first, second}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d tasks, want 2", len(got))
	}

	for i, want := range []*domain.Task{first, second} {
		if got[i].ID != want.ID {
			t.Errorf("task %d: ID = %d, want %d", i, got[i].ID, want.ID)
		}
		if got[i].Title != want.Title {
			t.Errorf("task %d: Title = %q, want %q", i, got[i].Title, want.Title)
		}
		if got[i].Description != want.Description {
			t.Errorf("task %d: Description = %q, want %q", i, got[i].Description, want.Description)
		}
		if got[i].Completed != want.Completed {
			t.Errorf("task %d: Completed = %v, want %v", i, got[i].Completed, want.Completed)
		}
		if !got[i].CreatedAt.Equal(want.CreatedAt) {
			t.Errorf("task %d: CreatedAt = %v, want %v", i, got[i].CreatedAt, want.CreatedAt)
		}
		if (got[i].CompletedAt == nil) != (want.CompletedAt == nil) {
			t.Errorf("task %d: CompletedAt = %v, want %v", i, got[i].CompletedAt, want.CompletedAt)
		} else if want.CompletedAt != nil && !got[i].CompletedAt.Equal(*want.CompletedAt) {
			t.Errorf("task %d: CompletedAt = %v, want %v", i, *got[i].CompletedAt, *want.CompletedAt)
		}
	}
}

func TestStore_SaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := New(path, nil)

	task, _ := domain.NewTask(1, "Café <b>", "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := store.Save([]*domain.Task{task}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "[\n  {") {
		t.Errorf("file is not an indented array:\n%s", text)
	}
	if !strings.Contains(text, `"title": "Café <b>"`) {
		t.Errorf("title not stored verbatim:\n%s", text)
	}
	if !strings.Contains(text, `"completed_at": null`) {
		t.Errorf("completed_at not null:\n%s", text)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestStore_SaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store := New(path, nil)

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if strings.TrimSpace(string(content)) != "[]" {
		t.Errorf("content = %q, want []", content)
	}

	tasks, err := store.Load()
	if err != nil || len(tasks) != 0 {
		t.Errorf("Load() = %v, %v; want no tasks", tasks, err)
	}
}

func TestStore_LoadSkipsInvalidRecords(t *testing.T) {
	records := []any{
		map[string]any{"id": 1, "title": "valid", "description": "", "completed": false, "created_at": "2024-01-01T00:00:00Z", "completed_at": nil},
		map[string]any{"id": 2, "title": "   "},
		map[string]any{"id": 3, "title": strings.Repeat("x", domain.MaxTitleLength+1)},
		map[string]any{"title": "no id"},
		map[string]any{"id": "four", "title": "string id"},
		map[string]any{"id": 5, "title": "bad date", "created_at": "yesterday"},
		"not an object",
		map[string]any{"id": 6, "title": "also valid"},
		map[string]any{"id": 1, "title": "duplicate id"},
		map[string]any{"id": 7, "title": "null completed", "completed": nil},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// json.Marshal renders 8.0 as 8, so float ids are spliced in as text.
	raw := strings.TrimSuffix(string(data), "]") +
		`,{"id": 8.0, "title": "float id"},{"id": 9.5, "title": "fractional id"}]`
	path := writeStoreFile(t, raw)
	logger := testutil.NewMockLogger()
	store := New(path, logger)

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []struct {
		id    int
		title string
	}{
		{1, "valid"},
		{6, "also valid"},
		{7, "null completed"},
		{8, "float id"},
	}
	if len(tasks) != len(want) {
		t.Fatalf("Load() returned %d tasks, want %d", len(tasks), len(want))
	}
	for i, w := range want {
		if tasks[i].ID != w.id || tasks[i].Title != w.title {
			t.Errorf("tasks[%d] = %v, want #%d %q", i, tasks[i], w.id, w.title)
		}
	}
	if tasks[2].Completed || tasks[2].CompletedAt != nil {
		t.Errorf("null completed should load as pending: %v", tasks[2])
	}

	warnings := logger.Entries("WARN")
	if len(warnings) != 8 {
		t.Errorf("got %d warnings, want 8: %v", len(warnings), warnings)
	}
}

func TestStore_LoadEmptyArray(t *testing.T) {
	store := New(writeStoreFile(t, "[]"), nil)

	tasks, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Load() returned %d tasks, want 0", len(tasks))
	}
}

func TestStore_SaveFailsWhenParentIsFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	store := New(filepath.Join(blocker, "tasks.json"), nil)

	if err := store.Save(nil); err == nil {
		t.Error("Save() error = nil, want error")
	}
}

func writeStoreFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write store file: %v", err)
	}
	return path
}
