package domain

import "strings"

// TaskFilter selects tasks by completion state.
type TaskFilter string

// Task filters.
const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter maps a query value to a filter. Unknown or empty values
// select all tasks.
func ParseTaskFilter(s string) TaskFilter {
	switch TaskFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterPending:
		return FilterPending
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Next returns the filter after f in the cycle all, pending, completed.
func (f TaskFilter) Next() TaskFilter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether task passes the filter.
func (f TaskFilter) Matches(task *Task) bool {
	switch f {
	case FilterPending:
		return !task.Completed
	case FilterCompleted:
		return task.Completed
	default:
		return true
	}
}
