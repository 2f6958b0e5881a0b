// Package domain contains core business entities and interfaces.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters in a task title.
const MaxTitleLength = 200

// Task represents a single to-do item.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt   time.Time  // Set once at construction
	CompletedAt *time.Time // Set iff Completed
	Title       string     // Trimmed, 1..MaxTitleLength characters
	Description string     // Free text (optional)
	ID          int        // Sequential, never reused
	Completed   bool
}

// NewTask builds a validated task. A zero createdAt is replaced by the
// current time.
func NewTask(id int, title, description string, createdAt time.Time) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &Task{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Description: description,
		CreatedAt:   createdAt,
	}, nil
}

// ValidateTitle checks that title is non-blank and at most MaxTitleLength
// characters once surrounding whitespace is removed.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return InvalidDataf("task title cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxTitleLength {
		return InvalidDataf("task title cannot exceed %d characters", MaxTitleLength)
	}
	return nil
}

// MarkCompleted transitions a pending task to completed.
// Completing a task twice is an error, never a silent no-op.
func (t *Task) MarkCompleted(now time.Time) error {
	if t.Completed {
		return AlreadyCompletedf("task #%d is already completed", t.ID)
	}
	t.Completed = true
	t.CompletedAt = &now
	return nil
}

// MarkPending transitions the task back to pending. It is idempotent.
func (t *Task) MarkPending() {
	t.Completed = false
	t.CompletedAt = nil
}

// Clone returns an independent copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	return &c
}

// String returns a short human-readable form, e.g. "#3 ✓ Write docs".
func (t *Task) String() string {
	mark := "○"
	if t.Completed {
		mark = "✓"
	}
	return fmt.Sprintf("#%d %s %s", t.ID, mark, t.Title)
}

// taskJSON is the persisted and API representation of a task.
// Timestamps are strings so that legacy offset-less values can be parsed.
type taskJSON struct {
	CreatedAt   *string `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
	Title       *string `json:"title"`
	Description string  `json:"description"`
	ID          int     `json:"id"`
	Completed   bool    `json:"completed"`
}

// taskRecord is the decoding side of taskJSON. It accepts integral
// floating ids such as 2.0 and a null completed flag.
type taskRecord struct {
	CreatedAt   *string     `json:"created_at"`
	CompletedAt *string     `json:"completed_at"`
	Title       *string     `json:"title"`
	Completed   *bool       `json:"completed"`
	Description string      `json:"description"`
	ID          json.Number `json:"id"`
}

// MarshalJSON renders the six-key task shape shared by the store and the API.
func (t *Task) MarshalJSON() ([]byte, error) {
	created := FormatTimestamp(t.CreatedAt)
	title := t.Title
	out := taskJSON{
		ID:          t.ID,
		Title:       &title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   &created,
	}
	if t.CompletedAt != nil {
		completed := FormatTimestamp(*t.CompletedAt)
		out.CompletedAt = &completed
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON rehydrates a task, applying the same validation as NewTask.
func (t *Task) UnmarshalJSON(data []byte) error {
	var in taskRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return InvalidDataf("decode task: %v", err)
	}
	if in.Title == nil {
		return InvalidDataf("task record has no title")
	}
	id, err := parseRecordID(in.ID)
	if err != nil {
		return err
	}

	var createdAt time.Time
	if in.CreatedAt != nil && *in.CreatedAt != "" {
		parsed, err := ParseTimestamp(*in.CreatedAt)
		if err != nil {
			return err
		}
		createdAt = parsed
	}

	task, err := NewTask(id, *in.Title, in.Description, createdAt)
	if err != nil {
		return err
	}

	if in.CompletedAt != nil && *in.CompletedAt != "" {
		parsed, err := ParseTimestamp(*in.CompletedAt)
		if err != nil {
			return err
		}
		task.CompletedAt = &parsed
	}
	task.Completed = in.Completed != nil && *in.Completed

	// Keep CompletedAt present iff Completed.
	if task.Completed && task.CompletedAt == nil {
		now := time.Now()
		task.CompletedAt = &now
	}
	if !task.Completed {
		task.CompletedAt = nil
	}

	*t = *task
	return nil
}

// parseRecordID converts a stored id to int. Integral floats are accepted;
// an absent id decodes as 0.
func parseRecordID(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	if id, err := n.Int64(); err == nil {
		return int(id), nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, InvalidDataf("task id %s is not an integer", n)
	}
	return int(f), nil
}

// timestampLayouts are tried in order when parsing stored timestamps.
// The offset-less layouts cover files written by older deployments.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders t as ISO-8601 with fractional seconds.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without an offset are
// interpreted in local time.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, InvalidDataf("invalid timestamp %q", s)
}
