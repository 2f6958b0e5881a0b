// Package jsonstore provides a JSON file-based implementation of TaskCodec.
//
// The whole collection is stored as a single JSON array of task records and
// rewritten in full on every save.
package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/runoshun/tasklist/internal/domain"
)

//go:embed task.schema.json
var taskSchemaSource string

const taskSchemaURL = "tasklist://task.schema.json"

// Store implements domain.TaskCodec using a JSON file.
type Store struct {
	schema *jsonschema.Schema
	logger domain.Logger
	path   string
}

// Ensure Store implements TaskCodec.
var _ domain.TaskCodec = (*Store)(nil)

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first save.
func New(path string, logger domain.Logger) *Store {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Store{
		path:   path,
		logger: logger,
		schema: jsonschema.MustCompileString(taskSchemaURL, taskSchemaSource),
	}
}

// Path returns the location of the store file.
func (s *Store) Path() string {
	return s.path
}

// Load reads every valid task record from the store file.
// Records that fail the schema or entity validation are skipped with a
// warning; the rest are returned in file order.
func (s *Store) Load() ([]*domain.Task, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrStoreCorrupted)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreCorrupted, err)
	}

	tasks := make([]*domain.Task, 0, len(records))
	seen := make(map[int]bool, len(records))
	for i, raw := range records {
		task, err := s.decodeRecord(raw)
		if err != nil {
			s.logger.Warn(0, "store", fmt.Sprintf("skipping invalid task record %d: %v", i, err))
			continue
		}
		if seen[task.ID] {
			s.logger.Warn(task.ID, "store", fmt.Sprintf("skipping task record %d: duplicate id %d", i, task.ID))
			continue
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// decodeRecord validates one record against the schema, then the entity rules.
func (s *Store) decodeRecord(raw json.RawMessage) (*domain.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := s.schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// schemaError condenses a jsonschema validation error into one line.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var msgs []string
	collectSchemaMessages(ve, &msgs)
	if len(msgs) == 0 {
		return domain.InvalidDataf("%s", ve.Message)
	}
	return domain.InvalidDataf("%s", strings.Join(msgs, "; "))
}

func collectSchemaMessages(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, loc+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaMessages(cause, msgs)
	}
}

// Save writes tasks to the store file, replacing its previous content.
func (s *Store) Save(tasks []*domain.Task) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
