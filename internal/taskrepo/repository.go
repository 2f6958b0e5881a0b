// Package taskrepo holds the in-memory task collection and keeps it in sync
// with a TaskCodec.
package taskrepo

import (
	"fmt"
	"strings"

	"github.com/runoshun/tasklist/internal/domain"
)

const logCategory = "store"

// Option configures a Repository.
type Option func(*Repository)

// WithStrictPersistence makes mutations return a PersistenceFailed error
// when the collection cannot be saved. The mutation still applies in memory.
func WithStrictPersistence(strict bool) Option {
	return func(r *Repository) {
		r.strict = strict
	}
}

// Repository implements domain.TaskRepository over an ordered slice.
// It is not safe for concurrent use.
// Fields are ordered to minimize memory padding.
type Repository struct {
	codec  domain.TaskCodec
	clock  domain.Clock
	logger domain.Logger
	tasks  []*domain.Task
	nextID int
	strict bool
}

// Ensure Repository implements TaskRepository.
var _ domain.TaskRepository = (*Repository)(nil)

// Open creates a Repository and loads the collection through codec.
// Load failures never fail Open: the repository starts empty and the
// failure is logged.
func Open(codec domain.TaskCodec, clock domain.Clock, logger domain.Logger, opts ...Option) *Repository {
	if clock == nil {
		clock = domain.RealClock{}
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	r := &Repository{
		codec:  codec,
		clock:  clock,
		logger: logger,
		nextID: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.load()
	return r
}

func (r *Repository) load() {
	tasks, err := r.codec.Load()
	if err != nil {
		r.logger.Warn(0, logCategory, fmt.Sprintf("could not load tasks, starting empty: %v", err))
		return
	}
	r.tasks = tasks
	for _, t := range tasks {
		if t.ID >= r.nextID {
			r.nextID = t.ID + 1
		}
	}
	r.logger.Debug(0, logCategory, fmt.Sprintf("loaded %d tasks, next id %d", len(tasks), r.nextID))
}

// save writes the full collection. Failures are logged; in strict mode they
// are also returned.
func (r *Repository) save() error {
	if err := r.codec.Save(r.tasks); err != nil {
		r.logger.Warn(0, logCategory, fmt.Sprintf("could not save tasks: %v", err))
		if r.strict {
			return domain.PersistenceFailedf(err, "failed to persist tasks")
		}
	}
	return nil
}

// NextID reports the id the next created task will receive.
func (r *Repository) NextID() int {
	return r.nextID
}

// Create validates and appends a new task.
func (r *Repository) Create(title, description string) (*domain.Task, error) {
	task, err := domain.NewTask(r.nextID, title, description, r.clock.Now())
	if err != nil {
		return nil, err
	}
	r.tasks = append(r.tasks, task)
	r.nextID++
	return task.Clone(), r.save()
}

func (r *Repository) indexOf(id int) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) find(id int) (*domain.Task, error) {
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.NotFoundf("task with ID %d not found", id)
	}
	return r.tasks[i], nil
}

// Get returns a copy of the task with the given ID.
func (r *Repository) Get(id int) (*domain.Task, error) {
	task, err := r.find(id)
	if err != nil {
		return nil, err
	}
	return task.Clone(), nil
}

// ListAll returns copies of every task in insertion order.
func (r *Repository) ListAll() []*domain.Task {
	return r.filter(func(*domain.Task) bool { return true })
}

// ListPending returns copies of the pending tasks.
func (r *Repository) ListPending() []*domain.Task {
	return r.filter(func(t *domain.Task) bool { return !t.Completed })
}

// ListCompleted returns copies of the completed tasks.
func (r *Repository) ListCompleted() []*domain.Task {
	return r.filter(func(t *domain.Task) bool { return t.Completed })
}

func (r *Repository) filter(keep func(*domain.Task) bool) []*domain.Task {
	out := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Complete marks a pending task as completed.
func (r *Repository) Complete(id int) (*domain.Task, error) {
	task, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if err := task.MarkCompleted(r.clock.Now()); err != nil {
		return nil, err
	}
	return task.Clone(), r.save()
}

// Reopen marks a completed task as pending. A pending task is returned
// unchanged and nothing is written.
func (r *Repository) Reopen(id int) (*domain.Task, error) {
	task, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if !task.Completed {
		return task.Clone(), nil
	}
	task.MarkPending()
	return task.Clone(), r.save()
}

// Update replaces the supplied fields. An invalid title leaves the task
// untouched.
func (r *Repository) Update(id int, fields domain.UpdateFields) (*domain.Task, error) {
	task, err := r.find(id)
	if err != nil {
		return nil, err
	}
	if fields.Title != nil {
		if err := domain.ValidateTitle(*fields.Title); err != nil {
			return nil, err
		}
		task.Title = strings.TrimSpace(*fields.Title)
	}
	if fields.Description != nil {
		task.Description = *fields.Description
	}
	return task.Clone(), r.save()
}

// Delete removes a task. Its ID is not reissued by this repository.
func (r *Repository) Delete(id int) error {
	i := r.indexOf(id)
	if i < 0 {
		return domain.NotFoundf("task with ID %d not found", id)
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return r.save()
}

// Statistics summarizes the collection.
func (r *Repository) Statistics() domain.Statistics {
	return domain.ComputeStatistics(r.tasks)
}
