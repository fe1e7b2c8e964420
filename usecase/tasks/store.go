package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/repository"
)

// State tracks the store lifecycle for the active actor.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
)

// TaskInput carries the caller-settable fields for a new task. The id,
// creation time and owner are stamped by the store.
type TaskInput struct {
	Title       string
	Description string
	Completed   bool
	Priority    domain.Priority
	CategoryID  string
	DueDate     *time.Time
}

// TaskUpdate is a partial merge over an existing task. Nil fields are left
// untouched; ClearDueDate removes the due date and wins over DueDate. There
// is deliberately no way to change id, created_at or the owning user.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *domain.Priority
	CategoryID   *string
	DueDate      *time.Time
	ClearDueDate bool
}

// Store owns the canonical in-memory task and category collections for the
// active actor and mirrors every change to the snapshot store. The snapshot
// dependency is injected so tests can observe or fail the write-through.
type Store struct {
	snapshots repository.SnapshotStore
	logger    *zap.Logger
	now       func() time.Time

	mu         sync.RWMutex
	state      State
	userID     string
	tasks      []domain.Task
	categories []domain.Category
	loadErr    string
}

// Option tweaks store construction.
type Option func(*Store)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds an uninitialized store. Collections stay empty until an actor
// becomes active.
func New(snapshots repository.SnapshotStore, logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
		state:     StateUninitialized,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActorChanged reacts to the session provider: a non-empty id loads that
// actor's collections, an empty id clears them. Loading a missing snapshot
// falls back to the seed data; an unreadable snapshot does the same but is
// surfaced through Err.
func (s *Store) ActorChanged(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if userID == "" {
		s.state = StateUninitialized
		s.userID = ""
		s.tasks = nil
		s.categories = nil
		s.loadErr = ""
		return
	}
	if s.state == StateReady && s.userID == userID {
		return
	}

	s.state = StateLoading
	s.userID = userID
	s.loadErr = ""

	snap, err := s.snapshots.Load(context.Background(), userID)
	switch {
	case err == nil:
		s.tasks = append([]domain.Task(nil), snap.Tasks...)
		s.categories = append([]domain.Category(nil), snap.Categories...)
	case errors.Is(err, repository.ErrNoSnapshot):
		s.seed(userID)
	default:
		s.logger.Warn("snapshot load failed, using defaults",
			zap.String("user_id", userID), zap.Error(err))
		s.seed(userID)
		s.loadErr = "failed to load stored tasks"
	}
	s.state = StateReady
}

func (s *Store) seed(userID string) {
	now := s.now()
	s.categories = defaultCategories()
	s.tasks = sampleTasks(userID, s.categories, now)
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether the initial load is still in progress.
func (s *Store) Loading() bool {
	return s.State() == StateLoading
}

// Err returns the non-fatal load error, if any.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// ActiveUser returns the id of the actor whose collections are loaded.
func (s *Store) ActiveUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Tasks returns a copy of the task collection in insertion order.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Task(nil), s.tasks...)
}

// Categories returns a copy of the category collection in insertion order.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

// AddTask creates a task owned by the active actor.
func (s *Store) AddTask(ctx context.Context, input TaskInput) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, domain.ErrNoActiveUser
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
	}
	if !input.Priority.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown priority")
	}
	if s.findCategory(input.CategoryID) < 0 {
		return nil, domain.ErrCategoryNotFound
	}

	task := domain.Task{
		ID:          uuid.NewString(),
		UserID:      s.userID,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		CategoryID:  input.CategoryID,
		DueDate:     input.DueDate,
		CreatedAt:   s.now(),
	}
	s.tasks = append(s.tasks, task)
	s.persist(ctx)
	return &task, nil
}

// UpdateTask merges the partial update over the task with the given id.
// The id, creation time and owner are preserved regardless of the payload.
func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, domain.ErrNoActiveUser
	}
	idx := s.findTask(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	if update.CategoryID != nil && s.findCategory(*update.CategoryID) < 0 {
		return nil, domain.ErrCategoryNotFound
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown priority")
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task title is required")
	}

	task := &s.tasks[idx]
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.CategoryID != nil {
		task.CategoryID = *update.CategoryID
	}
	if update.ClearDueDate {
		task.DueDate = nil
	} else if update.DueDate != nil {
		task.DueDate = update.DueDate
	}

	s.persist(ctx)
	copied := *task
	return &copied, nil
}

// DeleteTask removes the task with the given id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return domain.ErrNoActiveUser
	}
	idx := s.findTask(id)
	if idx < 0 {
		return domain.ErrTaskNotFound
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.persist(ctx)
	return nil
}

// ToggleTaskCompletion flips the completed flag on the task with the given id.
func (s *Store) ToggleTaskCompletion(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, domain.ErrNoActiveUser
	}
	idx := s.findTask(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	s.persist(ctx)
	copied := s.tasks[idx]
	return &copied, nil
}

// AddCategory creates a new category.
func (s *Store) AddCategory(ctx context.Context, name, color string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, domain.ErrNoActiveUser
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "category name is required")
	}
	if strings.TrimSpace(color) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "category color is required")
	}

	category := domain.Category{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
	}
	s.categories = append(s.categories, category)
	s.persist(ctx)
	return &category, nil
}

// DeleteCategory removes a category unless any task still references it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return domain.ErrNoActiveUser
	}
	idx := s.findCategory(id)
	if idx < 0 {
		return domain.ErrCategoryNotFound
	}
	for i := range s.tasks {
		if s.tasks[i].CategoryID == id {
			return domain.ErrCategoryInUse
		}
	}
	s.categories = append(s.categories[:idx], s.categories[idx+1:]...)
	s.persist(ctx)
	return nil
}

// TasksByCategory returns the tasks referencing the category, in insertion order.
func (s *Store) TasksByCategory(categoryID string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if t.CategoryID == categoryID {
			out = append(out, t)
		}
	}
	return out
}

// TasksByStatus returns the tasks whose completed flag matches.
func (s *Store) TasksByStatus(completed bool) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Task
	for _, t := range s.tasks {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// SearchTasks returns tasks whose title or description contains the query,
// case-insensitively. An empty query matches everything.
func (s *Store) SearchTasks(query string) []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []domain.Task
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			out = append(out, t)
		}
	}
	return out
}

// persist writes the current collections through to the snapshot store.
// Writes are best-effort: a failure is logged and the in-memory state stays
// authoritative for the session. Called with the write lock held so the
// snapshot always reflects the mutation that triggered it.
func (s *Store) persist(ctx context.Context) {
	snap := repository.Snapshot{
		Tasks:      append([]domain.Task(nil), s.tasks...),
		Categories: append([]domain.Category(nil), s.categories...),
	}
	if err := s.snapshots.Save(ctx, s.userID, snap); err != nil {
		s.logger.Warn("snapshot write failed",
			zap.String("user_id", s.userID), zap.Error(err))
	}
}

func (s *Store) findTask(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findCategory(id string) int {
	for i := range s.categories {
		if s.categories[i].ID == id {
			return i
		}
	}
	return -1
}
