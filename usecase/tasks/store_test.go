package tasks_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/repository"
	"github.com/taskkeeper/backend/usecase/tasks"
)

type fakeSnapshotStore struct {
	mu      sync.Mutex
	data    map[string]repository.Snapshot
	loadErr error
	saveErr error
	saves   int
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{data: make(map[string]repository.Snapshot)}
}

func (f *fakeSnapshotStore) Load(ctx context.Context, userID string) (*repository.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	snap, ok := f.data[userID]
	if !ok {
		return nil, repository.ErrNoSnapshot
	}
	copied := snap
	return &copied, nil
}

func (f *fakeSnapshotStore) Save(ctx context.Context, userID string, snap repository.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[userID] = snap
	return nil
}

func (f *fakeSnapshotStore) saved(userID string) repository.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data[userID]
}

func readyStore(t *testing.T) (*tasks.Store, *fakeSnapshotStore) {
	t.Helper()
	snaps := newFakeSnapshotStore()
	store := tasks.New(snaps, nil)
	store.ActorChanged("user-1")
	require.Equal(t, tasks.StateReady, store.State())
	return store, snaps
}

func TestStore_SeedsWhenNoSnapshot(t *testing.T) {
	store, _ := readyStore(t)

	categories := store.Categories()
	require.Len(t, categories, 4)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, "#3b82f6", categories[0].Color)

	taskList := store.Tasks()
	require.Len(t, taskList, 3)
	for _, task := range taskList {
		assert.Equal(t, "user-1", task.UserID)
		assert.False(t, task.CreatedAt.IsZero())
	}
	assert.Empty(t, store.Err())
}

func TestStore_LoadsExistingSnapshot(t *testing.T) {
	snaps := newFakeSnapshotStore()
	stored := repository.Snapshot{
		Tasks: []domain.Task{
			{ID: "t1", UserID: "user-1", Title: "stored", Priority: domain.PriorityLow, CategoryID: "c1", CreatedAt: time.Now()},
		},
		Categories: []domain.Category{{ID: "c1", Name: "Stored", Color: "#fff"}},
	}
	snaps.data["user-1"] = stored

	store := tasks.New(snaps, nil)
	store.ActorChanged("user-1")

	require.Len(t, store.Tasks(), 1)
	assert.Equal(t, "stored", store.Tasks()[0].Title)
	require.Len(t, store.Categories(), 1)
	assert.Empty(t, store.Err())
}

func TestStore_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	snaps := newFakeSnapshotStore()
	snaps.loadErr = repository.ErrSnapshotCorrupt

	store := tasks.New(snaps, nil)
	store.ActorChanged("user-1")

	assert.Equal(t, tasks.StateReady, store.State())
	assert.Len(t, store.Tasks(), 3)
	assert.NotEmpty(t, store.Err())
}

func TestStore_LogoutClearsCollections(t *testing.T) {
	store, _ := readyStore(t)
	require.NotEmpty(t, store.Tasks())

	store.ActorChanged("")

	assert.Equal(t, tasks.StateUninitialized, store.State())
	assert.Empty(t, store.Tasks())
	assert.Empty(t, store.Categories())
	assert.Empty(t, store.ActiveUser())
}

func TestStore_ActorSwitchDoesNotLeak(t *testing.T) {
	store, _ := readyStore(t)

	categoryID := store.Categories()[0].ID
	created, err := store.AddTask(context.Background(), tasks.TaskInput{
		Title:      "only mine",
		Priority:   domain.PriorityHigh,
		CategoryID: categoryID,
	})
	require.NoError(t, err)

	store.ActorChanged("")
	store.ActorChanged("user-2")

	for _, task := range store.Tasks() {
		assert.Equal(t, "user-2", task.UserID)
		assert.NotEqual(t, created.ID, task.ID)
	}
}

func TestStore_AddTask(t *testing.T) {
	store, snaps := readyStore(t)
	categoryID := store.Categories()[0].ID

	first, err := store.AddTask(context.Background(), tasks.TaskInput{
		Title:       "write report",
		Description: "quarterly numbers",
		Priority:    domain.PriorityHigh,
		CategoryID:  categoryID,
	})
	require.NoError(t, err)
	second, err := store.AddTask(context.Background(), tasks.TaskInput{
		Title:      "file report",
		Priority:   domain.PriorityLow,
		CategoryID: categoryID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "user-1", first.UserID)
	assert.Equal(t, "user-1", second.UserID)
	assert.False(t, first.Completed)

	// write-through must already hold the new tasks
	saved := snaps.saved("user-1")
	assert.Len(t, saved.Tasks, 5)
}

func TestStore_AddTaskValidation(t *testing.T) {
	store, _ := readyStore(t)
	categoryID := store.Categories()[0].ID

	tests := []struct {
		name  string
		input tasks.TaskInput
		code  domain.ErrorCode
	}{
		{
			name:  "empty title",
			input: tasks.TaskInput{Priority: domain.PriorityLow, CategoryID: categoryID},
			code:  domain.ErrCodeInvalid,
		},
		{
			name:  "unknown priority",
			input: tasks.TaskInput{Title: "x", Priority: "urgent", CategoryID: categoryID},
			code:  domain.ErrCodeInvalid,
		},
		{
			name:  "missing category",
			input: tasks.TaskInput{Title: "x", Priority: domain.PriorityLow, CategoryID: "nope"},
			code:  domain.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(store.Tasks())
			_, err := store.AddTask(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tt.code))
			assert.Len(t, store.Tasks(), before)
		})
	}
}

func TestStore_MutationsRequireActiveUser(t *testing.T) {
	store := tasks.New(newFakeSnapshotStore(), nil)

	_, err := store.AddTask(context.Background(), tasks.TaskInput{Title: "x", Priority: domain.PriorityLow})
	assert.ErrorIs(t, err, domain.ErrNoActiveUser)

	_, err = store.AddCategory(context.Background(), "Errands", "#123456")
	assert.ErrorIs(t, err, domain.ErrNoActiveUser)

	assert.ErrorIs(t, store.DeleteTask(context.Background(), "any"), domain.ErrNoActiveUser)
}

func TestStore_UpdateTaskPreservesOwnership(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	snaps := newFakeSnapshotStore()
	store := tasks.New(snaps, nil, tasks.WithClock(func() time.Time { return fixed }))
	store.ActorChanged("user-1")

	categoryID := store.Categories()[0].ID
	otherCategory := store.Categories()[1].ID
	created, err := store.AddTask(context.Background(), tasks.TaskInput{
		Title:      "original",
		Priority:   domain.PriorityMedium,
		CategoryID: categoryID,
	})
	require.NoError(t, err)

	title := "renamed"
	updated, err := store.UpdateTask(context.Background(), created.ID, tasks.TaskUpdate{
		Title:      &title,
		CategoryID: &otherCategory,
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, otherCategory, updated.CategoryID)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.UserID, updated.UserID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestStore_UpdateTaskClearsDueDate(t *testing.T) {
	store, _ := readyStore(t)

	due := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	created, err := store.AddTask(context.Background(), tasks.TaskInput{
		Title:      "dated",
		Priority:   domain.PriorityLow,
		CategoryID: store.Categories()[0].ID,
		DueDate:    &due,
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	updated, err := store.UpdateTask(context.Background(), created.ID, tasks.TaskUpdate{
		ClearDueDate: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	// an untouched update leaves the (now absent) due date absent
	title := "still dated?"
	updated, err = store.UpdateTask(context.Background(), created.ID, tasks.TaskUpdate{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	// ClearDueDate wins even when a replacement date rides along
	updated, err = store.UpdateTask(context.Background(), created.ID, tasks.TaskUpdate{
		DueDate:      &due,
		ClearDueDate: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestStore_UpdateTaskNotFound(t *testing.T) {
	store, _ := readyStore(t)
	before := store.Tasks()

	title := "ghost"
	_, err := store.UpdateTask(context.Background(), "missing-id", tasks.TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.Equal(t, before, store.Tasks())
}

func TestStore_DeleteTask(t *testing.T) {
	store, _ := readyStore(t)
	target := store.Tasks()[0]

	require.NoError(t, store.DeleteTask(context.Background(), target.ID))
	for _, task := range store.Tasks() {
		assert.NotEqual(t, target.ID, task.ID)
	}

	assert.ErrorIs(t, store.DeleteTask(context.Background(), target.ID), domain.ErrTaskNotFound)
}

func TestStore_ToggleIsItsOwnInverse(t *testing.T) {
	store, _ := readyStore(t)
	original := store.Tasks()[0]

	toggled, err := store.ToggleTaskCompletion(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, !original.Completed, toggled.Completed)

	restored, err := store.ToggleTaskCompletion(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.Completed, restored.Completed)
	assert.Equal(t, original.Title, restored.Title)
	assert.Equal(t, original.Priority, restored.Priority)
	assert.True(t, original.CreatedAt.Equal(restored.CreatedAt))

	_, err = store.ToggleTaskCompletion(context.Background(), "missing-id")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestStore_DeleteCategory(t *testing.T) {
	store, _ := readyStore(t)

	// every seed category with tasks must refuse deletion
	used := store.Tasks()[0].CategoryID
	err := store.DeleteCategory(context.Background(), used)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.Len(t, store.Categories(), 4)

	// the Personal seed category has no sample tasks
	var unused string
	for _, c := range store.Categories() {
		if len(store.TasksByCategory(c.ID)) == 0 {
			unused = c.ID
			break
		}
	}
	require.NotEmpty(t, unused)
	require.NoError(t, store.DeleteCategory(context.Background(), unused))
	assert.Len(t, store.Categories(), 3)

	assert.ErrorIs(t, store.DeleteCategory(context.Background(), unused), domain.ErrCategoryNotFound)
}

func TestStore_AddCategory(t *testing.T) {
	store, _ := readyStore(t)

	category, err := store.AddCategory(context.Background(), "Errands", "#facc15")
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)

	_, err = store.AddCategory(context.Background(), "", "#facc15")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = store.AddCategory(context.Background(), "Errands", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestStore_DerivedReads(t *testing.T) {
	store, _ := readyStore(t)

	completed := store.TasksByStatus(true)
	require.Len(t, completed, 1)
	assert.Equal(t, "Buy groceries", completed[0].Title)
	assert.Len(t, store.TasksByStatus(false), 2)

	byCategory := store.TasksByCategory(completed[0].CategoryID)
	require.Len(t, byCategory, 1)
	assert.Equal(t, completed[0].ID, byCategory[0].ID)

	assert.Len(t, store.SearchTasks("GROCERIES"), 1)
	assert.Len(t, store.SearchTasks("cardio"), 1) // matches description
	assert.Len(t, store.SearchTasks(""), 3)
	assert.Empty(t, store.SearchTasks("no such thing"))
}

func TestStore_FailedWriteKeepsMemoryState(t *testing.T) {
	store, snaps := readyStore(t)
	snaps.saveErr = assert.AnError

	categoryID := store.Categories()[0].ID
	created, err := store.AddTask(context.Background(), tasks.TaskInput{
		Title:      "survives write failure",
		Priority:   domain.PriorityLow,
		CategoryID: categoryID,
	})
	require.NoError(t, err)

	found := false
	for _, task := range store.Tasks() {
		if task.ID == created.ID {
			found = true
		}
	}
	assert.True(t, found)
}
