package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/repository"
)

var (
	keyTasks      = []byte("tasks")
	keyCategories = []byte("categories")
)

// SnapshotStore persists per-user task and category snapshots in a local
// BoltDB file. Each user id owns one bucket holding two keys, so switching
// the active user can never read another user's collections.
type SnapshotStore struct {
	db *bolt.DB
}

// Open initializes the BoltDB file, creating parent directories as needed.
func Open(path string) (*SnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{db: db}, nil
}

// Load returns the stored snapshot for the user. A missing bucket or missing
// keys mean the user has never saved; unreadable payloads are reported as
// corrupt without partially applying either collection.
func (s *SnapshotStore) Load(ctx context.Context, userID string) (*repository.Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snap repository.Snapshot
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(userID))
		if b == nil {
			return repository.ErrNoSnapshot
		}
		rawTasks := b.Get(keyTasks)
		rawCategories := b.Get(keyCategories)
		if rawTasks == nil && rawCategories == nil {
			return repository.ErrNoSnapshot
		}

		var tasks []domain.Task
		var categories []domain.Category
		if rawTasks != nil {
			if err := json.Unmarshal(rawTasks, &tasks); err != nil {
				return repository.ErrSnapshotCorrupt
			}
		}
		if rawCategories != nil {
			if err := json.Unmarshal(rawCategories, &categories); err != nil {
				return repository.ErrSnapshotCorrupt
			}
		}
		snap.Tasks = tasks
		snap.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes both collections in a single transaction, replacing whatever
// was stored before.
func (s *SnapshotStore) Save(ctx context.Context, userID string, snap repository.Snapshot) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tasks, err := json.Marshal(snap.Tasks)
	if err != nil {
		return err
	}
	categories, err := json.Marshal(snap.Categories)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(userID))
		if err != nil {
			return err
		}
		if err := b.Put(keyTasks, tasks); err != nil {
			return err
		}
		return b.Put(keyCategories, categories)
	})
}

// Ping verifies the database file is still readable.
func (s *SnapshotStore) Ping() error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.View(func(tx *bolt.Tx) error { return nil })
}

// Stats exposes Bolt statistics for monitoring endpoints.
func (s *SnapshotStore) Stats() bolt.Stats {
	if s == nil || s.db == nil {
		return bolt.Stats{}
	}
	return s.db.Stats()
}

// Close closes the Bolt database.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
