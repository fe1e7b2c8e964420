package repository

import (
	"context"
	"errors"

	"github.com/taskkeeper/backend/domain"
)

// ErrNoSnapshot signals that no snapshot has ever been written for the user.
// A present-but-unparseable snapshot is reported separately so the caller can
// tell "first run" apart from "stored data lost".
var (
	ErrNoSnapshot      = errors.New("no snapshot stored")
	ErrSnapshotCorrupt = errors.New("stored snapshot is unreadable")
)

// Snapshot is the full persisted state for one user.
type Snapshot struct {
	Tasks      []domain.Task     `json:"tasks"`
	Categories []domain.Category `json:"categories"`
}

// SnapshotStore mirrors the in-memory collections to durable local storage.
// Save must apply both collections atomically or not at all.
type SnapshotStore interface {
	Load(ctx context.Context, userID string) (*Snapshot, error)
	Save(ctx context.Context, userID string, snap Snapshot) error
}
