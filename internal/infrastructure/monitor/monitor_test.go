package monitor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boltRepo "github.com/taskkeeper/backend/repository/bolt"
	"github.com/taskkeeper/backend/usecase/tasks"
)

func TestMonitor_Refresh(t *testing.T) {
	snapshots, err := boltRepo.Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { snapshots.Close() })

	store := tasks.New(snapshots, nil)
	store.ActorChanged("user-1")

	m := New(snapshots, store, time.Minute, nil)
	m.refresh()

	status := m.GetStatus()
	assert.True(t, status.Snapshot)
	assert.GreaterOrEqual(t, status.PageCount, 0)
	assert.Equal(t, string(tasks.StateReady), status.Store)
	assert.False(t, status.LastCheck.IsZero())
	assert.True(t, m.IsOnline())
}

func TestMonitor_ReportsOfflineWithoutSnapshotStore(t *testing.T) {
	m := New(nil, nil, time.Minute, nil)
	m.refresh()

	status := m.GetStatus()
	assert.False(t, status.Snapshot)
	assert.False(t, m.IsOnline())
}
