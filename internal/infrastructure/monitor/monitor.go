package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taskkeeper/backend/repository/bolt"
	"github.com/taskkeeper/backend/usecase/tasks"
)

// Monitor periodically probes the snapshot file and records the store state
// for the health endpoint.
type Monitor struct {
	snapshots *bolt.SnapshotStore
	store     *tasks.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(snapshots *bolt.SnapshotStore, store *tasks.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		snapshots: snapshots,
		store:     store,
		interval:  interval,
		stopCh:    make(chan struct{}),
		logger:    logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Snapshot
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		Snapshot:  m.checkSnapshot(),
		LastCheck: time.Now(),
	}
	if m.snapshots != nil {
		st := m.snapshots.Stats()
		status.PageCount = int(st.TxStats.GetPageCount())
	}
	if m.store != nil {
		status.Store = string(m.store.State())
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkSnapshot() bool {
	if m.snapshots == nil {
		return false
	}
	if err := m.snapshots.Ping(); err != nil {
		m.logger.Warn("snapshot store check failed", zap.Error(err))
		return false
	}
	return true
}
