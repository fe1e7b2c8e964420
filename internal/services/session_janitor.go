package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskkeeper/backend/repository"
)

// SessionJanitor drops expired sessions on a fixed interval so the in-memory
// session map cannot grow without bound.
type SessionJanitor struct {
	sessions repository.SessionRepository
	interval time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
}

func NewSessionJanitor(sessions repository.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionJanitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionJanitor{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (j *SessionJanitor) Start() {
	go j.loop()
}

func (j *SessionJanitor) Stop() {
	close(j.stopCh)
}

func (j *SessionJanitor) loop() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if pruned := j.sessions.PruneExpired(context.Background()); pruned > 0 {
				j.logger.Debug("expired sessions pruned", zap.Int("count", pruned))
			}
		case <-j.stopCh:
			return
		}
	}
}
