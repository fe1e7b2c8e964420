package memory

import (
	"context"
	"sync"
	"time"

	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/repository"
)

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	ttl      time.Duration
}

// NewSessionRepository creates an in-memory session store with a default TTL
// applied when a session carries no explicit expiry.
func NewSessionRepository(ttl time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &sessionRepository{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
	}
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	copied := *session
	r.mu.Lock()
	r.sessions[copied.ID] = &copied
	r.mu.Unlock()
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

// PruneExpired drops expired sessions and returns how many were removed.
func (r *sessionRepository) PruneExpired(ctx context.Context) int {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	var pruned int
	for id, session := range r.sessions {
		if session.IsExpired(now) {
			delete(r.sessions, id)
			pruned++
		}
	}
	return pruned
}
