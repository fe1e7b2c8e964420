package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/repository/memory"
)

func TestUserRepository_SeedsDemoUser(t *testing.T) {
	repo := memory.NewUserRepository()

	user, err := repo.GetByEmail(context.Background(), "User@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", user.Name)

	same, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, same.Email)
}

func TestUserRepository_CreateRejectsDuplicates(t *testing.T) {
	repo := memory.NewUserRepository()

	err := repo.Create(context.Background(), &domain.User{Email: "USER@example.com", Name: "Clone"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	fresh := &domain.User{Email: "fresh@example.com", Name: "Fresh"}
	require.NoError(t, repo.Create(context.Background(), fresh))
	assert.NotEmpty(t, fresh.ID)
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: "u1"}
	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.UserID)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_PruneExpired(t *testing.T) {
	repo := memory.NewSessionRepository(time.Hour)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Save(ctx, &domain.Session{
		ID: "dead", UserID: "u1",
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Save(ctx, &domain.Session{
		ID: "live", UserID: "u1",
		CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))

	assert.Equal(t, 1, repo.PruneExpired(ctx))

	_, err := repo.Get(ctx, "dead")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = repo.Get(ctx, "live")
	assert.NoError(t, err)
}
