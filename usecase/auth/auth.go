package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskkeeper/backend/domain"
	"github.com/taskkeeper/backend/repository"
)

// ActorListener is notified whenever the signed-in actor changes. An empty
// user id means signed out. The interface is deliberately this narrow so the
// mock identity flow can be swapped for a real backend without touching
// subscribers.
type ActorListener interface {
	ActorChanged(userID string)
}

// Config carries token and session settings.
type Config struct {
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration
}

// Result is returned by Login and Signup.
type Result struct {
	User    *domain.User    `json:"user"`
	Session *domain.Session `json:"-"`
	Token   string          `json:"token"`
}

type UseCase struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	logger    *zap.Logger
	cfg       Config
	listeners []ActorListener
}

func New(users repository.UserRepository, sessions repository.SessionRepository, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		logger:   logger,
		cfg:      cfg,
	}
}

// Subscribe registers a listener for actor changes. Must be called during
// wiring, before requests are served.
func (uc *UseCase) Subscribe(listener ActorListener) {
	if listener != nil {
		uc.listeners = append(uc.listeners, listener)
	}
}

// Login checks credentials against the user directory and opens a session.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.openSession(ctx, user)
}

// Signup registers a new user and signs them in.
func (uc *UseCase) Signup(ctx context.Context, email, password, name string) (*Result, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "email and name are required")
	}
	if len(password) < 6 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.openSession(ctx, user)
}

// Logout closes the session and signs the actor out.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if _, err := uc.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.notify("")
	return nil
}

// Me returns the signed-in user.
func (uc *UseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// ValidateSession resolves a live session by id; expired sessions are treated
// as missing.
func (uc *UseCase) ValidateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return uc.sessions.Get(ctx, sessionID)
}

func (uc *UseCase) openSession(ctx context.Context, user *domain.User) (*Result, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.cfg.SessionTTL),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, err
	}

	uc.notify(user.ID)
	uc.logger.Info("session opened", zap.String("user_id", user.ID))
	return &Result{User: user, Session: session, Token: token}, nil
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    session.UserID,
		"session_id": session.ID,
		"iss":        uc.cfg.JWTIssuer,
		"exp":        session.ExpiresAt.Unix(),
		"iat":        session.CreatedAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.cfg.JWTSecret))
}

func (uc *UseCase) notify(userID string) {
	for _, listener := range uc.listeners {
		listener.ActorChanged(userID)
	}
}
