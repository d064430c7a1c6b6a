package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

// Session storage keys
const (
	KeyUsers         = "users"
	sessionKeyPrefix = "session:"
)

// DefaultSessionTTL applies when no TTL is configured
const DefaultSessionTTL = 12 * time.Hour

// SessionService handles agent accounts and login sessions
type SessionService interface {
	HasUsers(ctx context.Context) bool
	Register(ctx context.Context, req *RegisterRequest) (*UserResult, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
	EnsureUser(ctx context.Context, username, password string) error
}

type sessionService struct {
	mu     sync.Mutex
	store  store.Store
	clock  clock.Clock
	ttl    time.Duration
	cost   int
	logger *slog.Logger
}

// NewSessionService creates a session service. ttl <= 0 uses DefaultSessionTTL.
func NewSessionService(kv store.Store, c clock.Clock, ttl time.Duration, logger *slog.Logger) SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &sessionService{
		store:  kv,
		clock:  c,
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		logger: logger,
	}
}

func (s *sessionService) loadUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := store.GetJSON(ctx, s.store, KeyUsers, &users)
	if errors.Is(err, store.ErrNotFound) {
		return []models.User{}, nil
	}
	if err != nil {
		return nil, err
	}
	return users, nil
}

// HasUsers reports whether any account exists. An unreadable account list
// counts as non-empty so registration stays closed.
func (s *sessionService) HasUsers(ctx context.Context) bool {
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.logger.Warn("failed to read accounts", slog.String("error", err.Error()))
		return true
	}
	return len(users) > 0
}

// Register creates an account with a bcrypt-hashed password
func (s *sessionService) Register(ctx context.Context, req *RegisterRequest) (*UserResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, models.ErrStorageWithMsg("failed to read accounts", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Username, username) {
			return nil, models.ErrConflictWithMsg(fmt.Sprintf("user %q already exists", username))
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}
	users = append(users, user)

	if err := store.SetJSON(ctx, s.store, KeyUsers, users, 0); err != nil {
		s.logger.Error("failed to save account",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, models.ErrStorageWithMsg("failed to save account", err)
	}

	s.logger.Info("user registered", slog.String("username", username))

	return &UserResult{Username: user.Username, CreatedAt: user.CreatedAt}, nil
}

// EnsureUser creates the account when it does not exist yet
func (s *sessionService) EnsureUser(ctx context.Context, username, password string) error {
	_, err := s.Register(ctx, &RegisterRequest{Username: username, Password: password})
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeConflict {
		return nil
	}
	return err
}

// Login checks the credentials and opens a session
func (s *sessionService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	users, err := s.loadUsers(ctx)
	if err != nil {
		return nil, models.ErrStorageWithMsg("failed to read accounts", err)
	}

	var user *models.User
	for i := range users {
		if strings.EqualFold(users[i].Username, username) {
			user = &users[i]
			break
		}
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("login rejected", slog.String("username", username))
		return nil, models.ErrUnauthorizedWithMsg("invalid username or password")
	}

	session := models.Session{
		Token:     uuid.NewString(),
		Username:  user.Username,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	if err := store.SetJSON(ctx, s.store, sessionKeyPrefix+session.Token, session, s.ttl); err != nil {
		return nil, models.ErrStorageWithMsg("failed to save session", err)
	}

	s.logger.Info("user logged in", slog.String("username", user.Username))

	return &LoginResult{
		Token:     session.Token,
		Username:  session.Username,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout ends the session; unknown tokens are ignored
func (s *sessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return models.ErrUnauthorizedWithMsg("session token is required")
	}
	if err := s.store.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return models.ErrStorageWithMsg("failed to end session", err)
	}
	return nil
}

// Authenticate returns the active session for token
func (s *sessionService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrUnauthorizedWithMsg("session token is required")
	}

	var session models.Session
	if err := store.GetJSON(ctx, s.store, sessionKeyPrefix+token, &session); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read session", slog.String("error", err.Error()))
		}
		return nil, models.ErrUnauthorizedWithMsg("no active session")
	}

	if !session.Active(s.clock.Now()) {
		return nil, models.ErrUnauthorizedWithMsg("session expired")
	}

	return &session, nil
}
