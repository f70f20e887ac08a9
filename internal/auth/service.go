package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"spendtrack/internal/cache"
	"spendtrack/internal/core"
	applog "spendtrack/internal/log"
)

var (
	// ErrInvalidCredentials covers bad username/password pairs and unknown
	// or expired tokens. Login and Authenticate never reveal which part
	// failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

const (
	minPasswordLen = 8
	maxUsernameLen = 64

	// cached token entries are refreshed from the database at least this
	// often, so a server-side logout on another node is picked up quickly
	sessionCacheTTL = 5 * time.Minute
)

// Store is the persistence surface the service needs.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (core.User, error)
	FindUserByName(ctx context.Context, username string) (core.User, error)
	CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error
	FindSessionUser(ctx context.Context, token string, now time.Time) (int64, time.Time, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service handles registration, login and token resolution. Tokens are
// opaque, stored server side, and cached in memory on the hot path.
type Service struct {
	store      Store
	sessions   *cache.LRUCache[int64]
	sessionTTL time.Duration
	bcryptCost int
}

func NewService(store Store, cacheSize int, sessionTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		store:      store,
		sessions:   cache.NewLRUCache[int64](cacheSize, sessionCacheTTL),
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// SessionCache exposes the token cache for cleanup registration.
func (s *Service) SessionCache() *cache.LRUCache[int64] {
	return s.sessions
}

// Register creates an account. A taken username surfaces as
// core.ErrNameConflict.
func (s *Service) Register(ctx context.Context, username, password string) (core.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		return core.User{}, ErrUsernameRequired
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return core.User{}, ErrPasswordTooShort
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return core.User{}, err
	}

	user, err := s.store.CreateUser(ctx, username, hash)
	if err != nil {
		return core.User{}, err
	}

	applog.FromContext(ctx).WithComponent(applog.ComponentAuth).
		InfoContext(ctx, "user registered", applog.FieldUserID, user.ID)
	return user, nil
}

// Login verifies the password and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, core.User, error) {
	user, err := s.store.FindUserByName(ctx, strings.TrimSpace(username))
	if errors.Is(err, core.ErrNotFound) {
		return "", core.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", core.User{}, err
	}
	if !CheckPassword(password, user.PasswordHash) {
		return "", core.User{}, ErrInvalidCredentials
	}

	token, err := GenerateSessionToken()
	if err != nil {
		return "", core.User{}, err
	}

	expiresAt := time.Now().Add(s.sessionTTL)
	if err := s.store.CreateSession(ctx, token, user.ID, expiresAt); err != nil {
		return "", core.User{}, err
	}
	s.sessions.SetUntil(token, user.ID, expiresAt)

	applog.FromContext(ctx).WithComponent(applog.ComponentAuth).
		InfoContext(ctx, "user logged in", applog.FieldUserID, user.ID)
	return token, user, nil
}

// Logout revokes a token everywhere. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	s.sessions.Delete(token)
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to a user id. Unknown and expired
// tokens are ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidCredentials
	}
	if userID, ok := s.sessions.Get(token); ok {
		return userID, nil
	}

	userID, expiresAt, err := s.store.FindSessionUser(ctx, token, time.Now())
	if errors.Is(err, core.ErrNotFound) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, err
	}

	s.sessions.SetUntil(token, userID, expiresAt)
	return userID, nil
}
