// Package service provides authentication business logic, delegating user
// persistence to a UserRepository and session storage to a SessionStore.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sessionworks/authgate/internal/models"
	"github.com/sessionworks/authgate/internal/password"
	"github.com/sessionworks/authgate/internal/repository"
	"github.com/sessionworks/authgate/internal/session"
)

// Sentinel errors handlers map to HTTP statuses.
var (
	// ErrValidation indicates missing required registration fields.
	ErrValidation = errors.New("username and password are required")
	// ErrUserExists indicates a registration for an already-taken username.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates an unknown username or a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound indicates the session service has no record for the id.
	ErrSessionNotFound = errors.New("session not found")
)

// UserRepository defines the persistence operations required by the service.
type UserRepository interface {
	// UserExists returns true if a user with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// CreateUser creates a new user record. Returns
	// repository.ErrDuplicateUser when the username is already taken.
	CreateUser(ctx context.Context, user models.User) error
	// FindByUsername fetches a user record, or (nil, nil) when absent.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// SessionStore defines the session-service operations required by the service.
type SessionStore interface {
	// Create stores the payload and returns an opaque session id.
	Create(ctx context.Context, payload models.SessionPayload) (string, error)
	// Get returns the JSON stored under id, or session.ErrNotFound.
	Get(ctx context.Context, id string) (json.RawMessage, error)
	// Delete removes the session stored under id.
	Delete(ctx context.Context, id string) error
}

// AuthService implements the authentication workflow by delegating to a
// UserRepository and a SessionStore. It holds no mutable state of its own.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
}

// NewAuthService constructs a new AuthService using the provided collaborators.
func NewAuthService(users UserRepository, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

// Register creates a new user record with a freshly salted password hash.
// It returns ErrValidation before any store interaction when username or
// password is empty, and ErrUserExists when the username is taken — whether
// caught by the pre-check or by the store's unique constraint.
func (s *AuthService) Register(ctx context.Context, username, pass, firstName, lastName string) error {
	if username == "" || pass == "" {
		return ErrValidation
	}

	exists, err := s.users.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return ErrUserExists
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	})
	if errors.Is(err, repository.ErrDuplicateUser) {
		// The pre-check raced with a concurrent registration; the store's
		// unique constraint is the authority.
		return ErrUserExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and creates a session for the user,
// returning the opaque session id. Unknown usernames and password
// mismatches are both reported as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, pass string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if user == nil || !password.Verify(pass, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	id, err := s.sessions.Create(ctx, models.SessionPayload{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// Logout deletes the session best-effort. Failures to reach the session
// service are swallowed: logout must always succeed for the caller.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	_ = s.sessions.Delete(ctx, sessionID)
}

// LoadSession returns the JSON payload stored for the session id.
// An unknown id is reported as ErrSessionNotFound.
func (s *AuthService) LoadSession(ctx context.Context, sessionID string) (json.RawMessage, error) {
	payload, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	return payload, nil
}
