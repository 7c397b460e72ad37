package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sessionworks/authgate/internal/models"
	"github.com/sessionworks/authgate/internal/password"
	"github.com/sessionworks/authgate/internal/repository"
	"github.com/sessionworks/authgate/internal/session"
)

type mockUserRepo struct {
	UserExistsFunc     func(ctx context.Context, username string) (bool, error)
	CreateUserFunc     func(ctx context.Context, user models.User) error
	FindByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserRepo) UserExists(ctx context.Context, username string) (bool, error) {
	return m.UserExistsFunc(ctx, username)
}
func (m *mockUserRepo) CreateUser(ctx context.Context, user models.User) error {
	return m.CreateUserFunc(ctx, user)
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.FindByUsernameFunc(ctx, username)
}

type mockSessionStore struct {
	CreateFunc func(ctx context.Context, payload models.SessionPayload) (string, error)
	GetFunc    func(ctx context.Context, id string) (json.RawMessage, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockSessionStore) Create(ctx context.Context, payload models.SessionPayload) (string, error) {
	return m.CreateFunc(ctx, payload)
}
func (m *mockSessionStore) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return m.GetFunc(ctx, id)
}
func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func TestRegister_Validation(t *testing.T) {
	touched := false
	repo := &mockUserRepo{
		UserExistsFunc: func(ctx context.Context, username string) (bool, error) {
			touched = true
			return false, nil
		},
	}
	svc := NewAuthService(repo, &mockSessionStore{})

	for _, tc := range []struct{ username, pass string }{
		{"", "p"},
		{"alice", ""},
		{"", ""},
	} {
		if err := svc.Register(context.Background(), tc.username, tc.pass, "A", "B"); !errors.Is(err, ErrValidation) {
			t.Errorf("Register(%q, %q) = %v; want ErrValidation", tc.username, tc.pass, err)
		}
	}
	if touched {
		t.Error("expected no store interaction for invalid input")
	}
}

func TestRegister_UserExists(t *testing.T) {
	repo := &mockUserRepo{
		UserExistsFunc: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAuthService(repo, &mockSessionStore{})

	if err := svc.Register(context.Background(), "alice", "p", "A", "B"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("Register = %v; want ErrUserExists", err)
	}
}

func TestRegister_Success(t *testing.T) {
	var created models.User
	repo := &mockUserRepo{
		UserExistsFunc: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
		CreateUserFunc: func(ctx context.Context, user models.User) error {
			created = user
			return nil
		},
	}
	svc := NewAuthService(repo, &mockSessionStore{})

	if err := svc.Register(context.Background(), "alice", "p", "Alice", "Doe"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created.Username != "alice" || created.FirstName != "Alice" || created.LastName != "Doe" {
		t.Errorf("unexpected record created: %+v", created)
	}
	if created.PasswordHash == "p" || created.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if !password.Verify("p", created.PasswordHash) {
		t.Error("stored hash must verify against the original password")
	}
}

func TestRegister_InsertConflictWinsOverRacedCheck(t *testing.T) {
	repo := &mockUserRepo{
		UserExistsFunc: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
		CreateUserFunc: func(ctx context.Context, user models.User) error {
			return repository.ErrDuplicateUser
		},
	}
	svc := NewAuthService(repo, &mockSessionStore{})

	if err := svc.Register(context.Background(), "alice", "p", "A", "B"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("Register = %v; want ErrUserExists from the unique constraint", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, nil
		},
	}
	svc := NewAuthService(repo, &mockSessionStore{})

	if _, err := svc.Login(context.Background(), "ghost", "p"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := password.Hash("right")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo, &mockSessionStore{})

	if _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := password.Hash("p")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: "alice", PasswordHash: hash, FirstName: "Alice", LastName: "Doe"}, nil
		},
	}
	var gotPayload models.SessionPayload
	store := &mockSessionStore{
		CreateFunc: func(ctx context.Context, payload models.SessionPayload) (string, error) {
			gotPayload = payload
			return "sess-1", nil
		},
	}
	svc := NewAuthService(repo, store)

	id, err := svc.Login(context.Background(), "alice", "p")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if id != "sess-1" {
		t.Errorf("Login id = %q; want %q", id, "sess-1")
	}
	want := models.SessionPayload{Username: "alice", FirstName: "Alice", LastName: "Doe"}
	if gotPayload != want {
		t.Errorf("session payload = %+v; want %+v", gotPayload, want)
	}
}

func TestLogin_SessionCreateFailure(t *testing.T) {
	hash, err := password.Hash("p")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	repo := &mockUserRepo{
		FindByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: "alice", PasswordHash: hash}, nil
		},
	}
	store := &mockSessionStore{
		CreateFunc: func(ctx context.Context, payload models.SessionPayload) (string, error) {
			return "", errors.New("service unavailable")
		},
	}
	svc := NewAuthService(repo, store)

	_, err = svc.Login(context.Background(), "alice", "p")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login = %v; want a non-credential error", err)
	}
}

func TestLogout_SwallowsDeleteError(t *testing.T) {
	called := false
	store := &mockSessionStore{
		DeleteFunc: func(ctx context.Context, id string) error {
			called = true
			return errors.New("service unavailable")
		},
	}
	svc := NewAuthService(&mockUserRepo{}, store)

	svc.Logout(context.Background(), "sess-1")
	if !called {
		t.Error("expected Delete to be called")
	}
}

func TestLogout_SkipsEmptyID(t *testing.T) {
	store := &mockSessionStore{
		DeleteFunc: func(ctx context.Context, id string) error {
			t.Error("Delete must not be called without a session id")
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, store)

	svc.Logout(context.Background(), "")
}

func TestLoadSession(t *testing.T) {
	payload := json.RawMessage(`{"username":"alice"}`)
	store := &mockSessionStore{
		GetFunc: func(ctx context.Context, id string) (json.RawMessage, error) {
			switch id {
			case "known":
				return payload, nil
			case "missing":
				return nil, session.ErrNotFound
			default:
				return nil, errors.New("service unavailable")
			}
		},
	}
	svc := NewAuthService(&mockUserRepo{}, store)

	got, err := svc.LoadSession(context.Background(), "known")
	if err != nil {
		t.Fatalf("LoadSession returned error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("LoadSession = %s; want %s", got, payload)
	}

	if _, err := svc.LoadSession(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LoadSession(missing) = %v; want ErrSessionNotFound", err)
	}

	if _, err := svc.LoadSession(context.Background(), "broken"); err == nil || errors.Is(err, ErrSessionNotFound) {
		t.Errorf("LoadSession(broken) = %v; want a non-not-found error", err)
	}
}
