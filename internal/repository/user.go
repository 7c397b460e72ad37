// Package repository provides persistence implementations backed by the
// external user store.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sessionworks/authgate/internal/models"
)

// ErrDuplicateUser is returned by CreateUser when the insert hits the
// username unique constraint. The constraint, not the caller's prior
// existence check, is the authority on uniqueness.
var ErrDuplicateUser = errors.New("duplicate user")

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UserExists checks whether a user with the specified username exists.
// It returns true if the user exists, false otherwise.
// If an error occurs during the query, it is returned.
func (r *PostgresUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user record. If a record with the same username
// already exists, the insert affects no rows and ErrDuplicateUser is returned.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user models.User) error {
	res, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (username, password_hash, first_name, last_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (username) DO NOTHING`,
		user.Username, user.PasswordHash, user.FirstName, user.LastName,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDuplicateUser
	}
	return nil
}

// FindByUsername fetches the user record with the given username.
// It returns (nil, nil) when no such record exists.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT username, password_hash, first_name, last_name FROM users WHERE username = $1`,
		username,
	).Scan(&user.Username, &user.PasswordHash, &user.FirstName, &user.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
