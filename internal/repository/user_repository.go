package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tregeagle/finagle/internal/apperrors"
	"github.com/tregeagle/finagle/internal/model"
)

// UserRepository provides data access methods for the app_user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by ID.
// Returns ErrUserNotFound if no user with the given ID exists.
func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	return r.getOne(ctx, `SELECT id, username, created_at FROM app_user WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username.
// Returns ErrUserNotFound if no user with the given username exists.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx, `SELECT id, username, created_at FROM app_user WHERE username = ?`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (model.User, error) {
	var u model.User
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query app_user table: %w", err)
	}
	if u.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Insert stores a new user.
func (r *UserRepository) Insert(ctx context.Context, u model.User) error {
	query := `
		INSERT INTO app_user (id, username, created_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, formatTimestamp(u.CreatedAt)); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// Delete removes a user and, through the foreign key cascade, their transactions.
// Returns ErrUserNotFound if nothing was deleted.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM app_user WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListIDs returns every user ID, oldest account first.
func (r *UserRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM app_user ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query app_user table: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan app_user results: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating app_user table: %w", err)
	}
	return ids, nil
}
