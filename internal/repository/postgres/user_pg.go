// internal/repository/postgres/user_pg.go
package postgres

import (
	"context"

	"github.com/google/uuid"

	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/repository"
)

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// UserRepository implements repository.UserRepository for PostgreSQL.
type UserRepository struct{}

// NewUserRepository creates a new UserRepository.
// Methods receive the DBExecutor per call, so the repository itself is stateless.
func NewUserRepository() repository.UserRepository {
	return &UserRepository{}
}

// CreateUser inserts a new user into the database using the provided DBExecutor.
func (r *UserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return mapError(err, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by their ID using the provided DBExecutor.
func (r *UserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := q.GetContext(ctx, &user, query, id); err != nil {
		return nil, mapError(err, "failed to get user by ID %s", id)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their username using the provided DBExecutor.
func (r *UserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := q.GetContext(ctx, &user, query, username); err != nil {
		return nil, mapError(err, "failed to get user by username '%s'", username)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email using the provided DBExecutor.
func (r *UserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	var user domain.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := q.GetContext(ctx, &user, query, email); err != nil {
		return nil, mapError(err, "failed to get user by email '%s'", email)
	}
	return &user, nil
}
