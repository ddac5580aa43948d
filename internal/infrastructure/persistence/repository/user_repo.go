package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
)

const userColumns = "id, username, email, password, role, created_at"

// UserRepository implements port.UserRepository on SQLite
type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) port.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user; duplicate username or email fails with
// apperror.ErrConflict via the unique indexes.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, password, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.Password,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: username or email already exists", apperror.ErrConflict)
		}
		r.logger.Error("Failed to create user", zap.String("username", user.Username), zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetByID retrieves a user by ID, returning (nil, nil) when absent
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ?", userColumns)
	return r.getOne(ctx, query, id)
}

// GetByUsername retrieves a user by username, returning (nil, nil) when absent
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE username = ?", userColumns)
	return r.getOne(ctx, query, username)
}

// GetByEmail retrieves a user by email, returning (nil, nil) when absent
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = ? AND email != ''", userColumns)
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var user entity.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
