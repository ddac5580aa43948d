package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/entity"
)

// TokenRepository implements port.TokenRepository on SQLite
type TokenRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTokenRepository creates a new API token repository
func NewTokenRepository(db *sql.DB, logger *zap.Logger) port.TokenRepository {
	return &TokenRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new token
func (r *TokenRepository) Create(ctx context.Context, token *entity.APIToken) error {
	query := `
		INSERT INTO api_tokens (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		token.Token,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		r.logger.Error("Failed to create token", zap.Int64("user_id", token.UserID), zap.Error(err))
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

// GetByToken retrieves a token by its value, returning (nil, nil) when absent
func (r *TokenRepository) GetByToken(ctx context.Context, token string) (*entity.APIToken, error) {
	query := "SELECT token, user_id, created_at, expires_at FROM api_tokens WHERE token = ?"

	var t entity.APIToken
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&t.Token,
		&t.UserID,
		&t.CreatedAt,
		&t.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get token", zap.Error(err))
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &t, nil
}

// DeleteExpired removes tokens past their expiry
func (r *TokenRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM api_tokens WHERE expires_at < ?", time.Now())
	if err != nil {
		r.logger.Error("Failed to delete expired tokens", zap.Error(err))
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.TokenRepository = (*TokenRepository)(nil)
