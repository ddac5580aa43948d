// Package port defines the persistence contracts consumed by the
// application services. Implementations live under
// internal/infrastructure/persistence.
package port

import (
	"context"

	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/domain/workflow"
)

// ItemRepository persists inventory submissions. Create relies on a storage
// level unique index on sku; UpdateDecision performs a revision-checked
// write so that at most one decision leaves PENDING per record.
type ItemRepository interface {
	// Create inserts a new item and assigns its ID. A duplicate sku fails
	// with apperror.ErrConflict, atomically even under concurrent creators.
	Create(ctx context.Context, item *entity.InventoryItem) error

	// ExistsBySKU reports whether any record with the sku exists, regardless
	// of status.
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// GetByID returns the item or (nil, nil) when absent.
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)

	// ListByStatus returns items in the given status, newest first.
	ListByStatus(ctx context.Context, status workflow.Status) ([]*entity.InventoryItem, error)

	// ListPendingFold is the defensive fallback scan: it matches the pending
	// status case-insensitively for rows written with legacy casing.
	ListPendingFold(ctx context.Context) ([]*entity.InventoryItem, error)

	// ListRecent returns the newest items globally, any status.
	ListRecent(ctx context.Context, limit int) ([]*entity.InventoryItem, error)

	// ListRecentByCreator returns the newest items created by one identity.
	ListRecentByCreator(ctx context.Context, createdBy string, limit int) ([]*entity.InventoryItem, error)

	// ListAllByCreator returns every item created by one identity, newest first.
	ListAllByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error)

	// ListPage returns a page of items newest first, optionally filtered by
	// status (empty status means all), plus the total row count.
	ListPage(ctx context.Context, status workflow.Status, limit, offset int) ([]*entity.InventoryItem, int64, error)

	// UpdateDecision writes the item's decision fields (status, decidedBy,
	// decidedAt, fingerprint) if and only if the stored revision equals
	// expectedRevision, bumping the revision. A stale revision fails with
	// apperror.ErrConcurrentModification.
	UpdateDecision(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error
}

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// TokenRepository persists opaque API tokens
type TokenRepository interface {
	Create(ctx context.Context, token *entity.APIToken) error
	GetByToken(ctx context.Context, token string) (*entity.APIToken, error)
	DeleteExpired(ctx context.Context) error
}

// StockRepository persists stock bookkeeping rows
type StockRepository interface {
	// GetByCategoryAndItem matches category and item name case-insensitively,
	// returning (nil, nil) when absent.
	GetByCategoryAndItem(ctx context.Context, category, itemName string) (*entity.StockItem, error)
	Save(ctx context.Context, item *entity.StockItem) error
	Summary(ctx context.Context) (*entity.StockSummary, error)
}
