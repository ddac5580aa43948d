package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/domain/fingerprint"
	"github.com/invstore/inventory-approval/internal/domain/workflow"
)

const itemColumns = `id, sku, name, quantity, unit_price, description, category, location,
	status, created_by, created_at, decided_by, decided_at, fingerprint, revision`

// ItemRepository implements port.ItemRepository on SQLite
type ItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewItemRepository creates a new inventory item repository
func NewItemRepository(db *sql.DB, logger *zap.Logger) port.ItemRepository {
	return &ItemRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new item. The unique index on sku makes duplicate
// creation fail atomically even when creators race.
func (r *ItemRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (
			sku, name, quantity, unit_price, description, category, location,
			status, created_by, created_at, fingerprint, revision
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		item.SKU,
		item.Name,
		item.Quantity,
		// Stored scale-preserving, so the decision-time fingerprint recompute
		// reads back the exact text that was hashed at creation.
		fingerprint.PlainPrice(item.UnitPrice),
		item.Description,
		item.Category,
		item.Location,
		item.Status.String(),
		item.CreatedBy,
		item.CreatedAt,
		item.Fingerprint,
		item.Revision,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: sku already exists", apperror.ErrConflict)
		}
		r.logger.Error("Failed to create inventory item", zap.String("sku", item.SKU), zap.Error(err))
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	item.ID = id
	return nil
}

// ExistsBySKU reports whether any record with the sku exists, any status
func (r *ItemRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM inventory_items WHERE sku = ?)", sku,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check sku existence", zap.String("sku", sku), zap.Error(err))
		return false, fmt.Errorf("failed to check sku existence: %w", err)
	}
	return exists, nil
}

// GetByID retrieves an item by ID, returning (nil, nil) when absent
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	query := fmt.Sprintf("SELECT %s FROM inventory_items WHERE id = ?", itemColumns)

	item, err := r.scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get item by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListByStatus returns items in the given status, newest first
func (r *ItemRepository) ListByStatus(ctx context.Context, status workflow.Status) ([]*entity.InventoryItem, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM inventory_items WHERE status = ? ORDER BY created_at DESC, id DESC", itemColumns)
	return r.queryItems(ctx, query, status.String())
}

// ListPendingFold matches the pending status case-insensitively. Fallback
// for rows written with legacy casing.
func (r *ItemRepository) ListPendingFold(ctx context.Context) ([]*entity.InventoryItem, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM inventory_items WHERE UPPER(status) = 'PENDING' ORDER BY created_at DESC, id DESC", itemColumns)
	return r.queryItems(ctx, query)
}

// ListRecent returns the newest items globally, any status
func (r *ItemRepository) ListRecent(ctx context.Context, limit int) ([]*entity.InventoryItem, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM inventory_items ORDER BY created_at DESC, id DESC LIMIT ?", itemColumns)
	return r.queryItems(ctx, query, limit)
}

// ListRecentByCreator returns the newest items created by one identity
func (r *ItemRepository) ListRecentByCreator(ctx context.Context, createdBy string, limit int) ([]*entity.InventoryItem, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM inventory_items WHERE created_by = ? ORDER BY created_at DESC, id DESC LIMIT ?", itemColumns)
	return r.queryItems(ctx, query, createdBy, limit)
}

// ListAllByCreator returns every item created by one identity, newest first
func (r *ItemRepository) ListAllByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM inventory_items WHERE created_by = ? ORDER BY created_at DESC, id DESC", itemColumns)
	return r.queryItems(ctx, query, createdBy)
}

// ListPage returns a page of items newest first plus the total row count.
// An empty status means all statuses.
func (r *ItemRepository) ListPage(ctx context.Context, status workflow.Status, limit, offset int) ([]*entity.InventoryItem, int64, error) {
	var (
		items []*entity.InventoryItem
		total int64
		err   error
	)

	if status == "" {
		query := fmt.Sprintf(
			"SELECT %s FROM inventory_items ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", itemColumns)
		items, err = r.queryItems(ctx, query, limit, offset)
		if err != nil {
			return nil, 0, err
		}
		err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inventory_items").Scan(&total)
	} else {
		query := fmt.Sprintf(
			"SELECT %s FROM inventory_items WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", itemColumns)
		items, err = r.queryItems(ctx, query, status.String(), limit, offset)
		if err != nil {
			return nil, 0, err
		}
		err = r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM inventory_items WHERE status = ?", status.String()).Scan(&total)
	}
	if err != nil {
		r.logger.Error("Failed to count items", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	return items, total, nil
}

// UpdateDecision writes the decision fields guarded by the revision read at
// load time. Zero rows affected means another writer got there first.
func (r *ItemRepository) UpdateDecision(ctx context.Context, item *entity.InventoryItem, expectedRevision int64) error {
	query := `
		UPDATE inventory_items
		SET status = ?, decided_by = ?, decided_at = ?, fingerprint = ?, revision = revision + 1
		WHERE id = ? AND revision = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		item.Status.String(),
		item.DecidedBy,
		item.DecidedAt,
		item.Fingerprint,
		item.ID,
		expectedRevision,
	)
	if err != nil {
		r.logger.Error("Failed to update item decision", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to update item decision: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: item %d revision %d is stale", apperror.ErrConcurrentModification, item.ID, expectedRevision)
	}

	item.Revision = expectedRevision + 1
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ItemRepository) scanItem(row rowScanner) (*entity.InventoryItem, error) {
	var (
		item      entity.InventoryItem
		unitPrice string
		status    string
		decidedBy sql.NullString
		decidedAt sql.NullTime
	)

	err := row.Scan(
		&item.ID,
		&item.SKU,
		&item.Name,
		&item.Quantity,
		&unitPrice,
		&item.Description,
		&item.Category,
		&item.Location,
		&status,
		&item.CreatedBy,
		&item.CreatedAt,
		&decidedBy,
		&decidedAt,
		&item.Fingerprint,
		&item.Revision,
	)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid stored unit price %q: %w", unitPrice, err)
	}
	item.UnitPrice = price
	item.Status = workflow.Status(status)
	if decidedBy.Valid {
		item.DecidedBy = decidedBy.String
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		item.DecidedAt = &t
	}

	return &item, nil
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]*entity.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query items", zap.Error(err))
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InventoryItem
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Verify interface compliance
var _ port.ItemRepository = (*ItemRepository)(nil)
