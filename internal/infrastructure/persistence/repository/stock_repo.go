package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/entity"
)

// StockRepository implements port.StockRepository on SQLite
type StockRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *sql.DB, logger *zap.Logger) port.StockRepository {
	return &StockRepository{
		db:     db,
		logger: logger,
	}
}

// GetByCategoryAndItem matches category and item name case-insensitively
// (the columns are declared COLLATE NOCASE), returning (nil, nil) when absent.
func (r *StockRepository) GetByCategoryAndItem(ctx context.Context, category, itemName string) (*entity.StockItem, error) {
	query := `
		SELECT id, category, item_name, warehouse_qty, shelf_qty
		FROM stock_items
		WHERE category = ? AND item_name = ?
	`

	var item entity.StockItem
	err := r.db.QueryRowContext(ctx, query, category, itemName).Scan(
		&item.ID,
		&item.Category,
		&item.ItemName,
		&item.WarehouseQty,
		&item.ShelfQty,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get stock item",
			zap.String("category", category),
			zap.String("item", itemName),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}
	return &item, nil
}

// Save inserts the stock row when new, otherwise updates its quantities
func (r *StockRepository) Save(ctx context.Context, item *entity.StockItem) error {
	if item.ID == 0 {
		result, err := r.db.ExecContext(ctx, `
			INSERT INTO stock_items (category, item_name, warehouse_qty, shelf_qty)
			VALUES (?, ?, ?, ?)`,
			item.Category, item.ItemName, item.WarehouseQty, item.ShelfQty,
		)
		if err != nil {
			r.logger.Error("Failed to insert stock item", zap.Error(err))
			return fmt.Errorf("failed to insert stock item: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		item.ID = id
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE stock_items SET warehouse_qty = ?, shelf_qty = ? WHERE id = ?`,
		item.WarehouseQty, item.ShelfQty, item.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update stock item", zap.Int64("id", item.ID), zap.Error(err))
		return fmt.Errorf("failed to update stock item: %w", err)
	}
	return nil
}

// Summary aggregates warehouse/shelf totals and the per-category breakdown
func (r *StockRepository) Summary(ctx context.Context) (*entity.StockSummary, error) {
	summary := &entity.StockSummary{Categories: []entity.CategoryStocks{}}

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(warehouse_qty), 0), COALESCE(SUM(shelf_qty), 0) FROM stock_items`,
	).Scan(&summary.Totals.Warehouse, &summary.Totals.Shelf)
	if err != nil {
		r.logger.Error("Failed to sum stock totals", zap.Error(err))
		return nil, fmt.Errorf("failed to sum stock totals: %w", err)
	}
	summary.Totals.Combined = summary.Totals.Warehouse + summary.Totals.Shelf

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(warehouse_qty), SUM(shelf_qty)
		FROM stock_items
		GROUP BY category
		ORDER BY category`,
	)
	if err != nil {
		r.logger.Error("Failed to group stock by category", zap.Error(err))
		return nil, fmt.Errorf("failed to group stock by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entity.CategoryStocks
		if err := rows.Scan(&c.Category, &c.WarehouseQty, &c.ShelfQty); err != nil {
			return nil, fmt.Errorf("failed to scan stock category: %w", err)
		}
		summary.Categories = append(summary.Categories, c)
	}

	return summary, rows.Err()
}

// Verify interface compliance
var _ port.StockRepository = (*StockRepository)(nil)
