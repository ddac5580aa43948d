package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
)

// Adjustment modes
const (
	AdjustModeAdd = "add"
	AdjustModeSet = "set"
)

// AdjustStockInput carries a warehouse or shelf quantity adjustment
type AdjustStockInput struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Quantity int64  `json:"quantity"`
	Mode     string `json:"mode"` // "add" (default) or "set"
}

// StockService keeps warehouse/shelf quantity bookkeeping
type StockService interface {
	AdjustWarehouse(ctx context.Context, input AdjustStockInput) error
	AdjustShelf(ctx context.Context, input AdjustStockInput) error
	Summary(ctx context.Context) (*entity.StockSummary, error)
}

type stockServiceImpl struct {
	stockRepo port.StockRepository
	logger    Logger
}

// NewStockService creates a new StockService
func NewStockService(stockRepo port.StockRepository, logger Logger) StockService {
	return &stockServiceImpl{
		stockRepo: stockRepo,
		logger:    logger,
	}
}

// AdjustWarehouse adjusts the warehouse quantity for a category/item pair
func (s *stockServiceImpl) AdjustWarehouse(ctx context.Context, input AdjustStockInput) error {
	return s.adjust(ctx, input, true)
}

// AdjustShelf adjusts the shelf quantity for a category/item pair
func (s *stockServiceImpl) AdjustShelf(ctx context.Context, input AdjustStockInput) error {
	return s.adjust(ctx, input, false)
}

func (s *stockServiceImpl) adjust(ctx context.Context, input AdjustStockInput, warehouse bool) error {
	if input.Quantity <= 0 {
		return apperror.Validation("quantity must be greater than zero")
	}
	category := strings.TrimSpace(input.Category)
	itemName := strings.TrimSpace(input.Item)
	if category == "" || itemName == "" {
		return apperror.Validation("category and item are required")
	}

	item, err := s.stockRepo.GetByCategoryAndItem(ctx, category, itemName)
	if err != nil {
		return fmt.Errorf("load stock item: %w", err)
	}
	if item == nil {
		item = &entity.StockItem{
			Category: category,
			ItemName: itemName,
		}
	}

	set := strings.EqualFold(input.Mode, AdjustModeSet)
	if warehouse {
		if set {
			item.WarehouseQty = input.Quantity
		} else {
			item.WarehouseQty = floorZero(item.WarehouseQty + input.Quantity)
		}
	} else {
		if set {
			item.ShelfQty = input.Quantity
		} else {
			item.ShelfQty = floorZero(item.ShelfQty + input.Quantity)
		}
	}

	if err := s.stockRepo.Save(ctx, item); err != nil {
		s.logger.Error("Failed to save stock item",
			"category", category,
			"item", itemName,
			"error", err)
		return err
	}

	s.logger.Info("Stock adjusted",
		"category", category,
		"item", itemName,
		"warehouse", warehouse,
		"quantity", input.Quantity)
	return nil
}

// Summary aggregates totals and the per-category breakdown
func (s *stockServiceImpl) Summary(ctx context.Context) (*entity.StockSummary, error) {
	summary, err := s.stockRepo.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return summary, nil
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
