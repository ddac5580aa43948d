package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/domain/fingerprint"
	"github.com/invstore/inventory-approval/internal/domain/workflow"
)

// SystemIdentity is recorded when no caller identity is supplied
const SystemIdentity = "system"

const defaultListLimit = 20

// CreateItemInput carries the fields of a proposed inventory change.
// Quantity and UnitPrice are pointers so that absent and zero can be told
// apart during validation.
type CreateItemInput struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Quantity    *int             `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Location    string           `json:"location"`
}

// InventoryService orchestrates the maker/checker approval workflow: a maker
// proposes an item, a checker approves or rejects it. Every proposal is
// fingerprinted at creation; the fingerprint is recomputed at decision time
// to detect mutation in between. Listing methods never mutate state.
type InventoryService interface {
	CreateItem(ctx context.Context, input CreateItemInput, createdBy string) (*entity.InventoryItem, error)
	Approve(ctx context.Context, id int64, decidedBy string) (*entity.InventoryItem, error)
	Reject(ctx context.Context, id int64, decidedBy string) (*entity.InventoryItem, error)
	GetItem(ctx context.Context, id int64) (*entity.InventoryItem, error)
	ListPending(ctx context.Context) ([]*entity.InventoryItem, error)
	ListRecent(ctx context.Context) ([]*entity.InventoryItem, error)
	ListRecentByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error)
	ListAllByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error)
}

type inventoryServiceImpl struct {
	itemRepo port.ItemRepository
	logger   Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(itemRepo port.ItemRepository, logger Logger) InventoryService {
	return &inventoryServiceImpl{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// CreateItem validates and persists a new proposal in PENDING state
func (s *inventoryServiceImpl) CreateItem(ctx context.Context, input CreateItemInput, createdBy string) (*entity.InventoryItem, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)

	if sku == "" {
		return nil, apperror.Validation("sku is required")
	}
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if input.Quantity == nil {
		return nil, apperror.Validation("quantity is required")
	}
	if *input.Quantity < 0 {
		return nil, apperror.Validation("quantity must not be negative")
	}
	if input.UnitPrice == nil {
		return nil, apperror.Validation("unit price is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, apperror.Validation("unit price must not be negative")
	}

	// Friendly pre-check; the unique index on sku is what actually
	// guarantees at most one winner when creators race.
	exists, err := s.itemRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("check sku: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("sku already exists")
	}

	item := &entity.InventoryItem{
		SKU:         sku,
		Name:        name,
		Quantity:    *input.Quantity,
		UnitPrice:   *input.UnitPrice,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Location:    strings.TrimSpace(input.Location),
		Status:      workflow.StatusPending,
		CreatedBy:   identityOrSystem(createdBy),
		CreatedAt:   time.Now().UTC(),
		Revision:    1,
	}
	item.Fingerprint = fingerprint.Compute(
		item.SKU, item.Name, item.Quantity, item.UnitPrice,
		item.Description, item.Category, item.Location,
	)

	if err := s.itemRepo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create inventory item", "sku", sku, "error", err)
		return nil, err
	}

	s.logger.Info("Inventory item created",
		"id", item.ID,
		"sku", item.SKU,
		"created_by", item.CreatedBy)
	return item, nil
}

// Approve transitions a pending item to APPROVED
func (s *inventoryServiceImpl) Approve(ctx context.Context, id int64, decidedBy string) (*entity.InventoryItem, error) {
	return s.decide(ctx, id, decidedBy, workflow.StatusApproved)
}

// Reject transitions a pending item to REJECTED
func (s *inventoryServiceImpl) Reject(ctx context.Context, id int64, decidedBy string) (*entity.InventoryItem, error) {
	return s.decide(ctx, id, decidedBy, workflow.StatusRejected)
}

// decide loads the item, verifies it is still pending, reconciles the stored
// fingerprint against a recomputation over the current persisted values, and
// persists the decision with a revision-checked write. When the write loses
// the optimistic-lock race the caller receives ErrConcurrentModification and
// may retry the whole operation; no retry happens here.
func (s *inventoryServiceImpl) decide(ctx context.Context, id int64, decidedBy string, outcome workflow.Status) (*entity.InventoryItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, apperror.NotFound("item not found")
	}

	if !workflow.CanTransition(item.Status, outcome) {
		return nil, fmt.Errorf("%w: %w: item is not pending", apperror.ErrConflict, workflow.ErrInvalidTransition)
	}

	current := fingerprint.Compute(
		item.SKU, item.Name, item.Quantity, item.UnitPrice,
		item.Description, item.Category, item.Location,
	)
	switch {
	case item.Fingerprint == "":
		// Legacy rows carry no fingerprint; adopt the recomputed one.
		item.Fingerprint = current
	case item.Fingerprint != current:
		// The record changed between proposal and decision. Policy: heal the
		// stored fingerprint and proceed with the decision.
		s.logger.Info("Fingerprint mismatch healed",
			"id", item.ID,
			"sku", item.SKU,
			"stored", item.Fingerprint,
			"recomputed", current)
		item.Fingerprint = current
	}

	loadedRevision := item.Revision
	now := time.Now().UTC()
	item.Status = outcome
	item.DecidedBy = identityOrSystem(decidedBy)
	item.DecidedAt = &now

	if err := s.itemRepo.UpdateDecision(ctx, item, loadedRevision); err != nil {
		s.logger.Error("Failed to persist decision",
			"id", item.ID,
			"outcome", outcome.String(),
			"error", err)
		return nil, err
	}

	s.logger.Info("Inventory item decided",
		"id", item.ID,
		"sku", item.SKU,
		"outcome", outcome.String(),
		"decided_by", item.DecidedBy)
	return item, nil
}

// GetItem retrieves a single item by id
func (s *inventoryServiceImpl) GetItem(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, apperror.NotFound("item not found")
	}
	return item, nil
}

// ListPending returns all pending items, newest first. When the primary
// status lookup yields nothing it falls back to a case-insensitive scan.
func (s *inventoryServiceImpl) ListPending(ctx context.Context) ([]*entity.InventoryItem, error) {
	items, err := s.itemRepo.ListByStatus(ctx, workflow.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	if len(items) == 0 {
		items, err = s.itemRepo.ListPendingFold(ctx)
		if err != nil {
			return nil, fmt.Errorf("list pending fallback: %w", err)
		}
	}
	return emptyIfNil(items), nil
}

// ListRecent returns the newest submissions globally, any status
func (s *inventoryServiceImpl) ListRecent(ctx context.Context) ([]*entity.InventoryItem, error) {
	items, err := s.itemRepo.ListRecent(ctx, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}
	return emptyIfNil(items), nil
}

// ListRecentByCreator returns the newest submissions by one identity; a
// blank identity yields an empty result, not an error.
func (s *inventoryServiceImpl) ListRecentByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error) {
	if strings.TrimSpace(createdBy) == "" {
		return []*entity.InventoryItem{}, nil
	}
	items, err := s.itemRepo.ListRecentByCreator(ctx, createdBy, defaultListLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent by creator: %w", err)
	}
	return emptyIfNil(items), nil
}

// ListAllByCreator returns every submission by one identity; a blank
// identity yields an empty result, not an error.
func (s *inventoryServiceImpl) ListAllByCreator(ctx context.Context, createdBy string) ([]*entity.InventoryItem, error) {
	if strings.TrimSpace(createdBy) == "" {
		return []*entity.InventoryItem{}, nil
	}
	items, err := s.itemRepo.ListAllByCreator(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("list all by creator: %w", err)
	}
	return emptyIfNil(items), nil
}

func identityOrSystem(identity string) string {
	if strings.TrimSpace(identity) == "" {
		return SystemIdentity
	}
	return identity
}

func emptyIfNil(items []*entity.InventoryItem) []*entity.InventoryItem {
	if items == nil {
		return []*entity.InventoryItem{}
	}
	return items
}
