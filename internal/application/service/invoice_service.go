package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/invstore/inventory-approval/internal/application/port"
	"github.com/invstore/inventory-approval/internal/domain/apperror"
	"github.com/invstore/inventory-approval/internal/domain/entity"
	"github.com/invstore/inventory-approval/internal/domain/workflow"
)

// InvoiceService synthesizes incoming invoices from inventory submissions.
// It is a pure read-side projection: nothing is persisted and nothing on the
// underlying items is touched.
type InvoiceService interface {
	List(ctx context.Context, invoiceType, status string, page, size int) ([]*entity.Invoice, int64, error)
	Get(ctx context.Context, id int64) (*entity.Invoice, error)
}

type invoiceServiceImpl struct {
	itemRepo port.ItemRepository
	logger   Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(itemRepo port.ItemRepository, logger Logger) InvoiceService {
	return &invoiceServiceImpl{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// List returns a page of synthesized invoices, newest first. Only incoming
// invoices exist; any other type yields an empty page.
func (s *invoiceServiceImpl) List(ctx context.Context, invoiceType, status string, page, size int) ([]*entity.Invoice, int64, error) {
	if invoiceType != "" && !strings.EqualFold(invoiceType, "incoming") {
		return []*entity.Invoice{}, 0, nil
	}

	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 20
	}

	items, total, err := s.itemRepo.ListPage(ctx, parseStatus(status), size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	invoices := make([]*entity.Invoice, 0, len(items))
	for _, item := range items {
		invoices = append(invoices, fromItem(item))
	}
	return invoices, total, nil
}

// Get returns the synthesized invoice for one inventory item
func (s *invoiceServiceImpl) Get(ctx context.Context, id int64) (*entity.Invoice, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item: %w", err)
	}
	if item == nil {
		return nil, apperror.NotFound("invoice not found")
	}
	return fromItem(item), nil
}

func parseStatus(s string) workflow.Status {
	status := workflow.Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return ""
	}
	return status
}

// fromItem projects one inventory submission into an incoming invoice.
// Invoice ids are negated so they cannot collide with real document ids
// should persisted invoices ever be added.
func fromItem(item *entity.InventoryItem) *entity.Invoice {
	supplier := item.CreatedBy
	if strings.TrimSpace(supplier) == "" {
		supplier = "Submission"
	}

	date := item.CreatedAt
	if item.DecidedAt != nil {
		date = *item.DecidedAt
	}

	lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

	return &entity.Invoice{
		ID:         -item.ID,
		ExternalID: "SUB-" + item.SKU,
		Type:       "incoming",
		Supplier:   supplier,
		Date:       date,
		Status:     item.Status.String(),
		Amount:     lineTotal,
		Items: []entity.InvoiceLine{
			{
				ID:   item.SKU,
				Name: item.Name,
				Qty:  item.Quantity,
				Cost: lineTotal,
			},
		},
	}
}
