package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/invstore/inventory-approval/internal/domain/workflow"
)

// InventoryItem represents a proposed inventory change moving through the
// maker/checker approval lifecycle. Prices use exact decimal arithmetic
// because they participate in the content fingerprint and in monetary totals.
type InventoryItem struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Status      workflow.Status `json:"status"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	DecidedBy   string          `json:"decided_by,omitempty"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	Revision    int64           `json:"revision"`
}
