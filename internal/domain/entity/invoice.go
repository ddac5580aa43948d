package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a read-only projection synthesized from inventory submissions;
// it is never persisted.
type Invoice struct {
	ID         int64           `json:"id"`
	ExternalID string          `json:"external_id"`
	Type       string          `json:"type"`
	Supplier   string          `json:"supplier"`
	Date       time.Time       `json:"date"`
	Status     string          `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
	Items      []InvoiceLine   `json:"items"`
}

// InvoiceLine is a single line on a synthesized invoice
type InvoiceLine struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Qty  int             `json:"qty"`
	Cost decimal.Decimal `json:"cost"`
}
