// Package invoice renders synthesized invoices into spreadsheet form for
// hand-off to accounting.
package invoice

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/domain/entity"
)

const exportSheet = "Invoices"

var exportHeader = []string{"External ID", "Supplier", "Date", "Status", "SKU", "Item", "Qty", "Amount"}

// Exporter writes invoices as an XLSX workbook
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new invoice exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Export writes one workbook with a header row followed by one row per
// invoice line.
func (e *Exporter) Export(invoices []*entity.Invoice, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, exportSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, title); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	row := 2
	for _, inv := range invoices {
		for _, line := range inv.Items {
			values := []interface{}{
				inv.ExternalID,
				inv.Supplier,
				inv.Date.Format("2006-01-02"),
				inv.Status,
				line.ID,
				line.Name,
				line.Qty,
				line.Cost.String(),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return fmt.Errorf("failed to resolve cell: %w", err)
				}
				if err := f.SetCellValue(exportSheet, cell, v); err != nil {
					return fmt.Errorf("failed to set cell: %w", err)
				}
			}
			row++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Invoice export written", zap.Int("invoices", len(invoices)), zap.Int("rows", row-2))
	return nil
}
