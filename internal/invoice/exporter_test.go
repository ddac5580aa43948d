package invoice

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/invstore/inventory-approval/internal/domain/entity"
)

func TestExport(t *testing.T) {
	invoices := []*entity.Invoice{
		{
			ID:         -1,
			ExternalID: "SUB-A-1",
			Type:       "incoming",
			Supplier:   "maker1",
			Date:       time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			Status:     "APPROVED",
			Amount:     decimal.RequireFromString("59.97"),
			Items: []entity.InvoiceLine{
				{ID: "A-1", Name: "Widget", Qty: 3, Cost: decimal.RequireFromString("59.97")},
			},
		},
		{
			ID:         -2,
			ExternalID: "SUB-B-7",
			Type:       "incoming",
			Supplier:   "maker2",
			Date:       time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
			Status:     "PENDING",
			Amount:     decimal.RequireFromString("10"),
			Items: []entity.InvoiceLine{
				{ID: "B-7", Name: "Bracket", Qty: 1, Cost: decimal.RequireFromString("10")},
			},
		},
	}

	var buf bytes.Buffer
	exporter := NewExporter(zap.NewNop())
	require.NoError(t, exporter.Export(invoices, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per line")

	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{"SUB-A-1", "maker1", "2025-03-04", "APPROVED", "A-1", "Widget", "3", "59.97"}, rows[1])
	assert.Equal(t, "SUB-B-7", rows[2][0])
	assert.Equal(t, "10", rows[2][7])
}

func TestExport_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewExporter(zap.NewNop())
	require.NoError(t, exporter.Export(nil, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, exportHeader, rows[0])
}
