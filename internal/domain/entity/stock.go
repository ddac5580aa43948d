package entity

// StockItem tracks on-hand quantities for a category/item pair, split
// between warehouse and shelf locations.
type StockItem struct {
	ID           int64  `json:"id"`
	Category     string `json:"category"`
	ItemName     string `json:"item_name"`
	WarehouseQty int64  `json:"warehouse_qty"`
	ShelfQty     int64  `json:"shelf_qty"`
}

// StockSummary aggregates stock quantities for the dashboard
type StockSummary struct {
	Totals     StockTotals      `json:"totals"`
	Categories []CategoryStocks `json:"categories"`
}

// StockTotals holds overall warehouse/shelf quantities
type StockTotals struct {
	Warehouse int64 `json:"warehouse"`
	Shelf     int64 `json:"shelf"`
	Combined  int64 `json:"combined"`
}

// CategoryStocks holds per-category warehouse/shelf quantities
type CategoryStocks struct {
	Category     string `json:"category"`
	WarehouseQty int64  `json:"warehouse_qty"`
	ShelfQty     int64  `json:"shelf_qty"`
}
