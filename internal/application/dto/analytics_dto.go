package dto

import "github.com/shopspring/decimal"

// ── Por producto ──────────────────────────────────────────────────────────────

// ProductPerformanceDTO métricas de venta de un producto.
// Fórmulas: profit = revenue - cost; margin_pct = profit / revenue * 100 (0 si revenue = 0).
type ProductPerformanceDTO struct {
	ProductID        string          `json:"product_id"`
	SKU              string          `json:"sku"`
	ProductName      string          `json:"product_name"`
	Category         string          `json:"category"`
	Brand            string          `json:"brand"`
	UnitsSold        int             `json:"units_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`   // Σ qty × purchase_price
	Profit           decimal.Decimal `json:"profit"` // Σ qty × (unit_price - purchase_price)
	MarginPct        decimal.Decimal `json:"margin_pct"`
	CurrentStock     int             `json:"current_stock"`
	RevenuePct       decimal.Decimal `json:"revenue_pct"`            // participación % en ingresos totales
	CumulativeRevPct decimal.Decimal `json:"cumulative_revenue_pct"` // acumulado descendente
	IsTopPareto      bool            `json:"is_top_pareto"`          // dentro del 80% de ingresos
}

// ProductPerformanceReport respuesta de /sales/analytics/product-performance.
type ProductPerformanceReport struct {
	TotalRevenue decimal.Decimal         `json:"total_revenue"`
	TotalProfit  decimal.Decimal         `json:"total_profit"`
	Products     []ProductPerformanceDTO `json:"products"`
}

// ── Por categoría / marca ─────────────────────────────────────────────────────

// GroupPerformanceDTO rollup por categoría o marca.
type GroupPerformanceDTO struct {
	Name         string          `json:"name"`
	ProductCount int             `json:"product_count"`
	UnitsSold    int             `json:"units_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
	RevenuePct   decimal.Decimal `json:"revenue_pct"`
	CurrentStock int             `json:"current_stock"`
}

// GroupPerformanceReport respuesta de category-performance y brand-performance.
type GroupPerformanceReport struct {
	GroupBy string                `json:"group_by"` // category | brand
	Groups  []GroupPerformanceDTO `json:"groups"`
}

// ── Tendencias ────────────────────────────────────────────────────────────────

// TrendPointDTO un periodo de la serie. Period: YYYY-MM-DD (día) o YYYY-MM (mes).
type TrendPointDTO struct {
	Period       string          `json:"period"`
	Label        string          `json:"label"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
	Transactions int             `json:"transactions"`
}

// TrendReport serie completa con periodos vacíos en cero.
type TrendReport struct {
	Unit     string          `json:"unit"` // day | month
	Timezone string          `json:"timezone"`
	Points   []TrendPointDTO `json:"points"`
}

// ── Resúmenes ─────────────────────────────────────────────────────────────────

// OverviewDTO respuesta de /sales/analytics/overview.
type OverviewDTO struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int             `json:"total_transactions"`
	TodayRevenue      decimal.Decimal `json:"today_revenue"`
	TodayTransactions int             `json:"today_transactions"`
	AverageSale       decimal.Decimal `json:"average_sale"`
	Timezone          string          `json:"timezone"`
}

// SaleTypeProfitDTO rentabilidad por tipo de venta.
type SaleTypeProfitDTO struct {
	SaleType     string          `json:"sale_type"`
	Transactions int             `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	MarginPct    decimal.Decimal `json:"margin_pct"`
}

// ProfitSummaryDTO respuesta de /sales/analytics/profit-summary.
type ProfitSummaryDTO struct {
	TotalRevenue decimal.Decimal     `json:"total_revenue"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
	TotalProfit  decimal.Decimal     `json:"total_profit"`
	MarginPct    decimal.Decimal     `json:"margin_pct"`
	BySaleType   []SaleTypeProfitDTO `json:"by_sale_type"`
}

// ── Inventario ────────────────────────────────────────────────────────────────

// LowStockItemDTO producto por debajo del umbral.
type LowStockItemDTO struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
}

// InventoryValuationDTO respuesta de GET /api/inventory/valuation.
type InventoryValuationDTO struct {
	TotalProducts     int               `json:"total_products"`
	TotalUnits        int               `json:"total_units"`
	TotalValue        decimal.Decimal   `json:"total_value"` // Σ stock × purchase_price
	LowStockThreshold int               `json:"low_stock_threshold"`
	LowStockCount     int               `json:"low_stock_count"`
	OutOfStockCount   int               `json:"out_of_stock_count"`
	LowStock          []LowStockItemDTO `json:"low_stock"`
}
