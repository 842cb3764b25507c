package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BucketUnit granularidad de una serie temporal.
type BucketUnit string

const (
	BucketDay   BucketUnit = "day"
	BucketMonth BucketUnit = "month"
)

// ProductSalesResult resultado crudo por producto. Incluye productos sin ventas (métricas en cero).
type ProductSalesResult struct {
	ProductID     string
	SKU           string
	ProductName   string
	Category      string
	Brand         string
	PurchasePrice decimal.Decimal
	UnitsSold     int
	Revenue       decimal.Decimal // Σ qty × unit_price
	Cost          decimal.Decimal // Σ qty × purchase_price
}

// SalesBucketResult agregado de ventas de un periodo.
// Bucket es la fecha de pared (sin zona) del inicio del periodo en la zona consultada.
type SalesBucketResult struct {
	Bucket  time.Time
	Revenue decimal.Decimal // Σ total_amount
	Cost    decimal.Decimal
	Count   int
}

// SaleTypeResult agregado por tipo de venta.
type SaleTypeResult struct {
	SaleType string
	Count    int
	Revenue  decimal.Decimal
	Cost     decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura sobre ventas, líneas y productos.
type AnalyticsRepository interface {
	ProductSales(ctx context.Context) ([]ProductSalesResult, error)

	// SalesTotals suma total_amount y cuenta ventas en [from, to). Fechas cero = sin límite.
	SalesTotals(ctx context.Context, from, to time.Time) (revenue decimal.Decimal, count int, err error)

	// SalesByBucket agrupa ventas en [from, to) por día o mes de calendario en loc.
	// Solo devuelve periodos con ventas; el caso de uso rellena los vacíos.
	SalesByBucket(ctx context.Context, unit BucketUnit, loc *time.Location, from, to time.Time) ([]SalesBucketResult, error)

	SalesBySaleType(ctx context.Context) ([]SaleTypeResult, error)
}
