package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para rentabilidad y tendencias de venta.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// ProductSales agrega líneas de venta por producto. El LEFT JOIN incluye productos sin ventas.
// El costo usa el purchase_price vigente del producto.
func (r *AnalyticsRepo) ProductSales(ctx context.Context) ([]repository.ProductSalesResult, error) {
	const query = `
	SELECT
	    p.id,
	    p.sku,
	    p.name,
	    p.category,
	    p.brand,
	    p.purchase_price,
	    COALESCE(SUM(li.quantity), 0)                    AS units_sold,
	    COALESCE(SUM(li.quantity * li.unit_price), 0)    AS revenue,
	    COALESCE(SUM(li.quantity * p.purchase_price), 0) AS cost
	FROM products p
	LEFT JOIN sale_line_items li ON li.product_id = p.id
	GROUP BY p.id, p.sku, p.name, p.category, p.brand, p.purchase_price
	ORDER BY revenue DESC, p.name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.ProductSales: %w", err)
	}
	defer rows.Close()

	var results []repository.ProductSalesResult
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(
			&row.ProductID,
			&row.SKU,
			&row.ProductName,
			&row.Category,
			&row.Brand,
			&row.PurchasePrice,
			&row.UnitsSold,
			&row.Revenue,
			&row.Cost,
		); err != nil {
			return nil, fmt.Errorf("analytics.ProductSales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesTotals devuelve Σ total_amount y número de ventas en [from, to).
// Usa COALESCE para devolver cero si no hay filas.
func (r *AnalyticsRepo) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	const query = `
	SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
	FROM sales
	WHERE ($1::timestamptz IS NULL OR created_at >= $1)
	  AND ($2::timestamptz IS NULL OR created_at <  $2)`

	var revenue decimal.Decimal
	var count int
	if err := r.q.QueryRow(ctx, query, nullIfZeroTime(from), nullIfZeroTime(to)).Scan(&revenue, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.SalesTotals: %w", err)
	}
	return revenue, count, nil
}

// SalesByBucket agrupa por date_trunc sobre la hora de pared en la zona indicada, la misma
// referencia que usa el caso de uso para generar los periodos.
func (r *AnalyticsRepo) SalesByBucket(
	ctx context.Context,
	unit repository.BucketUnit,
	loc *time.Location,
	from, to time.Time,
) ([]repository.SalesBucketResult, error) {
	const query = `
	WITH sale_cost AS (
	    SELECT s.id, s.created_at, s.total_amount,
	           COALESCE(SUM(li.quantity * p.purchase_price), 0) AS cost
	    FROM sales s
	    LEFT JOIN sale_line_items li ON li.sale_id = s.id
	    LEFT JOIN products        p  ON p.id       = li.product_id
	    WHERE s.created_at >= $3 AND s.created_at < $4
	    GROUP BY s.id, s.created_at, s.total_amount
	)
	SELECT
	    date_trunc($1, created_at AT TIME ZONE $2) AS bucket,
	    SUM(total_amount)                          AS revenue,
	    SUM(cost)                                  AS cost,
	    COUNT(*)                                   AS sale_count
	FROM sale_cost
	GROUP BY bucket
	ORDER BY bucket`

	rows, err := r.q.Query(ctx, query, string(unit), loc.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.SalesByBucket: %w", err)
	}
	defer rows.Close()

	var results []repository.SalesBucketResult
	for rows.Next() {
		var row repository.SalesBucketResult
		if err := rows.Scan(&row.Bucket, &row.Revenue, &row.Cost, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.SalesByBucket scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesBySaleType ingresos y costo por tipo de venta (retail / wholesale).
func (r *AnalyticsRepo) SalesBySaleType(ctx context.Context) ([]repository.SaleTypeResult, error) {
	const query = `
	WITH sale_cost AS (
	    SELECT s.id, s.sale_type, s.total_amount,
	           COALESCE(SUM(li.quantity * p.purchase_price), 0) AS cost
	    FROM sales s
	    LEFT JOIN sale_line_items li ON li.sale_id = s.id
	    LEFT JOIN products        p  ON p.id       = li.product_id
	    GROUP BY s.id, s.sale_type, s.total_amount
	)
	SELECT sale_type, COUNT(*), SUM(total_amount), SUM(cost)
	FROM sale_cost
	GROUP BY sale_type
	ORDER BY sale_type`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.SalesBySaleType: %w", err)
	}
	defer rows.Close()

	var results []repository.SaleTypeResult
	for rows.Next() {
		var row repository.SaleTypeResult
		if err := rows.Scan(&row.SaleType, &row.Count, &row.Revenue, &row.Cost); err != nil {
			return nil, fmt.Errorf("analytics.SalesBySaleType scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
