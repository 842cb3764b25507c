package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agrega sobre las ventas confirmadas.
type AnalyticsRepo struct {
	s *Store
}

// ProductSales incluye todos los productos; el costo usa el purchase_price vigente.
func (r *AnalyticsRepo) ProductSales(_ context.Context) ([]repository.ProductSalesResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byProduct := make(map[string]*repository.ProductSalesResult, len(r.s.products))
	for id, p := range r.s.products {
		byProduct[id] = &repository.ProductSalesResult{
			ProductID:     p.ID,
			SKU:           p.SKU,
			ProductName:   p.Name,
			Category:      p.Category,
			Brand:         p.Brand,
			PurchasePrice: p.PurchasePrice,
			Revenue:       decimal.Zero,
			Cost:          decimal.Zero,
		}
	}
	for _, ss := range r.s.sales {
		for _, line := range ss.sale.Lines {
			row, ok := byProduct[line.ProductID]
			if !ok {
				continue
			}
			qty := decimal.NewFromInt(int64(line.Quantity))
			row.UnitsSold += line.Quantity
			row.Revenue = row.Revenue.Add(line.UnitPrice.Mul(qty))
			row.Cost = row.Cost.Add(row.PurchasePrice.Mul(qty))
		}
	}

	out := make([]repository.ProductSalesResult, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out, nil
}

// SalesTotals en [from, to). Fechas cero = sin límite.
func (r *AnalyticsRepo) SalesTotals(_ context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	revenue, count := decimal.Zero, 0
	for _, ss := range r.s.sales {
		if !inRange(ss.sale.CreatedAt, from, to) {
			continue
		}
		revenue = revenue.Add(ss.sale.TotalAmount)
		count++
	}
	return revenue, count, nil
}

// SalesByBucket agrupa por la fecha de pared en loc, como date_trunc sobre AT TIME ZONE.
func (r *AnalyticsRepo) SalesByBucket(
	_ context.Context,
	unit repository.BucketUnit,
	loc *time.Location,
	from, to time.Time,
) ([]repository.SalesBucketResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	buckets := make(map[time.Time]*repository.SalesBucketResult)
	for _, ss := range r.s.sales {
		if !inRange(ss.sale.CreatedAt, from, to) {
			continue
		}
		key := truncate(ss.sale.CreatedAt.In(loc), unit)
		b, ok := buckets[key]
		if !ok {
			b = &repository.SalesBucketResult{Bucket: key, Revenue: decimal.Zero, Cost: decimal.Zero}
			buckets[key] = b
		}
		b.Revenue = b.Revenue.Add(ss.sale.TotalAmount)
		b.Cost = b.Cost.Add(r.saleCost(ss.sale))
		b.Count++
	}

	out := make([]repository.SalesBucketResult, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket.Before(out[j].Bucket) })
	return out, nil
}

func (r *AnalyticsRepo) SalesBySaleType(_ context.Context) ([]repository.SaleTypeResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	byType := make(map[string]*repository.SaleTypeResult)
	for _, ss := range r.s.sales {
		t, ok := byType[ss.sale.SaleType]
		if !ok {
			t = &repository.SaleTypeResult{SaleType: ss.sale.SaleType, Revenue: decimal.Zero, Cost: decimal.Zero}
			byType[ss.sale.SaleType] = t
		}
		t.Count++
		t.Revenue = t.Revenue.Add(ss.sale.TotalAmount)
		t.Cost = t.Cost.Add(r.saleCost(ss.sale))
	}

	out := make([]repository.SaleTypeResult, 0, len(byType))
	for _, t := range byType {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaleType < out[j].SaleType })
	return out, nil
}

// saleCost Σ qty × purchase_price. Requiere r.s.mu tomado.
func (r *AnalyticsRepo) saleCost(sale entity.Sale) decimal.Decimal {
	cost := decimal.Zero
	for _, line := range sale.Lines {
		p := r.s.products[line.ProductID]
		cost = cost.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return cost
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// truncate devuelve el inicio del periodo como fecha de pared en UTC.
func truncate(t time.Time, unit repository.BucketUnit) time.Time {
	if unit == repository.BucketMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
