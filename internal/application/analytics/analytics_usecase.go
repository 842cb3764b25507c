// Package analytics contiene los reportes de solo lectura sobre ventas, líneas y el libro
// de inventario: rendimiento por producto, categoría y marca, tendencias y resúmenes.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/ports"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

const (
	paretoThreshold          = 80 // el top de productos que acumula el 80% de ingresos
	defaultLowStockThreshold = 10
	unclassified             = "Sin clasificar"
)

var (
	hundred  = decimal.NewFromInt(100)
	pareto80 = decimal.NewFromInt(paretoThreshold)
)

// Config parámetros de los reportes.
type Config struct {
	Location          *time.Location   // referencia de calendario para periodos y "hoy" (UTC)
	LowStockThreshold int              // stock por debajo del cual un producto es "bajo" (10)
	Now               func() time.Time // reloj (time.Now)
}

// AnalyticsUseCase orquesta las consultas y aplica las reglas de negocio:
//   - profit = revenue - cost, margen = profit / revenue (0 sin ingresos).
//   - Series temporales con periodos vacíos en cero.
//   - Participación acumulada de ingresos (Pareto) por producto.
//
// Todas las operaciones son lecturas; con tablas vacías devuelven ceros.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	movRepo       repository.StockMovementRepository
	cache         ports.ReportCache
	log           *logger.Logger
	loc           *time.Location
	lowStock      int
	now           func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso. cache y log pueden ser nil.
func NewAnalyticsUseCase(
	analyticsRepo repository.AnalyticsRepository,
	movRepo repository.StockMovementRepository,
	cache ports.ReportCache,
	log *logger.Logger,
	cfg Config,
) *AnalyticsUseCase {
	if cache == nil {
		cache = ports.NoopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = defaultLowStockThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AnalyticsUseCase{
		analyticsRepo: analyticsRepo,
		movRepo:       movRepo,
		cache:         cache,
		log:           log.Component("analytics"),
		loc:           cfg.Location,
		lowStock:      cfg.LowStockThreshold,
		now:           cfg.Now,
	}
}

// ProductPerformance métricas por producto ordenadas por ingresos.
// includeZero incluye productos sin ventas con métricas en cero.
func (uc *AnalyticsUseCase) ProductPerformance(ctx context.Context, includeZero bool) (*dto.ProductPerformanceReport, error) {
	key := fmt.Sprintf("product-performance:%t", includeZero)
	return cached(ctx, uc, key, func() (*dto.ProductPerformanceReport, error) {
		rows, levels, err := uc.salesWithStock(ctx)
		if err != nil {
			return nil, fmt.Errorf("analytics: rendimiento por producto: %w", err)
		}

		report := &dto.ProductPerformanceReport{
			TotalRevenue: decimal.Zero,
			TotalProfit:  decimal.Zero,
			Products:     make([]dto.ProductPerformanceDTO, 0, len(rows)),
		}
		for _, r := range rows {
			if r.UnitsSold == 0 && !includeZero {
				continue
			}
			profit := r.Revenue.Sub(r.Cost)
			report.TotalRevenue = report.TotalRevenue.Add(r.Revenue)
			report.TotalProfit = report.TotalProfit.Add(profit)
			report.Products = append(report.Products, dto.ProductPerformanceDTO{
				ProductID:    r.ProductID,
				SKU:          r.SKU,
				ProductName:  r.ProductName,
				Category:     r.Category,
				Brand:        r.Brand,
				UnitsSold:    r.UnitsSold,
				Revenue:      r.Revenue.Round(2),
				Cost:         r.Cost.Round(2),
				Profit:       profit.Round(2),
				MarginPct:    marginPct(profit, r.Revenue),
				CurrentStock: levels[r.ProductID].Current(),
			})
		}

		sort.SliceStable(report.Products, func(i, j int) bool {
			return report.Products[i].Revenue.GreaterThan(report.Products[j].Revenue)
		})

		// Participación y acumulado (Pareto)
		cumulative := decimal.Zero
		for i := range report.Products {
			p := &report.Products[i]
			p.RevenuePct = sharePct(p.Revenue, report.TotalRevenue)
			cumulative = cumulative.Add(p.RevenuePct)
			p.CumulativeRevPct = cumulative.Round(2)
			// Entra al top si el acumulado previo aún no alcanzaba el 80%
			p.IsTopPareto = p.Revenue.IsPositive() && cumulative.Sub(p.RevenuePct).LessThan(pareto80)
		}
		report.TotalRevenue = report.TotalRevenue.Round(2)
		report.TotalProfit = report.TotalProfit.Round(2)
		return report, nil
	})
}

// CategoryPerformance rollup por categoría del producto.
func (uc *AnalyticsUseCase) CategoryPerformance(ctx context.Context) (*dto.GroupPerformanceReport, error) {
	return cached(ctx, uc, "category-performance", func() (*dto.GroupPerformanceReport, error) {
		return uc.groupPerformance(ctx, "category", func(r repository.ProductSalesResult) string { return r.Category })
	})
}

// BrandPerformance rollup por marca del producto.
func (uc *AnalyticsUseCase) BrandPerformance(ctx context.Context) (*dto.GroupPerformanceReport, error) {
	return cached(ctx, uc, "brand-performance", func() (*dto.GroupPerformanceReport, error) {
		return uc.groupPerformance(ctx, "brand", func(r repository.ProductSalesResult) string { return r.Brand })
	})
}

func (uc *AnalyticsUseCase) groupPerformance(
	ctx context.Context,
	groupBy string,
	keyOf func(repository.ProductSalesResult) string,
) (*dto.GroupPerformanceReport, error) {
	rows, levels, err := uc.salesWithStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("analytics: rendimiento por %s: %w", groupBy, err)
	}

	groups := make(map[string]*dto.GroupPerformanceDTO)
	var order []string
	totalRevenue := decimal.Zero
	for _, r := range rows {
		name := keyOf(r)
		if name == "" {
			name = unclassified
		}
		g, ok := groups[name]
		if !ok {
			g = &dto.GroupPerformanceDTO{Name: name, Revenue: decimal.Zero, Cost: decimal.Zero}
			groups[name] = g
			order = append(order, name)
		}
		g.ProductCount++
		g.UnitsSold += r.UnitsSold
		g.Revenue = g.Revenue.Add(r.Revenue)
		g.Cost = g.Cost.Add(r.Cost)
		g.CurrentStock += levels[r.ProductID].Current()
		totalRevenue = totalRevenue.Add(r.Revenue)
	}

	report := &dto.GroupPerformanceReport{GroupBy: groupBy, Groups: make([]dto.GroupPerformanceDTO, 0, len(order))}
	for _, name := range order {
		g := groups[name]
		profit := g.Revenue.Sub(g.Cost)
		g.Profit = profit.Round(2)
		g.MarginPct = marginPct(profit, g.Revenue)
		g.RevenuePct = sharePct(g.Revenue, totalRevenue)
		g.Revenue = g.Revenue.Round(2)
		g.Cost = g.Cost.Round(2)
		report.Groups = append(report.Groups, *g)
	}
	sort.SliceStable(report.Groups, func(i, j int) bool {
		if report.Groups[i].Revenue.Equal(report.Groups[j].Revenue) {
			return report.Groups[i].Name < report.Groups[j].Name
		}
		return report.Groups[i].Revenue.GreaterThan(report.Groups[j].Revenue)
	})
	return report, nil
}

// Overview ingresos totales, número de ventas, ingresos de hoy y venta promedio.
// "Hoy" es el día de calendario actual en la zona configurada.
func (uc *AnalyticsUseCase) Overview(ctx context.Context) (*dto.OverviewDTO, error) {
	return cached(ctx, uc, "overview", func() (*dto.OverviewDTO, error) {
		todayStart := startOfDay(uc.now().In(uc.loc))
		todayEnd := todayStart.AddDate(0, 0, 1)

		var (
			totalRevenue, todayRevenue decimal.Decimal
			totalCount, todayCount     int
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			totalRevenue, totalCount, err = uc.analyticsRepo.SalesTotals(gctx, time.Time{}, time.Time{})
			return err
		})
		g.Go(func() error {
			var err error
			todayRevenue, todayCount, err = uc.analyticsRepo.SalesTotals(gctx, todayStart, todayEnd)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("analytics: resumen: %w", err)
		}

		avg := decimal.Zero
		if totalCount > 0 {
			avg = totalRevenue.Div(decimal.NewFromInt(int64(totalCount))).Round(2)
		}
		return &dto.OverviewDTO{
			TotalRevenue:      totalRevenue.Round(2),
			TotalTransactions: totalCount,
			TodayRevenue:      todayRevenue.Round(2),
			TodayTransactions: todayCount,
			AverageSale:       avg,
			Timezone:          uc.loc.String(),
		}, nil
	})
}

// ProfitSummary ingresos, costo y utilidad totales con desglose por tipo de venta.
func (uc *AnalyticsUseCase) ProfitSummary(ctx context.Context) (*dto.ProfitSummaryDTO, error) {
	return cached(ctx, uc, "profit-summary", func() (*dto.ProfitSummaryDTO, error) {
		rows, err := uc.analyticsRepo.SalesBySaleType(ctx)
		if err != nil {
			return nil, fmt.Errorf("analytics: utilidad por tipo de venta: %w", err)
		}
		byType := make(map[string]repository.SaleTypeResult, len(rows))
		for _, r := range rows {
			byType[r.SaleType] = r
		}

		out := &dto.ProfitSummaryDTO{}
		revenue, cost := decimal.Zero, decimal.Zero
		for _, saleType := range []string{entity.SaleTypeRetail, entity.SaleTypeWholesale} {
			r := byType[saleType]
			profit := r.Revenue.Sub(r.Cost)
			revenue = revenue.Add(r.Revenue)
			cost = cost.Add(r.Cost)
			out.BySaleType = append(out.BySaleType, dto.SaleTypeProfitDTO{
				SaleType:     saleType,
				Transactions: r.Count,
				Revenue:      r.Revenue.Round(2),
				Cost:         r.Cost.Round(2),
				Profit:       profit.Round(2),
				MarginPct:    marginPct(profit, r.Revenue),
			})
		}
		profit := revenue.Sub(cost)
		out.TotalRevenue = revenue.Round(2)
		out.TotalCost = cost.Round(2)
		out.TotalProfit = profit.Round(2)
		out.MarginPct = marginPct(profit, revenue)
		return out, nil
	})
}

// InventoryValuation valor del inventario al costo y productos con stock bajo o agotado.
func (uc *AnalyticsUseCase) InventoryValuation(ctx context.Context) (*dto.InventoryValuationDTO, error) {
	return cached(ctx, uc, "inventory-valuation", func() (*dto.InventoryValuationDTO, error) {
		rows, levels, err := uc.salesWithStock(ctx)
		if err != nil {
			return nil, fmt.Errorf("analytics: valorización de inventario: %w", err)
		}
		out := &dto.InventoryValuationDTO{
			TotalProducts:     len(rows),
			TotalValue:        decimal.Zero,
			LowStockThreshold: uc.lowStock,
			LowStock:          []dto.LowStockItemDTO{},
		}
		for _, r := range rows {
			stock := levels[r.ProductID].Current()
			out.TotalUnits += stock
			out.TotalValue = out.TotalValue.Add(r.PurchasePrice.Mul(decimal.NewFromInt(int64(stock))))
			if stock <= 0 {
				out.OutOfStockCount++
			}
			if stock < uc.lowStock {
				out.LowStockCount++
				out.LowStock = append(out.LowStock, dto.LowStockItemDTO{
					ProductID:    r.ProductID,
					SKU:          r.SKU,
					ProductName:  r.ProductName,
					CurrentStock: stock,
				})
			}
		}
		sort.SliceStable(out.LowStock, func(i, j int) bool {
			return out.LowStock[i].CurrentStock < out.LowStock[j].CurrentStock
		})
		out.TotalValue = out.TotalValue.Round(2)
		return out, nil
	})
}

// salesWithStock consulta en paralelo las ventas por producto y los niveles de stock.
func (uc *AnalyticsUseCase) salesWithStock(ctx context.Context) ([]repository.ProductSalesResult, map[string]entity.StockLevel, error) {
	var (
		rows   []repository.ProductSalesResult
		levels map[string]entity.StockLevel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = uc.analyticsRepo.ProductSales(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		levels, err = uc.movRepo.StockLevels(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rows, levels, nil
}

// cached devuelve el reporte de la caché o lo calcula y lo guarda bajo la generación
// leída antes de calcular. Un fallo de la caché nunca impide responder.
func cached[T any](ctx context.Context, uc *AnalyticsUseCase, key string, compute func() (T, error)) (T, error) {
	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Str("report", key).Msg("caché no disponible")
		return compute()
	}

	var hit T
	found, err := uc.cache.Get(ctx, gen, key, &hit)
	if err != nil {
		uc.log.Warn().Err(err).Str("report", key).Msg("lectura de caché fallida")
	}
	if found && err == nil {
		return hit, nil
	}
	value, err := compute()
	if err != nil {
		return value, err
	}
	if err := uc.cache.Set(ctx, gen, key, value); err != nil {
		uc.log.Warn().Err(err).Str("report", key).Msg("escritura de caché fallida")
	}
	return value, nil
}

// marginPct = profit / revenue * 100, redondeado a 2 decimales. 0 si no hay ingresos.
func marginPct(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(2)
}

// sharePct = part / total * 100. 0 si total es cero.
func sharePct(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}
