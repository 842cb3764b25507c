package analytics_test

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
}

func newFixture() *fixture {
	store := memory.New()
	return &fixture{
		store:  store,
		ledger: inventory.NewLedgerUseCase(store, store.Movements(), nil, nil),
	}
}

func (f *fixture) analytics(loc *time.Location) *analytics.AnalyticsUseCase {
	return analytics.NewAnalyticsUseCase(f.store.Analytics(), f.store.Movements(), nil, nil, analytics.Config{
		Location:          loc,
		LowStockThreshold: 10,
		Now:               func() time.Time { return now },
	})
}

func (f *fixture) product(t *testing.T, name, category, brand, purchase string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:             uuid.NewString(),
		SKU:            "SKU-" + name,
		Name:           name,
		Category:       category,
		Brand:          brand,
		PurchasePrice:  decimal.RequireFromString(purchase),
		RetailPrice:    decimal.RequireFromString(purchase),
		WholesalePrice: decimal.RequireFromString(purchase),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	if stock > 0 {
		_, err := f.ledger.StockIn(context.Background(), p.ID, stock, "", "")
		require.NoError(t, err)
	}
	return p
}

// sell registra una venta de una línea en el instante at.
func (f *fixture) sell(t *testing.T, at time.Time, saleType string, p *entity.Product, qty int, unitPrice string) {
	t.Helper()
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{
		Now: func() time.Time { return at },
	})
	price := decimal.RequireFromString(unitPrice)
	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: saleType,
		Items:    []dto.SaleItemRequest{{ProductID: p.ID, Quantity: qty, UnitPrice: &price}},
	})
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// mapCache caché en memoria que serializa como lo haría Redis.
type mapCache struct {
	gen  int
	data map[string][]byte
	sets int
}

func (c *mapCache) Generation(context.Context) (string, error) {
	return strconv.Itoa(c.gen), nil
}

func (c *mapCache) Get(_ context.Context, gen, key string, dst any) (bool, error) {
	raw, ok := c.data[gen+":"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, gen, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[gen+":"+key] = raw
	c.sets++
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.gen++
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProfitSummary_MargenSobreIngresos(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Chaqueta", "Abrigos", "Norte", "200", 5)
	f.sell(t, now, entity.SaleTypeRetail, p, 1, "300")

	out, err := f.analytics(time.UTC).ProfitSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(out.TotalRevenue))
	assert.True(t, dec("200").Equal(out.TotalCost))
	assert.True(t, dec("100").Equal(out.TotalProfit))
	assert.Equal(t, "33.33", out.MarginPct.StringFixed(2))

	require.Len(t, out.BySaleType, 2)
	assert.Equal(t, entity.SaleTypeRetail, out.BySaleType[0].SaleType)
	assert.Equal(t, 1, out.BySaleType[0].Transactions)
	assert.Equal(t, entity.SaleTypeWholesale, out.BySaleType[1].SaleType)
	assert.True(t, out.BySaleType[1].MarginPct.IsZero(), "sin ingresos el margen es 0")
}

func TestProductPerformance_OrdenYPareto(t *testing.T) {
	f := newFixture()
	a := f.product(t, "A", "Camisas", "Norte", "10", 100)
	b := f.product(t, "B", "Camisas", "Sur", "10", 100)
	c := f.product(t, "C", "Gorras", "Sur", "10", 100)
	f.product(t, "D", "Gorras", "Sur", "10", 0)
	f.sell(t, now, entity.SaleTypeRetail, b, 3, "50")  // 150
	f.sell(t, now, entity.SaleTypeRetail, a, 40, "20") // 800
	f.sell(t, now, entity.SaleTypeRetail, c, 5, "10")  // 50

	report, err := f.analytics(time.UTC).ProductPerformance(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, report.Products, 3, "sin include_zero se omiten productos sin ventas")
	assert.True(t, dec("1000").Equal(report.TotalRevenue))

	top := report.Products[0]
	assert.Equal(t, a.ID, top.ProductID)
	assert.Equal(t, 40, top.UnitsSold)
	assert.True(t, dec("400").Equal(top.Profit))
	assert.Equal(t, "50.00", top.MarginPct.StringFixed(2))
	assert.Equal(t, 60, top.CurrentStock)
	assert.Equal(t, "80.00", top.RevenuePct.StringFixed(2))
	assert.True(t, top.IsTopPareto)

	assert.Equal(t, b.ID, report.Products[1].ProductID)
	assert.Equal(t, "95.00", report.Products[1].CumulativeRevPct.StringFixed(2))
	assert.False(t, report.Products[1].IsTopPareto)
	assert.Equal(t, c.ID, report.Products[2].ProductID)

	withZero, err := f.analytics(time.UTC).ProductPerformance(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, withZero.Products, 4)
	last := withZero.Products[3]
	assert.Equal(t, "D", last.ProductName)
	assert.Equal(t, 0, last.UnitsSold)
	assert.True(t, last.MarginPct.IsZero())
	assert.False(t, last.IsTopPareto)
}

func TestCategoryPerformance_AgrupaYNombraSinCategoria(t *testing.T) {
	f := newFixture()
	a := f.product(t, "A", "Camisas", "Norte", "10", 10)
	b := f.product(t, "B", "Camisas", "Sur", "5", 10)
	c := f.product(t, "C", "", "Sur", "1", 10)
	f.sell(t, now, entity.SaleTypeRetail, a, 1, "20")
	f.sell(t, now, entity.SaleTypeRetail, b, 2, "10")
	f.sell(t, now, entity.SaleTypeRetail, c, 1, "2")

	report, err := f.analytics(time.UTC).CategoryPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "category", report.GroupBy)
	require.Len(t, report.Groups, 2)

	camisas := report.Groups[0]
	assert.Equal(t, "Camisas", camisas.Name)
	assert.Equal(t, 2, camisas.ProductCount)
	assert.Equal(t, 3, camisas.UnitsSold)
	assert.True(t, dec("40").Equal(camisas.Revenue))
	assert.True(t, dec("20").Equal(camisas.Profit))
	assert.Equal(t, "50.00", camisas.MarginPct.StringFixed(2))
	assert.Equal(t, 17, camisas.CurrentStock)
	assert.Equal(t, "Sin clasificar", report.Groups[1].Name)

	brands, err := f.analytics(time.UTC).BrandPerformance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "brand", brands.GroupBy)
	require.Len(t, brands.Groups, 2)
	assert.Equal(t, "Sur", brands.Groups[0].Name)
	assert.True(t, dec("22").Equal(brands.Groups[0].Revenue))
}

func TestSalesTrend_RellenaDiasSinVentas(t *testing.T) {
	f := newFixture()
	p := f.product(t, "A", "Camisas", "Norte", "10", 50)
	f.sell(t, now.AddDate(0, 0, -2), entity.SaleTypeRetail, p, 1, "30")
	f.sell(t, now, entity.SaleTypeRetail, p, 2, "30")
	f.sell(t, now.AddDate(0, 0, -10), entity.SaleTypeRetail, p, 1, "30")

	report, err := f.analytics(time.UTC).SalesTrend(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "day", report.Unit)
	require.Len(t, report.Points, 3)
	assert.Equal(t, "2026-03-08", report.Points[0].Period)
	assert.True(t, dec("30").Equal(report.Points[0].Revenue))
	assert.True(t, dec("20").Equal(report.Points[0].Profit))
	assert.Equal(t, "2026-03-09", report.Points[1].Period)
	assert.Equal(t, 0, report.Points[1].Transactions)
	assert.True(t, report.Points[1].Revenue.IsZero())
	assert.Equal(t, "2026-03-10", report.Points[2].Period)
	assert.Equal(t, "10 Mar", report.Points[2].Label)
	assert.True(t, dec("60").Equal(report.Points[2].Revenue))
}

func TestSalesTrend_UsaLaZonaConfigurada(t *testing.T) {
	f := newFixture()
	p := f.product(t, "A", "Camisas", "Norte", "10", 50)
	// 03:00 UTC del 10 de marzo son las 22:00 del 9 en UTC-5.
	f.sell(t, time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), entity.SaleTypeRetail, p, 1, "30")

	bogota := time.FixedZone("COT", -5*60*60)
	report, err := f.analytics(bogota).SalesTrend(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, report.Points, 2)
	assert.Equal(t, "2026-03-09", report.Points[0].Period)
	assert.Equal(t, 1, report.Points[0].Transactions)
	assert.Equal(t, 0, report.Points[1].Transactions)
}

func TestSalesTrend_LimitesDeVentana(t *testing.T) {
	f := newFixture()
	uc := f.analytics(time.UTC)

	def, err := uc.SalesTrend(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, def.Points, 7)

	capped, err := uc.SalesTrend(context.Background(), 500)
	require.NoError(t, err)
	assert.Len(t, capped.Points, 90)
}

func TestMonthlyTrend_MesesConsecutivos(t *testing.T) {
	f := newFixture()
	p := f.product(t, "A", "Camisas", "Norte", "10", 50)
	f.sell(t, time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC), entity.SaleTypeWholesale, p, 4, "15")

	report, err := f.analytics(time.UTC).MonthlyTrend(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "month", report.Unit)
	require.Len(t, report.Points, 3)
	assert.Equal(t, "2026-01", report.Points[0].Period)
	assert.Equal(t, "Enero 2026", report.Points[0].Label)
	assert.True(t, dec("60").Equal(report.Points[0].Revenue))
	assert.Equal(t, "2026-02", report.Points[1].Period)
	assert.True(t, report.Points[1].Revenue.IsZero())
	assert.Equal(t, "2026-03", report.Points[2].Period)

	def, err := f.analytics(time.UTC).MonthlyTrend(context.Background(), -1)
	require.NoError(t, err)
	assert.Len(t, def.Points, 6)
}

func TestOverview_TotalesYHoy(t *testing.T) {
	f := newFixture()
	p := f.product(t, "A", "Camisas", "Norte", "10", 50)
	f.sell(t, now.AddDate(0, 0, -1), entity.SaleTypeRetail, p, 1, "30")
	f.sell(t, now, entity.SaleTypeRetail, p, 1, "45")

	out, err := f.analytics(time.UTC).Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("75").Equal(out.TotalRevenue))
	assert.Equal(t, 2, out.TotalTransactions)
	assert.True(t, dec("45").Equal(out.TodayRevenue))
	assert.Equal(t, 1, out.TodayTransactions)
	assert.Equal(t, "37.50", out.AverageSale.StringFixed(2))
	assert.Equal(t, "UTC", out.Timezone)
}

func TestReportes_SinDatosDevuelvenCeros(t *testing.T) {
	f := newFixture()
	uc := f.analytics(time.UTC)

	overview, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.True(t, overview.AverageSale.IsZero())
	assert.Equal(t, 0, overview.TotalTransactions)

	profit, err := uc.ProfitSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, profit.MarginPct.IsZero())

	perf, err := uc.ProductPerformance(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, perf.Products)

	valuation, err := uc.InventoryValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, valuation.TotalProducts)
	assert.NotNil(t, valuation.LowStock)
}

func TestInventoryValuation_StockBajoYAgotado(t *testing.T) {
	f := newFixture()
	f.product(t, "A", "Camisas", "Norte", "10", 50)
	low := f.product(t, "B", "Camisas", "Norte", "4.50", 3)
	f.product(t, "C", "Gorras", "Sur", "2", 0)

	out, err := f.analytics(time.UTC).InventoryValuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalProducts)
	assert.Equal(t, 53, out.TotalUnits)
	assert.Equal(t, "513.50", out.TotalValue.StringFixed(2))
	assert.Equal(t, 10, out.LowStockThreshold)
	assert.Equal(t, 2, out.LowStockCount)
	assert.Equal(t, 1, out.OutOfStockCount)
	require.Len(t, out.LowStock, 2)
	assert.Equal(t, "C", out.LowStock[0].ProductName)
	assert.Equal(t, low.ID, out.LowStock[1].ProductID)
}

func TestReportes_UsanLaCache(t *testing.T) {
	f := newFixture()
	p := f.product(t, "A", "Camisas", "Norte", "10", 50)
	f.sell(t, now, entity.SaleTypeRetail, p, 1, "30")

	cache := &mapCache{data: map[string][]byte{}}
	uc := analytics.NewAnalyticsUseCase(f.store.Analytics(), f.store.Movements(), cache, nil, analytics.Config{
		Now: func() time.Time { return now },
	})

	first, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Venta registrada sin invalidar: la respuesta sale de la caché.
	f.sell(t, now, entity.SaleTypeRetail, p, 1, "30")
	second, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first.TotalTransactions, second.TotalTransactions)

	require.NoError(t, cache.Invalidate(context.Background()))
	third, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, third.TotalTransactions)
}
