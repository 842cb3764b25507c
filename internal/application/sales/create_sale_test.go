package sales_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var invoicePattern = regexp.MustCompile(`^INV-\d{8}-[0-9A-F]{6}$`)

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

// product crea un producto con el stock inicial indicado (como entrada del libro).
func (f *fixture) product(t *testing.T, name, purchase string, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		ID:             uuid.NewString(),
		SKU:            "SKU-" + name,
		Name:           name,
		Category:       "Camisas",
		Brand:          "Marca",
		PurchasePrice:  decimal.RequireFromString(purchase),
		RetailPrice:    decimal.RequireFromString(purchase).Mul(decimal.NewFromInt(2)),
		WholesalePrice: decimal.RequireFromString(purchase),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, f.store.Products().Create(ctx, p))
	if stock > 0 {
		_, err := f.ledger.StockIn(ctx, p.ID, stock, "", "inventario inicial")
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	level, err := f.store.Movements().StockLevel(context.Background(), productID)
	require.NoError(t, err)
	return level.Current()
}

func (f *fixture) saleCount(t *testing.T) int {
	t.Helper()
	list, err := f.store.Sales().ListRecent(context.Background(), 0)
	require.NoError(t, err)
	return len(list)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func item(productID string, qty int, unitPrice string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: qty, UnitPrice: price(unitPrice)}
}

// sequence devuelve un generador que entrega los números en orden y repite el último.
func sequence(numbers ...string) func(time.Time) string {
	i := 0
	return func(time.Time) string {
		n := numbers[i]
		if i < len(numbers)-1 {
			i++
		}
		return n
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_RegistraVentaYDescuentaStock(t *testing.T) {
	f := newFixture()
	camisa := f.product(t, "Camisa", "20.00", 10)
	gorra := f.product(t, "Gorra", "3.00", 5)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType:      entity.SaleTypeRetail,
		PaymentMethod: entity.PaymentCard,
		Items: []dto.SaleItemRequest{
			item(camisa.ID, 2, "10.00"),
			item(gorra.ID, 1, "5.50"),
		},
	})
	require.NoError(t, err)

	assert.Regexp(t, invoicePattern, sale.InvoiceNumber)
	assert.True(t, decimal.RequireFromString("25.50").Equal(sale.TotalAmount), "total = Σ qty × unit_price")
	assert.Equal(t, 8, f.stock(t, camisa.ID))
	assert.Equal(t, 4, f.stock(t, gorra.ID))

	stored, err := f.store.Sales().GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, camisa.ID, stored.Lines[0].ProductID)
	assert.Equal(t, gorra.ID, stored.Lines[1].ProductID)
	assert.Equal(t, entity.PaymentCard, stored.PaymentMethod)

	history, err := f.store.Movements().ListByProduct(context.Background(), camisa.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	out := history[1]
	assert.Equal(t, entity.DirectionOut, out.Direction)
	assert.Equal(t, 2, out.Quantity)
	assert.Equal(t, sale.ID, out.SaleID)
	assert.Equal(t, "Venta: "+sale.InvoiceNumber, out.Notes)
}

func TestCreateSale_MedioDePagoPorDefectoEsEfectivo(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 1)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: entity.SaleTypeWholesale,
		Items:    []dto.SaleItemRequest{item(p.ID, 1, "25")},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)
}

func TestCreateSale_FechaDeFacturaEnZonaConfigurada(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 1)
	bogota := time.FixedZone("COT", -5*60*60)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{
		Location: bogota,
		Now:      func() time.Time { return time.Date(2026, 3, 6, 2, 0, 0, 0, time.UTC) },
	})

	sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items:    []dto.SaleItemRequest{item(p.ID, 1, "40")},
	})
	require.NoError(t, err)
	assert.Contains(t, sale.InvoiceNumber, "INV-20260305-", "en Bogotá aún es 5 de marzo")
}

func TestCreateSale_StockInsuficienteNoEscribeNada(t *testing.T) {
	f := newFixture()
	camisa := f.product(t, "Camisa", "20.00", 5)
	gorra := f.product(t, "Gorra", "3.00", 1)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items: []dto.SaleItemRequest{
			item(camisa.ID, 2, "10.00"),
			item(gorra.ID, 2, "5.00"),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Gorra", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, "stock insuficiente para Gorra. Disponible: 1", err.Error())

	assert.Equal(t, 5, f.stock(t, camisa.ID), "la primera línea no debe descontarse")
	assert.Equal(t, 1, f.stock(t, gorra.ID))
	assert.Equal(t, 0, f.saleCount(t))
}

func TestCreateSale_LineasRepetidasSeSumanAlValidar(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 3)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items:    []dto.SaleItemRequest{item(p.ID, 2, "10"), item(p.ID, 2, "10")},
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, f.stock(t, p.ID))
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 3)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})
	missing := uuid.NewString()

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items:    []dto.SaleItemRequest{item(p.ID, 1, "10"), item(missing, 1, "10")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 3, f.stock(t, p.ID))
	assert.Equal(t, 0, f.saleCount(t))
}

func TestCreateSale_SolicitudMalFormada(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 3)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	cases := map[string]dto.CreateSaleRequest{
		"sin ítems":       {SaleType: entity.SaleTypeRetail},
		"tipo inválido":   {SaleType: "online", Items: []dto.SaleItemRequest{item(p.ID, 1, "10")}},
		"pago inválido":   {SaleType: entity.SaleTypeRetail, PaymentMethod: "crypto", Items: []dto.SaleItemRequest{item(p.ID, 1, "10")}},
		"cantidad cero":   {SaleType: entity.SaleTypeRetail, Items: []dto.SaleItemRequest{item(p.ID, 0, "10")}},
		"precio negativo": {SaleType: entity.SaleTypeRetail, Items: []dto.SaleItemRequest{item(p.ID, 1, "-1")}},
		"sin precio":      {SaleType: entity.SaleTypeRetail, Items: []dto.SaleItemRequest{{ProductID: p.ID, Quantity: 1}}},
		"sin producto":    {SaleType: entity.SaleTypeRetail, Items: []dto.SaleItemRequest{item("", 1, "10")}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.CreateSale(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrMalformedRequest)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 3, f.stock(t, p.ID))
	assert.Equal(t, 0, f.saleCount(t))
}

func TestCreateSale_CantidadesEnormesSeRechazan(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 10)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	cases := map[string][]dto.SaleItemRequest{
		"línea mayor al máximo":       {item(p.ID, entity.MaxQuantity+1, "1")},
		"líneas que desbordan int":    {item(p.ID, 1<<62, "1"), item(p.ID, 1<<62, "1")},
		"líneas que superan el total": {item(p.ID, entity.MaxQuantity, "1"), item(p.ID, 1, "1")},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			sale, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
				SaleType: entity.SaleTypeRetail,
				Items:    items,
			})
			assert.Nil(t, sale)
			assert.ErrorIs(t, err, domain.ErrMalformedRequest)
		})
	}
	assert.Equal(t, 10, f.stock(t, p.ID))
	assert.Equal(t, 0, f.saleCount(t))
}

// failingMovements falla en la salida número failOn, después de que la cabecera ya se escribió.
type failingMovements struct {
	repository.StockMovementRepository
	failOn int
	calls  int
}

var errDiskFull = errors.New("disco lleno")

func (m *failingMovements) Create(ctx context.Context, mov *entity.StockMovement) error {
	m.calls++
	if m.calls == m.failOn {
		return errDiskFull
	}
	return m.StockMovementRepository.Create(ctx, mov)
}

// failingTxRunner envuelve el store y sustituye el repositorio de movimientos de la transacción.
type failingTxRunner struct {
	store  *memory.Store
	failOn int
}

func (r failingTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.store.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		return fn(&failingMovements{StockMovementRepository: movRepo, failOn: r.failOn}, productRepo, saleRepo)
	})
}

func TestCreateSale_FalloTrasEscribirCabeceraRevierteTodo(t *testing.T) {
	f := newFixture()
	camisa := f.product(t, "Camisa", "20.00", 5)
	gorra := f.product(t, "Gorra", "3.00", 4)
	uc := sales.NewCreateSaleUseCase(failingTxRunner{store: f.store, failOn: 2}, nil, nil, sales.SaleConfig{})

	_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items:    []dto.SaleItemRequest{item(camisa.ID, 2, "10"), item(gorra.ID, 1, "5")},
	})
	require.ErrorIs(t, err, errDiskFull)

	assert.Equal(t, 0, f.saleCount(t), "la cabecera no debe quedar confirmada")
	assert.Equal(t, 5, f.stock(t, camisa.ID), "la primera salida no debe quedar confirmada")
	assert.Equal(t, 4, f.stock(t, gorra.ID))
	movs, err := f.store.Movements().ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2, "solo las entradas iniciales")
	perf, err := f.store.Analytics().ProductSales(context.Background())
	require.NoError(t, err)
	for _, row := range perf {
		assert.Zero(t, row.UnitsSold, "no deben existir líneas de venta de %s", row.ProductName)
	}
}

func TestCreateSale_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 5)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{})

	const buyers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateSale(context.Background(), dto.CreateSaleRequest{
				SaleType: entity.SaleTypeRetail,
				Items:    []dto.SaleItemRequest{item(p.ID, 1, "40")},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, buyers-5, rejected)
	assert.Equal(t, 0, f.stock(t, p.ID))
	assert.Equal(t, 5, f.saleCount(t))
}

func TestCreateSale_ColisionDeFacturaReintenta(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 5)
	first := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{
		InvoiceNumbers: sequence("INV-20260305-AAAAAA"),
	})
	req := dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items:    []dto.SaleItemRequest{item(p.ID, 1, "40")},
	}
	_, err := first.CreateSale(context.Background(), req)
	require.NoError(t, err)

	second := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{
		InvoiceNumbers: sequence("INV-20260305-AAAAAA", "INV-20260305-BBBBBB"),
	})
	sale, err := second.CreateSale(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "INV-20260305-BBBBBB", sale.InvoiceNumber)
	assert.Equal(t, 3, f.stock(t, p.ID), "el intento fallido no debe dejar salidas")
	assert.Equal(t, 2, f.saleCount(t))
}

func TestCreateSale_ColisionPersistenteDevuelveError(t *testing.T) {
	f := newFixture()
	p := f.product(t, "Camisa", "20.00", 5)
	uc := sales.NewCreateSaleUseCase(f.store, nil, nil, sales.SaleConfig{
		InvoiceNumbers:  sequence("INV-20260305-AAAAAA"),
		InvoiceAttempts: 3,
	})
	req := dto.CreateSaleRequest{
		SaleType: entity.SaleTypeRetail,
		Items:    []dto.SaleItemRequest{item(p.ID, 1, "40")},
	}
	_, err := uc.CreateSale(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.CreateSale(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvoice)
	assert.Equal(t, 4, f.stock(t, p.ID))
	assert.Equal(t, 1, f.saleCount(t))
}
