package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/ports"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

const defaultInvoiceAttempts = 3

// SaleConfig parámetros del procesador de ventas. Los campos vacíos toman valores por defecto.
type SaleConfig struct {
	Location        *time.Location             // zona de la fecha del número de factura (UTC)
	InvoiceAttempts int                        // intentos ante colisión de número de factura (3)
	InvoiceNumbers  func(now time.Time) string // generador de números (INV-YYYYMMDD-XXXXXX)
	Now             func() time.Time           // reloj (time.Now)
}

// CreateSaleUseCase valida disponibilidad y persiste cabecera, líneas y salidas del libro
// en una sola transacción.
type CreateSaleUseCase struct {
	txRunner       TxRunner
	cache          ports.ReportCache
	log            *logger.Logger
	attempts       int
	invoiceNumbers func(time.Time) string
	now            func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso. cache y log pueden ser nil.
func NewCreateSaleUseCase(txRunner TxRunner, cache ports.ReportCache, log *logger.Logger, cfg SaleConfig) *CreateSaleUseCase {
	if cache == nil {
		cache = ports.NoopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.InvoiceAttempts <= 0 {
		cfg.InvoiceAttempts = defaultInvoiceAttempts
	}
	if cfg.InvoiceNumbers == nil {
		cfg.InvoiceNumbers = NewInvoiceNumberGenerator(cfg.Location)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &CreateSaleUseCase{
		txRunner:       txRunner,
		cache:          cache,
		log:            log.Component("sales"),
		attempts:       cfg.InvoiceAttempts,
		invoiceNumbers: cfg.InvoiceNumbers,
		now:            cfg.Now,
	}
}

// saleLine línea ya validada.
type saleLine struct {
	productID string
	quantity  int
	unitPrice decimal.Decimal
}

// CreateSale procesa una venta multi-línea.
//
//  1. Valida la forma del pedido sin tocar la BD (ErrMalformedRequest).
//  2. Dentro de la transacción bloquea los productos en orden de ID, resuelve cada uno
//     (*ProductNotFoundError) y verifica stock contra la suma pedida por producto
//     (*InsufficientStockError). Todo se valida antes de escribir.
//  3. total_amount = Σ(quantity × unit_price), calculado aquí.
//  4. Inserta cabecera, líneas y una salida del libro por línea; cualquier error hace rollback.
//
// Una colisión del número de factura reintenta la unidad completa con un número nuevo,
// hasta SaleConfig.InvoiceAttempts; después devuelve ErrDuplicateInvoice.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*entity.Sale, error) {
	paymentMethod, lines, err := validateShape(in)
	if err != nil {
		return nil, err
	}

	productIDs := make([]string, len(lines))
	quantities := make([]int, len(lines))
	total := decimal.Zero
	for i, l := range lines {
		productIDs[i] = l.productID
		quantities[i] = l.quantity
		total = total.Add(l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity))))
	}
	order, requested, err := inventory.AggregateQuantities(productIDs, quantities)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		sale := uc.newSale(in.SaleType, paymentMethod, total.Round(2), lines)
		err := uc.commit(ctx, sale, order, requested)
		if errors.Is(err, domain.ErrDuplicateInvoice) && attempt < uc.attempts {
			uc.log.Warn().
				Str("invoice_number", sale.InvoiceNumber).
				Int("attempt", attempt).
				Msg("colisión de número de factura, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
		}
		uc.log.Info().
			Str("sale_id", sale.ID).
			Str("invoice_number", sale.InvoiceNumber).
			Str("total_amount", sale.TotalAmount.StringFixed(2)).
			Int("lines", len(sale.Lines)).
			Msg("venta registrada")
		return sale, nil
	}
}

func (uc *CreateSaleUseCase) newSale(saleType, paymentMethod string, total decimal.Decimal, lines []saleLine) *entity.Sale {
	now := uc.now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		InvoiceNumber: uc.invoiceNumbers(now),
		SaleType:      saleType,
		PaymentMethod: paymentMethod,
		TotalAmount:   total,
		CreatedAt:     now,
		Lines:         make([]entity.SaleLineItem, 0, len(lines)),
	}
	for _, l := range lines {
		sale.Lines = append(sale.Lines, entity.SaleLineItem{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: l.unitPrice,
		})
	}
	return sale
}

func (uc *CreateSaleUseCase) commit(ctx context.Context, sale *entity.Sale, order []string, requested map[string]int) error {
	return uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Bloqueo por producto: dos ventas del mismo producto se serializan aquí;
		// ventas con productos disjuntos no se esperan.
		locked, err := productRepo.LockForUpdate(ctx, order)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Product, len(locked))
		for _, p := range locked {
			byID[p.ID] = p
		}
		for _, id := range order {
			if byID[id] == nil {
				return &domain.ProductNotFoundError{ProductID: id}
			}
		}
		for _, id := range order {
			level, err := movRepo.StockLevel(ctx, id)
			if err != nil {
				return err
			}
			if err := inventory.EnsureAvailable(byID[id], level, requested[id]); err != nil {
				return err
			}
		}

		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		notes := "Venta: " + sale.InvoiceNumber
		for _, line := range sale.Lines {
			mov := &entity.StockMovement{
				ID:        uuid.New().String(),
				ProductID: line.ProductID,
				Direction: entity.DirectionOut,
				Quantity:  line.Quantity,
				Notes:     notes,
				SaleID:    sale.ID,
				CreatedAt: sale.CreatedAt,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}
		return nil
	})
}

// validateShape revisa el pedido sin acceder a la BD. Devuelve el medio de pago efectivo.
func validateShape(in dto.CreateSaleRequest) (string, []saleLine, error) {
	if !entity.ValidSaleType(in.SaleType) {
		return "", nil, domain.Malformed("sale_type debe ser retail o wholesale")
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.PaymentCash
	}
	if !entity.ValidPaymentMethod(paymentMethod) {
		return "", nil, domain.Malformed("payment_method %q no admitido", paymentMethod)
	}
	if len(in.Items) == 0 {
		return "", nil, domain.Malformed("la venta debe tener al menos un ítem")
	}
	lines := make([]saleLine, 0, len(in.Items))
	for i, item := range in.Items {
		if item.ProductID == "" {
			return "", nil, domain.Malformed("items[%d].product_id requerido", i)
		}
		if item.Quantity <= 0 {
			return "", nil, domain.Malformed("items[%d].quantity debe ser mayor a cero", i)
		}
		if item.Quantity > entity.MaxQuantity {
			return "", nil, domain.Malformed("items[%d].quantity no puede superar %d", i, entity.MaxQuantity)
		}
		if item.UnitPrice == nil || item.UnitPrice.IsNegative() {
			return "", nil, domain.Malformed("items[%d].unit_price debe ser mayor o igual a cero", i)
		}
		lines = append(lines, saleLine{
			productID: item.ProductID,
			quantity:  item.Quantity,
			unitPrice: item.UnitPrice.Round(2),
		})
	}
	return paymentMethod, lines, nil
}
