package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/ports"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/logger"
)

// unknownProductName se muestra en listados cuando el movimiento referencia un producto inexistente.
const unknownProductName = "Desconocido"

// LedgerUseCase registra movimientos en el libro de inventario de forma transaccional
// con bloqueo de fila del producto (SELECT FOR NO KEY UPDATE) y Commit/Rollback.
// No expone update ni delete: las correcciones son movimientos compensatorios.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
	cache    ports.ReportCache
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. cache y log pueden ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.StockMovementRepository,
	cache ports.ReportCache,
	log *logger.Logger,
) *LedgerUseCase {
	if cache == nil {
		cache = ports.NoopReportCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		cache:    cache,
		log:      log.Component("ledger"),
		now:      time.Now,
	}
}

// AppendMovementInput entrada para agregar un movimiento al libro.
type AppendMovementInput struct {
	ProductID  string
	Direction  string
	Quantity   int
	BatchLabel string
	Notes      string
}

// MovementResult resultado de un movimiento confirmado.
type MovementResult struct {
	MovementID  string
	ProductName string
	NewStock    int
}

// Append valida, bloquea el producto, verifica stock en salidas y agrega el movimiento.
// Errores: ErrInvalidQuantity, ErrInvalidInput, *ProductNotFoundError, *InsufficientStockError.
func (uc *LedgerUseCase) Append(ctx context.Context, in AppendMovementInput) (*MovementResult, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("product_id requerido: %w", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Quantity > entity.MaxQuantity {
		return nil, fmt.Errorf("la cantidad no puede superar %d: %w", entity.MaxQuantity, domain.ErrInvalidInput)
	}
	if !entity.ValidDirection(in.Direction) {
		return nil, fmt.Errorf("dirección %q no admitida: %w", in.Direction, domain.ErrInvalidInput)
	}
	if in.Direction == entity.DirectionIn && in.BatchLabel == "" {
		in.BatchLabel = entity.DefaultBatchLabel
	}

	var result MovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		locked, err := productRepo.LockForUpdate(ctx, []string{in.ProductID})
		if err != nil {
			return err
		}
		if len(locked) == 0 {
			return &domain.ProductNotFoundError{ProductID: in.ProductID}
		}
		product := locked[0]

		level, err := movRepo.StockLevel(ctx, product.ID)
		if err != nil {
			return err
		}
		if in.Direction == entity.DirectionOut {
			if err := inventory.EnsureAvailable(product, level, in.Quantity); err != nil {
				return err
			}
		}

		mov := &entity.StockMovement{
			ID:         uuid.New().String(),
			ProductID:  product.ID,
			Direction:  in.Direction,
			Quantity:   in.Quantity,
			BatchLabel: in.BatchLabel,
			Notes:      in.Notes,
			CreatedAt:  uc.now(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}

		newStock := level.Current() + in.Quantity
		if in.Direction == entity.DirectionOut {
			newStock = level.Current() - in.Quantity
		}
		result = MovementResult{MovementID: mov.ID, ProductName: product.Name, NewStock: newStock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateReports(ctx)
	uc.log.Info().
		Str("movement_id", result.MovementID).
		Str("product_id", in.ProductID).
		Str("direction", in.Direction).
		Int("quantity", in.Quantity).
		Int("new_stock", result.NewStock).
		Msg("movimiento registrado")
	return &result, nil
}

// StockIn registra una entrada de mercancía.
func (uc *LedgerUseCase) StockIn(ctx context.Context, productID string, quantity int, batch, notes string) (*MovementResult, error) {
	return uc.Append(ctx, AppendMovementInput{
		ProductID:  productID,
		Direction:  entity.DirectionIn,
		Quantity:   quantity,
		BatchLabel: batch,
		Notes:      notes,
	})
}

// ListRecent devuelve los últimos movimientos, más recientes primero.
// Cada llamada re-ejecuta la consulta con el mismo orden.
func (uc *LedgerUseCase) ListRecent(ctx context.Context, limit int) ([]dto.MovementResponse, error) {
	limit = dto.ClampLimit(limit, dto.DefaultRecentLimit, dto.MaxRecentLimit)
	list, err := uc.movRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		name := m.ProductName
		if name == "" {
			name = unknownProductName
		}
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			ProductName: name,
			Direction:   m.Direction,
			Quantity:    m.Quantity,
			BatchNumber: m.BatchLabel,
			Notes:       m.Notes,
			SaleID:      m.SaleID,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

func (uc *LedgerUseCase) invalidateReports(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de reportes")
	}
}
