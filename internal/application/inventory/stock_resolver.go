package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// StockResolver deriva el stock actual desde el libro. No existe contador almacenado.
type StockResolver struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewStockResolver construye el resolver.
func NewStockResolver(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *StockResolver {
	return &StockResolver{movRepo: movRepo, productRepo: productRepo}
}

// CurrentStock devuelve Σin - Σout del producto, sin recortar a cero.
func (r *StockResolver) CurrentStock(ctx context.Context, productID string) (int, error) {
	level, err := r.Level(ctx, productID)
	if err != nil {
		return 0, err
	}
	return level.Current(), nil
}

// Level devuelve los agregados de entradas y salidas. *ProductNotFoundError si el producto no existe.
func (r *StockResolver) Level(ctx context.Context, productID string) (entity.StockLevel, error) {
	product, err := r.productRepo.GetByID(ctx, productID)
	if err != nil {
		return entity.StockLevel{}, err
	}
	if product == nil {
		return entity.StockLevel{}, &domain.ProductNotFoundError{ProductID: productID}
	}
	return r.movRepo.StockLevel(ctx, productID)
}

// Levels devuelve los agregados de todos los productos con movimientos.
func (r *StockResolver) Levels(ctx context.Context) (map[string]entity.StockLevel, error) {
	return r.movRepo.StockLevels(ctx)
}

// Reconcile compara el agregado del repositorio con el recálculo sobre el historial completo.
func (r *StockResolver) Reconcile(ctx context.Context, productID string) (*dto.StockResponse, bool, error) {
	level, err := r.Level(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	history, err := r.movRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	recomputed := inventory.LevelFromMovements(productID, history)
	resp := &dto.StockResponse{
		ProductID:    productID,
		StockIn:      level.In,
		StockOut:     level.Out,
		CurrentStock: level.Current(),
	}
	return resp, recomputed == level, nil
}
