package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// StockMovementRepository puerto del libro de inventario. Solo agrega; no existe update ni delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListRecent devuelve los últimos movimientos (más recientes primero) con el nombre del producto.
	ListRecent(ctx context.Context, limit int) ([]*entity.StockMovementView, error)
	// ListByProduct devuelve el historial completo de un producto en orden cronológico.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error)
	// StockLevel suma entradas y salidas de un producto.
	StockLevel(ctx context.Context, productID string) (entity.StockLevel, error)
	// StockLevels agrega todos los productos con movimientos.
	StockLevels(ctx context.Context) (map[string]entity.StockLevel, error)
}
