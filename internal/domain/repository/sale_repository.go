package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas (solo creación y lectura).
type SaleRepository interface {
	// Create inserta cabecera y líneas. Devuelve domain.ErrDuplicateInvoice si el número ya existe.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.SaleSummary, error)
	ListLines(ctx context.Context, saleID string) ([]*entity.SaleLineDetail, error)
}
