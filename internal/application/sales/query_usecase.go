package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// QueryUseCase lecturas de ventas. Sin efectos secundarios.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// GetSale devuelve la venta con sus líneas resueltas. domain.ErrNotFound si no existe.
func (uc *QueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleDetailResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.ListLines(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}

	out := &dto.SaleDetailResponse{
		ID:            sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		SaleType:      sale.SaleType,
		PaymentMethod: sale.PaymentMethod,
		TotalAmount:   sale.TotalAmount,
		CreatedAt:     sale.CreatedAt,
		Items:         make([]dto.SaleLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Items = append(out.Items, dto.SaleLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Brand:       l.ProductBrand,
			Size:        l.ProductSize,
			Color:       l.ProductColor,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal().Round(2),
		})
	}
	return out, nil
}

// ListRecent últimas ventas con su número de ítems.
func (uc *QueryUseCase) ListRecent(ctx context.Context, limit int) ([]dto.SaleSummaryResponse, error) {
	limit = dto.ClampLimit(limit, dto.DefaultRecentLimit, dto.MaxRecentLimit)
	list, err := uc.saleRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out := make([]dto.SaleSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SaleSummaryResponse{
			ID:            s.ID,
			InvoiceNumber: s.InvoiceNumber,
			SaleType:      s.SaleType,
			PaymentMethod: s.PaymentMethod,
			TotalAmount:   s.TotalAmount,
			ItemsCount:    s.ItemsCount,
			CreatedAt:     s.CreatedAt,
		})
	}
	return out, nil
}
