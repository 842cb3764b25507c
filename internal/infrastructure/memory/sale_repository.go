package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	s  *Store
	tx *tx
}

// Create registra la venta con sus líneas. ErrDuplicateInvoice si el número ya existe.
func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.invoices[sale.InvoiceNumber]; taken {
		return domain.ErrDuplicateInvoice
	}
	if _, exists := r.s.sales[sale.ID]; exists {
		return domain.ErrDuplicate
	}
	copied := *sale
	copied.Lines = append([]entity.SaleLineItem(nil), sale.Lines...)

	if r.tx != nil {
		for _, pending := range r.tx.sales {
			if pending.InvoiceNumber == sale.InvoiceNumber {
				return domain.ErrDuplicateInvoice
			}
		}
		r.tx.sales = append(r.tx.sales, copied)
		return nil
	}
	r.s.seq++
	r.s.sales[copied.ID] = &storedSale{sale: copied, seq: r.s.seq}
	r.s.invoices[copied.InvoiceNumber] = copied.ID
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	sale := stored.sale
	sale.Lines = append([]entity.SaleLineItem(nil), stored.sale.Lines...)
	return &sale, nil
}

// ListRecent más recientes primero.
func (r *SaleRepo) ListRecent(_ context.Context, limit int) ([]*entity.SaleSummary, error) {
	r.s.mu.RLock()
	stored := make([]*storedSale, 0, len(r.s.sales))
	for _, ss := range r.s.sales {
		stored = append(stored, ss)
	}
	r.s.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i], stored[j]
		if a.sale.CreatedAt.Equal(b.sale.CreatedAt) {
			return a.seq > b.seq
		}
		return a.sale.CreatedAt.After(b.sale.CreatedAt)
	})
	if limit > 0 && limit < len(stored) {
		stored = stored[:limit]
	}
	out := make([]*entity.SaleSummary, 0, len(stored))
	for _, ss := range stored {
		out = append(out, &entity.SaleSummary{
			ID:            ss.sale.ID,
			InvoiceNumber: ss.sale.InvoiceNumber,
			SaleType:      ss.sale.SaleType,
			PaymentMethod: ss.sale.PaymentMethod,
			TotalAmount:   ss.sale.TotalAmount,
			ItemsCount:    len(ss.sale.Lines),
			CreatedAt:     ss.sale.CreatedAt,
		})
	}
	return out, nil
}

// ListLines líneas en el orden de la venta con los datos del producto.
func (r *SaleRepo) ListLines(_ context.Context, saleID string) ([]*entity.SaleLineDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.sales[saleID]
	if !ok {
		return []*entity.SaleLineDetail{}, nil
	}
	out := make([]*entity.SaleLineDetail, 0, len(stored.sale.Lines))
	for _, line := range stored.sale.Lines {
		p := r.s.products[line.ProductID]
		out = append(out, &entity.SaleLineDetail{
			SaleLineItem: line,
			ProductName:  p.Name,
			ProductBrand: p.Brand,
			ProductSize:  p.Size,
			ProductColor: p.Color,
		})
	}
	return out, nil
}
