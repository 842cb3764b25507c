package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Create y Update se aplican de inmediato.
type ProductRepo struct {
	s  *Store
	tx *tx
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.products[product.ID]; exists {
		return domain.ErrDuplicate
	}
	if _, exists := r.s.skus[product.SKU]; exists {
		return domain.ErrDuplicate
	}
	r.s.products[product.ID] = *product
	r.s.skus[product.SKU] = product.ID
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.skus[sku]
	if !ok {
		return nil, nil
	}
	p := r.s.products[id]
	return &p, nil
}

// Update reemplaza los campos editables. El SKU no cambia.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *product
	updated.SKU = current.SKU
	updated.CreatedAt = current.CreatedAt
	r.s.products[product.ID] = updated
	return nil
}

// List ordenado por nombre e ID.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	list := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		p := p
		list = append(list, &p)
	}
	r.s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].Name == list[j].Name {
			return list[i].ID < list[j].ID
		}
		return list[i].Name < list[j].Name
	})
	if offset >= len(list) {
		return []*entity.Product{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// LockForUpdate dentro de una transacción bloquea los productos hasta el commit o rollback.
func (r *ProductRepo) LockForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if r.tx != nil {
		r.tx.lock(ids)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	var list []*entity.Product
	seen := make(map[string]bool, len(sorted))
	for _, id := range sorted {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			list = append(list, p)
		}
	}
	return list, nil
}
