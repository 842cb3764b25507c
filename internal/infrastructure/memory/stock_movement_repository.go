package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro en memoria. Dentro de una transacción las lecturas
// ven lo confirmado más lo pendiente de esa transacción.
type StockMovementRepo struct {
	s  *Store
	tx *tx
}

// Create agrega el movimiento. Fuera de transacción se confirma de inmediato.
func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if m.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if !entity.ValidDirection(m.Direction) {
		return domain.ErrInvalidInput
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[m.ProductID]; !ok {
		return &domain.ProductNotFoundError{ProductID: m.ProductID}
	}
	if r.tx != nil {
		r.tx.movements = append(r.tx.movements, *m)
		return nil
	}
	r.s.seq++
	r.s.movements = append(r.s.movements, storedMovement{StockMovement: *m, seq: r.s.seq})
	return nil
}

// ListRecent más recientes primero; empates por orden de inserción inverso.
func (r *StockMovementRepo) ListRecent(_ context.Context, limit int) ([]*entity.StockMovementView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.snapshot()
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].seq > all[j].seq
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.StockMovementView, 0, len(all))
	for _, m := range all {
		out = append(out, &entity.StockMovementView{
			StockMovement: m.StockMovement,
			ProductName:   r.s.products[m.ProductID].Name,
		})
	}
	return out, nil
}

// ListByProduct historial cronológico del producto.
func (r *StockMovementRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.StockMovement
	for _, m := range r.snapshot() {
		if m.ProductID == productID {
			mov := m.StockMovement
			out = append(out, &mov)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *StockMovementRepo) StockLevel(_ context.Context, productID string) (entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	level := entity.StockLevel{ProductID: productID}
	for _, m := range r.snapshot() {
		if m.ProductID == productID {
			addToLevel(&level, m.StockMovement)
		}
	}
	return level, nil
}

func (r *StockMovementRepo) StockLevels(_ context.Context) (map[string]entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	levels := make(map[string]entity.StockLevel)
	for _, m := range r.snapshot() {
		level := levels[m.ProductID]
		level.ProductID = m.ProductID
		addToLevel(&level, m.StockMovement)
		levels[m.ProductID] = level
	}
	return levels, nil
}

// snapshot confirmados más pendientes de la transacción. Requiere r.s.mu tomado.
func (r *StockMovementRepo) snapshot() []storedMovement {
	all := make([]storedMovement, 0, len(r.s.movements))
	all = append(all, r.s.movements...)
	if r.tx != nil {
		next := r.s.seq
		for _, m := range r.tx.movements {
			next++
			all = append(all, storedMovement{StockMovement: m, seq: next})
		}
	}
	return all
}

func addToLevel(level *entity.StockLevel, m entity.StockMovement) {
	switch m.Direction {
	case entity.DirectionIn:
		level.In += m.Quantity
	case entity.DirectionOut:
		level.Out += m.Quantity
	}
}
