package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de inventario sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento. Los CHECK de la tabla rechazan cantidad <= 0 y direcciones desconocidas.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, direction, quantity, batch_label, notes, sale_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Direction, m.Quantity,
		nullIfEmpty(m.BatchLabel), nullIfEmpty(m.Notes), nullIfEmpty(m.SaleID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListRecent devuelve los últimos movimientos con el nombre del producto.
func (r *StockMovementRepo) ListRecent(ctx context.Context, limit int) ([]*entity.StockMovementView, error) {
	query := `
		SELECT m.id, m.product_id, m.direction, m.quantity, m.batch_label, m.notes, m.sale_id::text, m.created_at,
		       COALESCE(p.name, '')
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovementView
	for rows.Next() {
		var v entity.StockMovementView
		var batch, notes, saleID *string
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Direction, &v.Quantity, &batch, &notes, &saleID,
			&v.CreatedAt, &v.ProductName); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		v.BatchLabel, v.Notes, v.SaleID = derefString(batch), derefString(notes), derefString(saleID)
		list = append(list, &v)
	}
	return list, rows.Err()
}

// ListByProduct historial completo de un producto en orden cronológico.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockMovement, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, nil
	}
	query := `
		SELECT id, product_id, direction, quantity, batch_label, notes, sale_id::text, created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var batch, notes, saleID *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &batch, &notes, &saleID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.BatchLabel, m.Notes, m.SaleID = derefString(batch), derefString(notes), derefString(saleID)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// StockLevel suma entradas y salidas de un producto. Dentro de una venta se llama después de
// LockForUpdate, así que ve las salidas ya confirmadas por ventas concurrentes.
func (r *StockMovementRepo) StockLevel(ctx context.Context, productID string) (entity.StockLevel, error) {
	level := entity.StockLevel{ProductID: productID}
	if _, err := uuid.Parse(productID); err != nil {
		return level, nil
	}
	query := `
		SELECT
		    COALESCE(SUM(quantity) FILTER (WHERE direction = 'in'),  0),
		    COALESCE(SUM(quantity) FILTER (WHERE direction = 'out'), 0)
		FROM stock_movements WHERE product_id = $1`
	if err := r.q.QueryRow(ctx, query, productID).Scan(&level.In, &level.Out); err != nil {
		return level, fmt.Errorf("stock level: %w", err)
	}
	return level, nil
}

// StockLevels agrega entradas y salidas por producto.
func (r *StockMovementRepo) StockLevels(ctx context.Context) (map[string]entity.StockLevel, error) {
	query := `
		SELECT product_id,
		    COALESCE(SUM(quantity) FILTER (WHERE direction = 'in'),  0),
		    COALESCE(SUM(quantity) FILTER (WHERE direction = 'out'), 0)
		FROM stock_movements
		GROUP BY product_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()
	levels := make(map[string]entity.StockLevel)
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ProductID, &l.In, &l.Out); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels[l.ProductID] = l
	}
	return levels, rows.Err()
}
