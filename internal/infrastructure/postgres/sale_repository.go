package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y sus líneas. Debe correr dentro de la transacción de la venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales (id, invoice_number, sale_type, payment_method, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.InvoiceNumber, sale.SaleType, sale.PaymentMethod, sale.TotalAmount, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == invoiceNumberConstraint {
			return domain.ErrDuplicateInvoice
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i := range sale.Lines {
		line := &sale.Lines[i]
		if line.ID == "" {
			line.ID = uuid.New().String()
		}
		line.SaleID = sale.ID
		_, err := r.q.Exec(ctx,
			`INSERT INTO sale_line_items (id, sale_id, position, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.SaleID, i, line.ProductID, line.Quantity, line.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con sus líneas, o (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, invoice_number, sale_type, payment_method, total_amount, created_at
		FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.InvoiceNumber, &s.SaleType, &s.PaymentMethod, &s.TotalAmount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_line_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLineItem
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	return &s, rows.Err()
}

// ListRecent últimas ventas con la cantidad de líneas.
func (r *SaleRepo) ListRecent(ctx context.Context, limit int) ([]*entity.SaleSummary, error) {
	query := `
		SELECT s.id, s.invoice_number, s.sale_type, s.payment_method, s.total_amount, s.created_at,
		       (SELECT COUNT(*) FROM sale_line_items li WHERE li.sale_id = s.id)
		FROM sales s
		ORDER BY s.created_at DESC, s.id DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleSummary
	for rows.Next() {
		var s entity.SaleSummary
		if err := rows.Scan(&s.ID, &s.InvoiceNumber, &s.SaleType, &s.PaymentMethod, &s.TotalAmount,
			&s.CreatedAt, &s.ItemsCount); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListLines líneas de una venta con nombre, marca, talla y color del producto.
func (r *SaleRepo) ListLines(ctx context.Context, saleID string) ([]*entity.SaleLineDetail, error) {
	if _, err := uuid.Parse(saleID); err != nil {
		return nil, nil
	}
	query := `
		SELECT li.id, li.sale_id, li.product_id, li.quantity, li.unit_price,
		       p.name, p.brand, p.size, p.color
		FROM sale_line_items li
		JOIN products p ON p.id = li.product_id
		WHERE li.sale_id = $1
		ORDER BY li.position`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLineDetail
	for rows.Next() {
		var d entity.SaleLineDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ProductID, &d.Quantity, &d.UnitPrice,
			&d.ProductName, &d.ProductBrand, &d.ProductSize, &d.ProductColor); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
