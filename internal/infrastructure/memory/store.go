// Package memory implementa los repositorios y el TxRunner en memoria para desarrollo y tests.
// Las transacciones bloquean los productos por ID y aplican las escrituras al confirmar.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ sales.TxRunner = (*Store)(nil)

// storedMovement movimiento confirmado con su orden de inserción.
type storedMovement struct {
	entity.StockMovement
	seq int64
}

// storedSale venta confirmada con su orden de inserción.
type storedSale struct {
	sale entity.Sale
	seq  int64
}

// Store estado compartido. mu protege los mapas; rowLocks serializa transacciones por producto.
type Store struct {
	mu        sync.RWMutex
	products  map[string]entity.Product
	skus      map[string]string // sku -> id
	movements []storedMovement
	sales     map[string]*storedSale
	invoices  map[string]string // invoice_number -> sale id
	seq       int64

	locksMu  sync.Mutex
	rowLocks map[string]*sync.Mutex
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		skus:     make(map[string]string),
		sales:    make(map[string]*storedSale),
		invoices: make(map[string]string),
		rowLocks: make(map[string]*sync.Mutex),
	}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements repositorio del libro fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{s: s} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Analytics repositorio de reportes.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// Run ejecuta fn con repos del libro y productos atados a una transacción.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.inTx(ctx, func(t *tx) error {
		return fn(&StockMovementRepo{s: s, tx: t}, &ProductRepo{s: s, tx: t})
	})
}

// RunSale ejecuta fn con repos del libro, productos y ventas atados a una transacción.
func (s *Store) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.inTx(ctx, func(t *tx) error {
		return fn(&StockMovementRepo{s: s, tx: t}, &ProductRepo{s: s, tx: t}, &SaleRepo{s: s, tx: t})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(t *tx) error) error {
	t := &tx{s: s, held: make(map[string]*sync.Mutex)}
	defer t.release()

	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.commit()
}

func (s *Store) rowLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.rowLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.rowLocks[id] = m
	}
	return m
}

// tx escrituras pendientes y bloqueos de fila de una transacción.
type tx struct {
	s         *Store
	held      map[string]*sync.Mutex
	movements []entity.StockMovement
	sales     []entity.Sale
}

// lock toma los bloqueos de los productos en orden ascendente de ID. La espera no es
// cancelable; LockForUpdate revisa ctx apenas obtiene los bloqueos.
func (t *tx) lock(ids []string) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if _, ok := t.held[id]; ok {
			continue
		}
		m := t.s.rowLock(id)
		m.Lock()
		t.held[id] = m
	}
}

func (t *tx) release() {
	for id, m := range t.held {
		m.Unlock()
		delete(t.held, id)
	}
}

// commit aplica ventas y movimientos de forma atómica. Un número de factura
// confirmado por otra transacción anula todo.
func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sale := range t.sales {
		if _, taken := s.invoices[sale.InvoiceNumber]; taken {
			return domain.ErrDuplicateInvoice
		}
	}
	for _, sale := range t.sales {
		s.seq++
		s.sales[sale.ID] = &storedSale{sale: sale, seq: s.seq}
		s.invoices[sale.InvoiceNumber] = sale.ID
	}
	for _, m := range t.movements {
		s.seq++
		s.movements = append(s.movements, storedMovement{StockMovement: m, seq: s.seq})
	}
	return nil
}
