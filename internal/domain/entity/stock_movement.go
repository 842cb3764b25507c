package entity

import (
	"math"
	"time"
)

// Direcciones de un movimiento del libro de inventario.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // salida
)

// MaxQuantity cantidad máxima por movimiento o línea (columnas INTEGER).
const MaxQuantity = math.MaxInt32

// DefaultBatchLabel lote asignado a entradas sin lote explícito.
const DefaultBatchLabel = "BATCH-001"

// StockMovement es una entrada inmutable del libro de inventario.
// Quantity siempre es positiva; el sentido lo da Direction.
type StockMovement struct {
	ID         string
	ProductID  string
	Direction  string
	Quantity   int
	BatchLabel string
	Notes      string
	SaleID     string // venta que originó la salida (vacío si no aplica)
	CreatedAt  time.Time
}

// ValidDirection indica si d es una dirección admitida.
func ValidDirection(d string) bool {
	return d == DirectionIn || d == DirectionOut
}

// StockMovementView movimiento con el nombre del producto resuelto (para listados).
type StockMovementView struct {
	StockMovement
	ProductName string
}
