package inventory

import (
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// LevelFromMovements recalcula entradas y salidas de un producto desde su historial completo.
// Se usa para conciliar contra los agregados del repositorio.
func LevelFromMovements(productID string, movements []*entity.StockMovement) entity.StockLevel {
	level := entity.StockLevel{ProductID: productID}
	for _, m := range movements {
		if m.ProductID != productID {
			continue
		}
		switch m.Direction {
		case entity.DirectionIn:
			level.In += m.Quantity
		case entity.DirectionOut:
			level.Out += m.Quantity
		}
	}
	return level
}

// EnsureAvailable verifica que el stock actual cubra la cantidad solicitada.
func EnsureAvailable(product *entity.Product, level entity.StockLevel, requested int) error {
	if available := level.Current(); requested > available {
		return &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   available,
			Requested:   requested,
		}
	}
	return nil
}

// AggregateQuantities suma las cantidades pedidas por producto, conservando el orden de aparición.
// Una venta puede repetir el mismo producto en varias líneas; la validación es sobre el total.
// ErrMalformedRequest si alguna cantidad o total por producto sale de (0, entity.MaxQuantity].
func AggregateQuantities(productIDs []string, quantities []int) (order []string, totals map[string]int, err error) {
	totals = make(map[string]int, len(productIDs))
	for i, id := range productIDs {
		q := quantities[i]
		if q <= 0 || q > entity.MaxQuantity {
			return nil, nil, domain.Malformed("cantidad %d fuera de rango para %s", q, id)
		}
		if _, seen := totals[id]; !seen {
			order = append(order, id)
		}
		if totals[id] > entity.MaxQuantity-q {
			return nil, nil, domain.Malformed("la cantidad total de %s supera %d", id, entity.MaxQuantity)
		}
		totals[id] += q
	}
	return order, totals, nil
}
