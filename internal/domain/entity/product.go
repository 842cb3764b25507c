package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del registro (variante de talla/color con SKU único).
// Los precios editados no afectan movimientos ni líneas de venta ya registradas.
type Product struct {
	ID             string
	SKU            string
	Name           string
	Category       string
	Brand          string
	Size           string
	Color          string
	Supplier       string
	PurchasePrice  decimal.Decimal // costo de compra
	RetailPrice    decimal.Decimal // precio al detal
	WholesalePrice decimal.Decimal // precio al por mayor
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
