package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de venta.
const (
	SaleTypeRetail    = "retail"
	SaleTypeWholesale = "wholesale"
)

// Medios de pago admitidos.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentCredit   = "credit"
)

// Sale cabecera de una venta. Se crea una sola vez y no se modifica.
type Sale struct {
	ID            string
	InvoiceNumber string
	SaleType      string
	PaymentMethod string
	TotalAmount   decimal.Decimal
	CreatedAt     time.Time
	Lines         []SaleLineItem
}

// SaleLineItem línea de venta con el precio capturado al momento de vender.
type SaleLineItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal devuelve quantity × unit_price.
func (l SaleLineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SaleSummary fila de listado de ventas.
type SaleSummary struct {
	ID            string
	InvoiceNumber string
	SaleType      string
	PaymentMethod string
	TotalAmount   decimal.Decimal
	ItemsCount    int
	CreatedAt     time.Time
}

// SaleLineDetail línea con los datos descriptivos del producto resueltos.
type SaleLineDetail struct {
	SaleLineItem
	ProductName  string
	ProductBrand string
	ProductSize  string
	ProductColor string
}

// ValidSaleType indica si t es un tipo de venta admitido.
func ValidSaleType(t string) bool {
	return t == SaleTypeRetail || t == SaleTypeWholesale
}

// ValidPaymentMethod indica si m es un medio de pago admitido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}
