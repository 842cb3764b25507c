package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales. Cualquier total enviado por el cliente se ignora.
type CreateSaleRequest struct {
	SaleType      string            `json:"sale_type"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemRequest línea solicitada. UnitPrice es puntero para detectar ausencia.
type SaleItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleResponse respuesta 201 de una venta confirmada.
type CreateSaleResponse struct {
	SaleID        string          `json:"sale_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// SaleSummaryResponse fila de GET /api/sales.
type SaleSummaryResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SaleType      string          `json:"sale_type"`
	PaymentMethod string          `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItemsCount    int             `json:"items_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SaleListResponse listado de ventas recientes.
type SaleListResponse struct {
	Sales []SaleSummaryResponse `json:"sales"`
	Count int                   `json:"count"`
}

// SaleLineResponse línea con datos del producto.
type SaleLineResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleDetailResponse venta completa de GET /api/sales/{id}.
type SaleDetailResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	SaleType      string             `json:"sale_type"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleLineResponse `json:"items"`
}
