package dto

import "time"

// StockInRequest body para POST /api/inventory/stock-in.
// Quantity es puntero para distinguir "ausente" de cero.
type StockInRequest struct {
	ProductID   string `json:"product_id"`
	Quantity    *int   `json:"quantity"`
	BatchNumber string `json:"batch_number,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments (movimiento compensatorio).
type AdjustmentRequest struct {
	ProductID   string `json:"product_id"`
	Direction   string `json:"direction"` // in | out
	Quantity    *int   `json:"quantity"`
	BatchNumber string `json:"batch_number,omitempty"`
	Notes       string `json:"notes"`
}

// MovementResultResponse respuesta de un movimiento registrado.
type MovementResultResponse struct {
	TransactionID string `json:"transaction_id"`
	ProductName   string `json:"product_name"`
	NewStock      int    `json:"new_stock"`
}

// MovementResponse entrada del libro con el producto resuelto.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Direction   string    `json:"transaction_type"` // in | out
	Quantity    int       `json:"quantity"`
	BatchNumber string    `json:"batch_number,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	SaleID      string    `json:"sale_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementListResponse listado de GET /api/inventory/transactions.
type MovementListResponse struct {
	Transactions []MovementResponse `json:"transactions"`
	Count        int                `json:"count"`
}

// StockResponse stock derivado de un producto.
type StockResponse struct {
	ProductID    string `json:"product_id"`
	StockIn      int    `json:"stock_in"`
	StockOut     int    `json:"stock_out"`
	CurrentStock int    `json:"current_stock"`
}
