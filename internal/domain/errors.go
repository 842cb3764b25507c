package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrDuplicateInvoice  = errors.New("número de factura duplicado, reintente la venta")
)

// ErrMalformedRequest: campos faltantes o inválidos en una venta. Es un ErrInvalidInput.
var ErrMalformedRequest = fmt.Errorf("solicitud mal formada: %w", ErrInvalidInput)

// ErrInvalidQuantity: cantidad de un movimiento <= 0. Es un ErrInvalidInput.
var ErrInvalidQuantity = fmt.Errorf("la cantidad debe ser mayor a cero: %w", ErrInvalidInput)

// InsufficientStockError indica el producto que no alcanza y su disponible actual.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Disponible: %d", e.ProductName, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ProductNotFoundError referencia un producto que el registro no resuelve.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %s no encontrado", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

// Malformed construye un ErrMalformedRequest con detalle del campo.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrMalformedRequest)
}
