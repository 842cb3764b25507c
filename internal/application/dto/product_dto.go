package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	Size           string          `json:"size"`
	Color          string          `json:"color"`
	Supplier       string          `json:"supplier"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
}

// UpdateProductRequest campos editables de un producto. Solo se aplican los presentes;
// cualquier otro campo del body se rechaza. El SKU no es editable.
type UpdateProductRequest struct {
	Name           *string          `json:"name"`
	Category       *string          `json:"category"`
	Brand          *string          `json:"brand"`
	Size           *string          `json:"size"`
	Color          *string          `json:"color"`
	Supplier       *string          `json:"supplier"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Brand          string          `json:"brand"`
	Size           string          `json:"size"`
	Color          string          `json:"color"`
	Supplier       string          `json:"supplier"`
	PurchasePrice  decimal.Decimal `json:"purchase_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	CurrentStock   *int            `json:"current_stock,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
