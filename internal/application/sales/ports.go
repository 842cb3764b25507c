package sales

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos del libro, productos y ventas.
// Si fn devuelve error no queda nada escrito: ni venta, ni líneas, ni movimientos.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptInfo datos del encabezado del comprobante.
type ReceiptInfo struct {
	StoreName string
	Timezone  string
}

// ReceiptGenerator define el puerto para generar el comprobante PDF de una venta.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *dto.SaleDetailResponse, info ReceiptInfo) ([]byte, error)
}
