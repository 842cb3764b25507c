package sales

import (
	"context"
	"fmt"
)

// ReceiptUseCase genera el comprobante PDF de una venta registrada.
type ReceiptUseCase struct {
	query     *QueryUseCase
	generator ReceiptGenerator
	info      ReceiptInfo
}

// NewReceiptUseCase construye el caso de uso inyectando sus dependencias.
func NewReceiptUseCase(query *QueryUseCase, generator ReceiptGenerator, info ReceiptInfo) *ReceiptUseCase {
	return &ReceiptUseCase{query: query, generator: generator, info: info}
}

// DownloadReceipt devuelve (pdfBytes, filename). domain.ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.query.GetSale(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, sale, uc.info)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("recibo_%s.pdf", sale.InvoiceNumber), nil
}
