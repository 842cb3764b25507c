package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
)

// SaleHandler maneja registro y consulta de ventas (protegido).
type SaleHandler struct {
	create  *sales.CreateSaleUseCase
	query   *sales.QueryUseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(create *sales.CreateSaleUseCase, query *sales.QueryUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{create: create, query: query, receipt: receipt}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida stock de todas las líneas y confirma venta, líneas y salidas en una sola transacción.
// @Description  El total lo calcula el servidor. 409 si el número de factura colisiona tras los reintentos.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "sale_type, payment_method, items"
// @Success      201   {object}  dto.CreateSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.create.CreateSale(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSaleResponse{
		SaleID:        sale.ID,
		InvoiceNumber: sale.InvoiceNumber,
		TotalAmount:   sale.TotalAmount,
	})
}

// List godoc
// @Summary      Ventas recientes
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de ventas (default 50, max 200)"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	list, err := h.query.ListRecent(c.Context(), c.QueryInt("limit", dto.DefaultRecentLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SaleListResponse{Sales: list, Count: len(list)})
}

// GetByID godoc
// @Summary      Detalle de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Descargar recibo PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receipt.DownloadReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
