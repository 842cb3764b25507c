package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/analytics"
	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de inventario (protegido).
type InventoryHandler struct {
	ledger    *inventory.LedgerUseCase
	resolver  *inventory.StockResolver
	analytics *analytics.AnalyticsUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, resolver *inventory.StockResolver, analyticsUC *analytics.AnalyticsUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, resolver: resolver, analytics: analyticsUC}
}

// StockIn godoc
// @Summary      Registrar entrada de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "product_id, quantity, batch_number (opcional), notes"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-in [post]
func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil {
		return writeError(c, domain.Malformed("quantity requerido"))
	}
	res, err := h.ledger.StockIn(c.Context(), in.ProductID, *in.Quantity, in.BatchNumber, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(res))
}

// Adjustment godoc
// @Summary      Registrar ajuste compensatorio
// @Description  Agrega un movimiento in/out que corrige el stock. El libro no admite edición ni borrado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "product_id, direction, quantity, notes"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil {
		return writeError(c, domain.Malformed("quantity requerido"))
	}
	notes := in.Notes
	if notes == "" {
		notes = "Ajuste"
	}
	if uid := GetUserID(c); uid != "" {
		notes += " (" + uid + ")"
	}
	res, err := h.ledger.Append(c.Context(), inventory.AppendMovementInput{
		ProductID:  in.ProductID,
		Direction:  in.Direction,
		Quantity:   *in.Quantity,
		BatchLabel: in.BatchNumber,
		Notes:      notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResult(res))
}

// ListTransactions godoc
// @Summary      Movimientos recientes del libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de movimientos (default 50, max 200)"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	list, err := h.ledger.ListRecent(c.Context(), c.QueryInt("limit", dto.DefaultRecentLimit))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{Transactions: list, Count: len(list)})
}

// GetStock godoc
// @Summary      Stock actual de un producto
// @Description  Derivado del libro: entradas menos salidas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{product_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	level, err := h.resolver.Level(c.Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toStockResponse(productID, level))
}

// Valuation godoc
// @Summary      Valorización del inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryValuationDTO
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.analytics.InventoryValuation(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func toMovementResult(res *inventory.MovementResult) dto.MovementResultResponse {
	return dto.MovementResultResponse{
		TransactionID: res.MovementID,
		ProductName:   res.ProductName,
		NewStock:      res.NewStock,
	}
}

func toStockResponse(productID string, level entity.StockLevel) dto.StockResponse {
	return dto.StockResponse{
		ProductID:    productID,
		StockIn:      level.In,
		StockOut:     level.Out,
		CurrentStock: level.Current(),
	}
}
