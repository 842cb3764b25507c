package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-inventario/internal/application/analytics"
)

// AnalyticsHandler maneja los reportes de ventas y rentabilidad.
type AnalyticsHandler struct {
	uc *analytics.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Overview godoc
// @Summary      Resumen general de ventas
// @Description  Totales históricos, ventas de hoy (zona horaria configurada) y ticket promedio.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OverviewDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProductPerformance godoc
// @Summary      Rendimiento por producto (Pareto 80/20)
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        include_zero  query  bool  false  "Incluir productos sin ventas"
// @Success      200  {object}  dto.ProductPerformanceReport
// @Router       /api/sales/analytics/product-performance [get]
func (h *AnalyticsHandler) ProductPerformance(c *fiber.Ctx) error {
	out, err := h.uc.ProductPerformance(c.Context(), c.QueryBool("include_zero", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SalesTrend godoc
// @Summary      Tendencia diaria
// @Description  Serie continua de los últimos N días; los días sin ventas aparecen en cero.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días (default 7, max 90)"
// @Success      200  {object}  dto.TrendReport
// @Router       /api/sales/analytics/sales-trend [get]
func (h *AnalyticsHandler) SalesTrend(c *fiber.Ctx) error {
	out, err := h.uc.SalesTrend(c.Context(), c.QueryInt("days", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MonthlyTrend godoc
// @Summary      Tendencia mensual
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        months  query  int  false  "Meses (default 6, max 24)"
// @Success      200  {object}  dto.TrendReport
// @Router       /api/sales/analytics/monthly-trend [get]
func (h *AnalyticsHandler) MonthlyTrend(c *fiber.Ctx) error {
	out, err := h.uc.MonthlyTrend(c.Context(), c.QueryInt("months", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ProfitSummary godoc
// @Summary      Resumen de utilidad por tipo de venta
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfitSummaryDTO
// @Router       /api/sales/analytics/profit-summary [get]
func (h *AnalyticsHandler) ProfitSummary(c *fiber.Ctx) error {
	out, err := h.uc.ProfitSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CategoryPerformance godoc
// @Summary      Rendimiento por categoría
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GroupPerformanceReport
// @Router       /api/sales/analytics/category-performance [get]
func (h *AnalyticsHandler) CategoryPerformance(c *fiber.Ctx) error {
	out, err := h.uc.CategoryPerformance(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BrandPerformance godoc
// @Summary      Rendimiento por marca
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GroupPerformanceReport
// @Router       /api/sales/analytics/brand-performance [get]
func (h *AnalyticsHandler) BrandPerformance(c *fiber.Ctx) error {
	out, err := h.uc.BrandPerformance(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
