package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/E7itism/stockerflow-sub001/internal/service"
)

type DashboardHandler struct {
	dashboard service.DashboardService
}

func NewDashboardHandler(dashboard service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetStats returns overview statistics over derived stock.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboard.GetStats()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetStockMovement returns the daily inbound/outbound series.
// Query params: days (default 7).
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	data, err := h.dashboard.GetStockMovement(days)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}
