package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/smartflow/internal/service"
	"github.com/maheshrc27/smartflow/internal/transfer"
)

type AnalyticsHandler struct {
	s service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{s: service}
}

func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.s.Overview(c.Context(), GetTenantID(c), c.Query("timeframe"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

func (h *AnalyticsHandler) Platforms(c *fiber.Ctx) error {
	perf, err := h.s.PlatformPerformance(c.Context(), GetTenantID(c), c.Query("timeframe"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(perf)
}

func (h *AnalyticsHandler) Insights(c *fiber.Ctx) error {
	insights, err := h.s.ContentInsights(c.Context(), GetTenantID(c), c.Query("timeframe"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(insights)
}

func (h *AnalyticsHandler) UpdateCounters(c *fiber.Ctx) error {
	var cu transfer.CounterUpdate
	if err := c.BodyParser(&cu); err != nil {
		return badRequest(c, "Invalid request body")
	}

	a, err := h.s.UpdateCounters(c.Context(), GetTenantID(c), c.Params("id"), &cu)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(a)
}
