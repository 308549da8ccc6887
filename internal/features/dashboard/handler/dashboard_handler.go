package handler

import (
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/dashboard/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DashboardHandler serves the admin overview.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(s *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboard handles GET /admin/dashboard.
// @Summary Admin dashboard
// @Description Ticket counts for every status, urgent open tickets, low stock products and order totals.
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Success 200 {object} domain.Summary
// @Failure 401 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to build dashboard", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(summary)
}
