package handler

import (
	"errors"
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/orders/domain"
	"repair-shop/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles back office HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// ListOrders handles GET /admin/orders.
// @Summary List orders
// @Description Newest orders first.
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param limit query int false "Maximum number of orders (default 50)"
// @Success 200 {array} domain.Order
// @Failure 401 {object} server.ErrorResponse
// @Failure 500 {object} server.ErrorResponse
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		logger.Get().Error("Failed to list orders", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(orders)
}

// GetOrder handles GET /admin/orders/:id.
// @Summary Get order by ID
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 401 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")

	order, err := h.service.GetOrder(c.UserContext(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return server.Fail(c, http.StatusNotFound, "Order not found")
		}
		logger.Get().Error("Failed to fetch order",
			zap.String("order_id", orderID),
			zap.String("ray_id", server.RayID(c)),
			zap.Error(err),
		)
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}

	return c.Status(http.StatusOK).JSON(order)
}
