package handler

import (
	"errors"
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/cart/domain"
	"repair-shop/internal/features/cart/service"
	catalog "repair-shop/internal/features/catalog/domain"
	customers "repair-shop/internal/features/customers/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for storefront carts.
type CartHandler struct {
	service *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(s *service.CartService) *CartHandler {
	return &CartHandler{service: s}
}

// AddItemRequest is the body of POST /cart/:session/items.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	// Quantity defaults to 1.
	Quantity int `json:"quantity"`
}

// UpdateQuantityRequest is the body of PATCH /cart/:session/items/:productId.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// GetCart handles GET /cart/:session.
// @Summary Get cart
// @Tags Cart
// @Produce json
// @Param session path string true "Storefront session id"
// @Success 200 {object} domain.View
// @Failure 400 {object} server.ErrorResponse
// @Router /cart/{session} [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	view, err := h.service.GetCart(c.UserContext(), c.Params("session"))
	return h.respond(c, view, err)
}

// AddItem handles POST /cart/:session/items.
// @Summary Add item
// @Description Adds quantity units of a product, merging with an existing line item, and opens the cart.
// @Tags Cart
// @Accept json
// @Produce json
// @Param session path string true "Storefront session id"
// @Param item body AddItemRequest true "Product and quantity"
// @Success 200 {object} domain.View
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/{session}/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.ProductID == "" {
		return server.Fail(c, http.StatusBadRequest, "product_id is required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	view, err := h.service.AddItem(c.UserContext(), c.Params("session"), req.ProductID, req.Quantity)
	return h.respond(c, view, err)
}

// UpdateQuantity handles PATCH /cart/:session/items/:productId.
// @Summary Set item quantity
// @Description Sets the quantity to exactly the given value. Zero or less removes the item.
// @Tags Cart
// @Accept json
// @Produce json
// @Param session path string true "Storefront session id"
// @Param productId path string true "Product ID"
// @Param body body UpdateQuantityRequest true "New quantity"
// @Success 200 {object} domain.View
// @Failure 400 {object} server.ErrorResponse
// @Router /cart/{session}/items/{productId} [patch]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
		return server.Fail(c, http.StatusBadRequest, "quantity is required")
	}

	view, err := h.service.UpdateQuantity(c.UserContext(), c.Params("session"), c.Params("productId"), *req.Quantity)
	return h.respond(c, view, err)
}

// RemoveItem handles DELETE /cart/:session/items/:productId.
// @Summary Remove item
// @Tags Cart
// @Produce json
// @Param session path string true "Storefront session id"
// @Param productId path string true "Product ID"
// @Success 200 {object} domain.View
// @Router /cart/{session}/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	view, err := h.service.RemoveItem(c.UserContext(), c.Params("session"), c.Params("productId"))
	return h.respond(c, view, err)
}

// Clear handles DELETE /cart/:session.
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Param session path string true "Storefront session id"
// @Success 200 {object} domain.View
// @Router /cart/{session} [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	view, err := h.service.Clear(c.UserContext(), c.Params("session"))
	return h.respond(c, view, err)
}

// Open handles POST /cart/:session/open.
// @Summary Show cart
// @Tags Cart
// @Produce json
// @Param session path string true "Storefront session id"
// @Success 200 {object} domain.View
// @Router /cart/{session}/open [post]
func (h *CartHandler) Open(c *fiber.Ctx) error {
	view, err := h.service.Open(c.UserContext(), c.Params("session"))
	return h.respond(c, view, err)
}

// Close handles POST /cart/:session/close.
// @Summary Hide cart
// @Tags Cart
// @Produce json
// @Param session path string true "Storefront session id"
// @Success 200 {object} domain.View
// @Router /cart/{session}/close [post]
func (h *CartHandler) Close(c *fiber.Ctx) error {
	view, err := h.service.Close(c.UserContext(), c.Params("session"))
	return h.respond(c, view, err)
}

// Checkout handles POST /cart/:session/checkout.
// @Summary Checkout
// @Description Places an order with the cart contents and clears the cart. Payment is settled at the counter.
// @Tags Cart
// @Accept json
// @Produce json
// @Param session path string true "Storefront session id"
// @Param contact body service.CheckoutRequest false "Optional contact data"
// @Success 201 {object} orders.Order
// @Failure 400 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /cart/{session}/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return server.Fail(c, http.StatusBadRequest, "Invalid request body")
		}
	}

	order, err := h.service.Checkout(c.UserContext(), c.Params("session"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(order)
}

func (h *CartHandler) respond(c *fiber.Ctx, view domain.View, err error) error {
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

func (h *CartHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, customers.ErrNameRequired),
		errors.Is(err, customers.ErrPhoneRequired):
		return server.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		return server.Fail(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrProductInactive), errors.Is(err, domain.ErrEmptyCart):
		return server.Fail(c, http.StatusConflict, err.Error())
	}

	logger.Get().Error("Cart operation failed",
		zap.String("session_id", c.Params("session")),
		zap.String("ray_id", server.RayID(c)),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}
