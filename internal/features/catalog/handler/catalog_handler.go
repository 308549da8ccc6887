package handler

import (
	"errors"
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/catalog/domain"
	"repair-shop/internal/features/catalog/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// UpsertProductRequest represents the body for creating or updating a product.
type UpsertProductRequest struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	SalePrice     string `json:"sale_price"`
	Stock         int    `json:"stock"`
	CriticalStock int    `json:"critical_stock"`
	Category      string `json:"category"`
	Active        *bool  `json:"active"`
	ImageURL      string `json:"image_url"`
}

// ListProducts handles GET /products.
// @Summary List products
// @Description Lists active catalog products, optionally filtered by category or text.
// @Tags Catalog
// @Produce json
// @Param category query string false "Category tag"
// @Param q query string false "Name or SKU search"
// @Success 200 {array} domain.Product
// @Failure 500 {object} server.ErrorResponse
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	filter := domain.ProductFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		logger.Get().Error("Failed to list products", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(products)
}

// GetSuggested handles GET /products/suggested.
// @Summary Suggested products
// @Description Products promoted in the storefront.
// @Tags Catalog
// @Produce json
// @Param limit query int false "Maximum number of products (default 4, max 20)"
// @Success 200 {array} domain.Product
// @Failure 500 {object} server.ErrorResponse
// @Router /products/suggested [get]
func (h *CatalogHandler) GetSuggested(c *fiber.Ctx) error {
	products, err := h.service.Suggested(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		logger.Get().Error("Failed to get suggested products", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(products)
}

// GetProduct handles GET /products/:id.
// @Summary Get a product
// @Tags Catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} server.ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if errors.Is(err, domain.ErrProductNotFound) {
		return server.Fail(c, http.StatusNotFound, "Product not found")
	}
	if err != nil {
		logger.Get().Error("Failed to get product", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(product)
}

// UpsertProduct handles PUT /admin/products/:id.
// @Summary Create or update a product
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "Product ID"
// @Param product body UpsertProductRequest true "Product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} server.ErrorResponse
// @Router /admin/products/{id} [put]
func (h *CatalogHandler) UpsertProduct(c *fiber.Ctx) error {
	var req UpsertProductRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	price, err := decimal.NewFromString(req.SalePrice)
	if err != nil {
		return server.Fail(c, http.StatusBadRequest, "sale_price must be a decimal number")
	}

	product := &domain.Product{
		ID:            c.Params("id"),
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         price,
		Stock:         req.Stock,
		CriticalStock: req.CriticalStock,
		Category:      req.Category,
		Active:        req.Active == nil || *req.Active,
		ImageURL:      req.ImageURL,
	}

	if err := h.service.SaveProduct(c.UserContext(), product); err != nil {
		switch {
		case errors.Is(err, domain.ErrNegativePrice),
			errors.Is(err, domain.ErrNegativeStock),
			errors.Is(err, domain.ErrMissingIdentity):
			return server.Fail(c, http.StatusBadRequest, err.Error())
		}
		logger.Get().Error("Failed to save product", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}

	logger.Get().Info("Product saved", zap.String("product_id", product.ID), zap.String("sku", product.SKU))
	return c.JSON(product)
}
