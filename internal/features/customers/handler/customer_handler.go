package handler

import (
	"errors"
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/customers/domain"
	"repair-shop/internal/features/customers/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	service *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(s *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: s}
}

// RegisterContact handles POST /customers.
// @Summary Register customer contact
// @Description Creates the customer on first contact or merges the data into the existing record with the same phone.
// @Tags Customers
// @Accept json
// @Produce json
// @Param contact body domain.Contact true "Contact data"
// @Success 200 {object} domain.Customer
// @Success 201 {object} domain.Customer
// @Failure 400 {object} server.ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) RegisterContact(c *fiber.Ctx) error {
	var contact domain.Contact
	if err := c.BodyParser(&contact); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	customer, created, err := h.service.Upsert(c.UserContext(), contact)
	if err != nil {
		if errors.Is(err, domain.ErrPhoneRequired) || errors.Is(err, domain.ErrNameRequired) {
			return server.Fail(c, http.StatusBadRequest, err.Error())
		}
		logger.Get().Error("Failed to register customer", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(customer)
}

// ListCustomers handles GET /admin/customers.
// @Summary List customers
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param q query string false "Name or phone"
// @Param limit query int false "Maximum number of customers (default 100)"
// @Success 200 {array} domain.Customer
// @Failure 401 {object} server.ErrorResponse
// @Router /admin/customers [get]
func (h *CustomerHandler) ListCustomers(c *fiber.Ctx) error {
	list, err := h.service.ListCustomers(c.UserContext(), domain.CustomerFilter{
		Query: c.Query("q"),
		Limit: c.QueryInt("limit", 0),
	})
	if err != nil {
		logger.Get().Error("Failed to list customers", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(list)
}

// GetCustomer handles GET /admin/customers/:id.
// @Summary Get customer
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Customer ID"
// @Success 200 {object} domain.Customer
// @Failure 404 {object} server.ErrorResponse
// @Router /admin/customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return server.Fail(c, http.StatusNotFound, "Customer not found")
		}
		logger.Get().Error("Failed to get customer", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(customer)
}
