package handler

import (
	"errors"
	"net/http"
	"strings"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	customers "repair-shop/internal/features/customers/domain"
	"repair-shop/internal/features/tickets/domain"
	"repair-shop/internal/features/tickets/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TicketHandler handles HTTP requests for repair tickets.
type TicketHandler struct {
	service *service.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(s *service.TicketService) *TicketHandler {
	return &TicketHandler{service: s}
}

// UpdateStatusRequest is the body of PATCH /admin/tickets/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// DiagnosisRequest is the body of PATCH /admin/tickets/:id/diagnosis.
type DiagnosisRequest struct {
	Diagnosis   string `json:"diagnosis"`
	QuotedPrice string `json:"quoted_price,omitempty"`
}

// PhotosRequest is the body of POST /admin/tickets/:id/photos.
type PhotosRequest struct {
	Kind   string   `json:"kind"`
	Photos []string `json:"photos"`
}

// SignatureRequest is the body of POST /admin/tickets/:id/signature.
type SignatureRequest struct {
	Signature string `json:"signature"`
}

// CreateTicket handles POST /tickets.
// @Summary Open a repair ticket
// @Description Registers a device at intake. The ticket starts in status received.
// @Tags Tickets
// @Accept json
// @Produce json
// @Param ticket body service.CreateTicketInput true "Intake data"
// @Success 201 {object} domain.Ticket
// @Failure 400 {object} server.ErrorResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *fiber.Ctx) error {
	var in service.CreateTicketInput
	if err := c.BodyParser(&in); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ticket, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// TrackTicket handles GET /tickets/track/:number.
// @Summary Track a repair
// @Description Public status lookup by ticket number.
// @Tags Tickets
// @Produce json
// @Param number path string true "Ticket number (e.g., SAT-00001)"
// @Success 200 {object} domain.TrackingHistory
// @Failure 404 {object} server.ErrorResponse
// @Router /tickets/track/{number} [get]
func (h *TicketHandler) TrackTicket(c *fiber.Ctx) error {
	number := c.Params("number")
	if strings.TrimSpace(number) == "" {
		return server.Fail(c, http.StatusBadRequest, "ticket number is required")
	}

	history, err := h.service.Track(c.UserContext(), number)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(history)
}

// ListStatuses handles GET /tickets/statuses.
// @Summary Ticket statuses
// @Description Display metadata of the seven ticket statuses.
// @Tags Tickets
// @Produce json
// @Success 200 {array} domain.StatusInfo
// @Router /tickets/statuses [get]
func (h *TicketHandler) ListStatuses(c *fiber.Ctx) error {
	return c.JSON(domain.Statuses())
}

// ListTickets handles GET /admin/tickets.
// @Summary List tickets
// @Description Urgent tickets first, then newest.
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param customer_id query string false "Customer filter"
// @Param open query bool false "Only tickets not delivered or rejected"
// @Param limit query int false "Maximum number of tickets (default 100)"
// @Success 200 {array} domain.Ticket
// @Failure 400 {object} server.ErrorResponse
// @Router /admin/tickets [get]
func (h *TicketHandler) ListTickets(c *fiber.Ctx) error {
	filter := domain.TicketFilter{
		CustomerID: c.Query("customer_id"),
		OpenOnly:   c.QueryBool("open", false),
		Limit:      c.QueryInt("limit", 0),
	}
	if raw := c.Query("status"); raw != "" {
		s, err := domain.ParseStatus(raw)
		if err != nil {
			return server.Fail(c, http.StatusBadRequest, err.Error())
		}
		filter.Status = s
	}
	if raw := c.Query("priority"); raw != "" {
		p, err := domain.ParsePriority(raw)
		if err != nil {
			return server.Fail(c, http.StatusBadRequest, err.Error())
		}
		filter.Priority = p
	}

	list, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// GetTicket handles GET /admin/tickets/:id.
// @Summary Get ticket
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Ticket ID"
// @Success 200 {object} domain.Ticket
// @Failure 404 {object} server.ErrorResponse
// @Router /admin/tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ticket)
}

// UpdateStatus handles PATCH /admin/tickets/:id/status.
// @Summary Change ticket status
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "Ticket ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} domain.Ticket
// @Failure 400 {object} server.ErrorResponse
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse
// @Router /admin/tickets/{id}/status [patch]
func (h *TicketHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ticket)
}

// SetDiagnosis handles PATCH /admin/tickets/:id/diagnosis.
// @Summary Record diagnosis and quote
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "Ticket ID"
// @Param body body DiagnosisRequest true "Diagnosis and optional quote"
// @Success 200 {object} domain.Ticket
// @Failure 400 {object} server.ErrorResponse
// @Router /admin/tickets/{id}/diagnosis [patch]
func (h *TicketHandler) SetDiagnosis(c *fiber.Ctx) error {
	var req DiagnosisRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	var quote *decimal.Decimal
	if strings.TrimSpace(req.QuotedPrice) != "" {
		q, err := decimal.NewFromString(strings.TrimSpace(req.QuotedPrice))
		if err != nil {
			return server.Fail(c, http.StatusBadRequest, "quoted_price must be a decimal number")
		}
		quote = &q
	}

	ticket, err := h.service.SetDiagnosis(c.UserContext(), c.Params("id"), req.Diagnosis, quote)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ticket)
}

// AddPhotos handles POST /admin/tickets/:id/photos.
// @Summary Attach photos
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "Ticket ID"
// @Param body body PhotosRequest true "Photo kind (intake or repair) and references"
// @Success 200 {object} domain.Ticket
// @Failure 400 {object} server.ErrorResponse
// @Router /admin/tickets/{id}/photos [post]
func (h *TicketHandler) AddPhotos(c *fiber.Ctx) error {
	var req PhotosRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ticket, err := h.service.AddPhotos(c.UserContext(), c.Params("id"), domain.PhotoKind(strings.ToLower(req.Kind)), req.Photos)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ticket)
}

// Sign handles POST /admin/tickets/:id/signature.
// @Summary Store customer signature
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "Ticket ID"
// @Param body body SignatureRequest true "Signature image reference"
// @Success 200 {object} domain.Ticket
// @Failure 400 {object} server.ErrorResponse
// @Router /admin/tickets/{id}/signature [post]
func (h *TicketHandler) Sign(c *fiber.Ctx) error {
	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ticket, err := h.service.Sign(c.UserContext(), c.Params("id"), req.Signature)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ticket)
}

func (h *TicketHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrTicketNotFound):
		return server.Fail(c, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		return server.Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrDeviceRequired),
		errors.Is(err, domain.ErrFaultRequired),
		errors.Is(err, domain.ErrNegativeQuote),
		errors.Is(err, domain.ErrInvalidPhotoKind),
		errors.Is(err, domain.ErrNoPhotos),
		errors.Is(err, domain.ErrSignatureRequired),
		errors.Is(err, customers.ErrNameRequired),
		errors.Is(err, customers.ErrPhoneRequired):
		return server.Fail(c, http.StatusBadRequest, err.Error())
	}

	logger.Get().Error("Ticket operation failed",
		zap.String("ray_id", server.RayID(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}
