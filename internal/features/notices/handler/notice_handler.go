package handler

import (
	"errors"
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/notices/domain"
	"repair-shop/internal/features/notices/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NoticeHandler handles HTTP requests for the storefront notice.
type NoticeHandler struct {
	service *service.NoticeService
}

// NewNoticeHandler creates a new NoticeHandler.
func NewNoticeHandler(s *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: s}
}

// SetNoticeRequest is the body of PUT /admin/notice.
type SetNoticeRequest struct {
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Kind       domain.Kind `json:"kind"`
	TTLSeconds int         `json:"ttl_seconds"`
}

// GetNotice handles GET /notice.
// @Summary Get the storefront notice
// @Tags Notice
// @Produce json
// @Success 200 {object} domain.Notice
// @Failure 404 {object} server.ErrorResponse
// @Router /notice [get]
func (h *NoticeHandler) GetNotice(c *fiber.Ctx) error {
	notice, err := h.service.Current(c.UserContext())
	if errors.Is(err, domain.ErrNoNotice) {
		return server.Fail(c, http.StatusNotFound, "No active notice")
	}
	if err != nil {
		logger.Get().Error("Failed to get notice", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(notice)
}

// SetNotice handles PUT /admin/notice.
// @Summary Set the storefront notice
// @Description Replaces the notice shown on the storefront. ttl_seconds <= 0 keeps it until removed.
// @Tags Admin
// @Accept json
// @Produce json
// @Security AdminToken
// @Param notice body SetNoticeRequest true "Notice"
// @Success 200 {object} domain.Notice
// @Failure 400 {object} server.ErrorResponse
// @Router /admin/notice [put]
func (h *NoticeHandler) SetNotice(c *fiber.Ctx) error {
	var req SetNoticeRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	notice, err := h.service.SetNotice(c.UserContext(), req.Title, req.Message, req.Kind, req.TTLSeconds)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidKind) || errors.Is(err, domain.ErrTitleRequired) {
			return server.Fail(c, http.StatusBadRequest, err.Error())
		}
		logger.Get().Error("Failed to set notice", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.JSON(notice)
}

// RemoveNotice handles DELETE /admin/notice.
// @Summary Remove the storefront notice
// @Tags Admin
// @Security AdminToken
// @Success 204
// @Router /admin/notice [delete]
func (h *NoticeHandler) RemoveNotice(c *fiber.Ctx) error {
	if err := h.service.RemoveNotice(c.UserContext()); err != nil {
		logger.Get().Error("Failed to remove notice", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusInternalServerError, "Internal server error")
	}
	return c.SendStatus(http.StatusNoContent)
}
