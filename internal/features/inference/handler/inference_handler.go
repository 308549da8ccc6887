package handler

import (
	"errors"
	"net/http"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/core/server"
	"repair-shop/internal/features/inference/domain"
	"repair-shop/internal/features/inference/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InferenceHandler exposes the inference endpoints.
type InferenceHandler struct {
	service *service.InferenceService
}

// NewInferenceHandler creates a new InferenceHandler.
func NewInferenceHandler(s *service.InferenceService) *InferenceHandler {
	return &InferenceHandler{service: s}
}

// DamageRequest is the body of POST /ai/analyze-damage.
type DamageRequest struct {
	Image string `json:"image"`
}

// SpecsRequest is the body of POST /ai/specs.
type SpecsRequest struct {
	Model string `json:"model"`
}

// AnalyzeDamage handles POST /ai/analyze-damage.
// @Summary Analyze device damage
// @Description Estimates device model, visible damage, severity and repair price from a photo.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body DamageRequest true "Base64 image or data URL"
// @Success 200 {object} domain.DamageAnalysis
// @Failure 400 {object} server.ErrorResponse
// @Failure 429 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /ai/analyze-damage [post]
func (h *InferenceHandler) AnalyzeDamage(c *fiber.Ctx) error {
	var req DamageRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	analysis, err := h.service.AnalyzeDamage(c.UserContext(), req.Image)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(analysis)
}

// LookupSpecs handles POST /ai/specs.
// @Summary Look up hardware specs
// @Description Returns RAM and storage details of a model with upgrade recommendations.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body SpecsRequest true "Device model"
// @Success 200 {object} domain.SpecsLookup
// @Failure 400 {object} server.ErrorResponse
// @Failure 429 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /ai/specs [post]
func (h *InferenceHandler) LookupSpecs(c *fiber.Ctx) error {
	var req SpecsRequest
	if err := c.BodyParser(&req); err != nil {
		return server.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	specs, err := h.service.LookupSpecs(c.UserContext(), req.Model)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(specs)
}

func (h *InferenceHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidImage), errors.Is(err, domain.ErrModelRequired):
		return server.Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInferenceUnavailable):
		logger.Get().Warn("Inference backend failed", zap.String("ray_id", server.RayID(c)), zap.Error(err))
		return server.Fail(c, http.StatusBadGateway, "Inference service unavailable")
	}
	logger.Get().Error("Inference request failed", zap.String("ray_id", server.RayID(c)), zap.Error(err))
	return server.Fail(c, http.StatusInternalServerError, "Internal server error")
}
