package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"repair-shop/internal/core/logger"
	"repair-shop/internal/features/inference/domain"
	"repair-shop/internal/features/inference/ports"

	"go.uber.org/zap"
)

// InferenceService validates requests and normalizes analyzer results.
type InferenceService struct {
	analyzer ports.Analyzer
}

// NewInferenceService creates a new InferenceService.
func NewInferenceService(analyzer ports.Analyzer) *InferenceService {
	return &InferenceService{analyzer: analyzer}
}

// AnalyzeDamage analyses a base64 photo, optionally given as a data URL.
func (s *InferenceService) AnalyzeDamage(ctx context.Context, image string) (*domain.DamageAnalysis, error) {
	image = strings.TrimSpace(image)
	if !validImage(image) {
		return nil, domain.ErrInvalidImage
	}

	analysis, err := s.analyzer.AnalyzeDamage(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("service: failed to analyze damage: %w", err)
	}
	analysis.Normalize()

	logger.Named("inference").Info("Damage analyzed",
		zap.String("severity", string(analysis.Severity)),
		zap.String("confidence", analysis.Confidence),
		zap.Bool("needs_review", analysis.NeedsReview),
	)
	return analysis, nil
}

// LookupSpecs returns the hardware profile of model.
func (s *InferenceService) LookupSpecs(ctx context.Context, model string) (*domain.SpecsLookup, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, domain.ErrModelRequired
	}

	specs, err := s.analyzer.LookupSpecs(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("service: failed to look up specs: %w", err)
	}
	specs.Normalize(model)

	logger.Named("inference").Info("Specs looked up",
		zap.String("model", model),
		zap.String("confidence", specs.Confidence),
	)
	return specs, nil
}

func validImage(image string) bool {
	if strings.HasPrefix(image, "data:") {
		_, data, ok := strings.Cut(image, ",")
		if !ok {
			return false
		}
		image = data
	}
	if image == "" {
		return false
	}
	if _, err := base64.StdEncoding.DecodeString(image); err == nil {
		return true
	}
	_, err := base64.RawStdEncoding.DecodeString(image)
	return err == nil
}
