package ports

import (
	"context"

	"repair-shop/internal/features/inference/domain"
)

// Analyzer is the boundary to the inference backend. Implementations return
// the same shapes whether they call a live model or serve demo data.
type Analyzer interface {
	// AnalyzeDamage inspects a base64 encoded photo of a device.
	AnalyzeDamage(ctx context.Context, imageBase64 string) (*domain.DamageAnalysis, error)
	// LookupSpecs returns the hardware profile of a device model.
	LookupSpecs(ctx context.Context, model string) (*domain.SpecsLookup, error)
}
