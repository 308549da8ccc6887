package adapters

import (
	"context"
	"strings"

	"repair-shop/internal/features/inference/domain"

	"github.com/shopspring/decimal"
)

// DemoAnalyzer serves fixed payloads when no inference credential is configured.
type DemoAnalyzer struct{}

// NewDemoAnalyzer creates a new demo analyzer.
func NewDemoAnalyzer() *DemoAnalyzer {
	return &DemoAnalyzer{}
}

// AnalyzeDamage returns a fixed analysis regardless of the image.
func (d *DemoAnalyzer) AnalyzeDamage(ctx context.Context, imageBase64 string) (*domain.DamageAnalysis, error) {
	return &domain.DamageAnalysis{
		IsDevice:          true,
		EstimatedModel:    "iPhone 12",
		Brand:             "Apple",
		Damage:            []string{"Pantalla astillada en la esquina superior", "Marco levemente doblado"},
		Severity:          domain.SeverityModerate,
		EstimatedPriceUYU: decimal.NewFromInt(4500),
		Recommendation:    "Cambio de módulo de pantalla. Revisar el marco antes de instalar.",
		Confidence:        domain.ConfidenceMedium,
		NeedsReview:       false,
	}, nil
}

// LookupSpecs returns a fixed hardware profile carrying the requested model name.
func (d *DemoAnalyzer) LookupSpecs(ctx context.Context, model string) (*domain.SpecsLookup, error) {
	return &domain.SpecsLookup{
		Model: strings.TrimSpace(model),
		RAM: domain.MemorySpec{
			Type:       "DDR4",
			Installed:  "8 GB",
			MaxSupport: "32 GB",
			Slots:      2,
			Speed:      "3200 MHz",
		},
		Storage: domain.StorageSpec{
			Type:      "SSD",
			Interface: "NVMe M.2 2280",
			Installed: "256 GB",
			FreeSlots: 0,
		},
		Recommendation: domain.Upgrade{
			RAM:     "Agregar un módulo DDR4 de 8 GB en el slot libre para llegar a 16 GB.",
			Storage: "Reemplazar por un SSD NVMe de 512 GB.",
		},
		Analysis:    "Equipo apto para ampliación de memoria y almacenamiento.",
		Confidence:  domain.ConfidenceMedium,
		NeedsReview: false,
	}, nil
}
