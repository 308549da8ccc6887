package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"leve", SeverityMinor, true},
		{" Moderada ", SeverityModerate, true},
		{"GRAVE", SeveritySevere, true},
		{"catastrófico", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPlaceholders(t *testing.T) {
	d := DamagePlaceholder()
	assert.True(t, d.NeedsReview)
	assert.Equal(t, ConfidenceLow, d.Confidence)

	s := SpecsPlaceholder("Dell XPS 13")
	assert.True(t, s.NeedsReview)
	assert.Equal(t, ConfidenceLow, s.Confidence)
	assert.Equal(t, "Dell XPS 13", s.Model)
}

func TestDamageAnalysis_Normalize(t *testing.T) {
	d := &DamageAnalysis{Severity: "unknown", EstimatedPriceUYU: decimal.NewFromInt(-10)}
	d.Normalize()

	assert.Equal(t, SeverityModerate, d.Severity)
	assert.True(t, d.NeedsReview)
	assert.True(t, d.EstimatedPriceUYU.IsZero())
	assert.NotNil(t, d.Damage)
	assert.Equal(t, ConfidenceMedium, d.Confidence)

	low := &DamageAnalysis{Severity: "severo", Confidence: ConfidenceLow}
	low.Normalize()
	assert.Equal(t, SeveritySevere, low.Severity)
	assert.True(t, low.NeedsReview)
}

func TestSpecsLookup_Normalize(t *testing.T) {
	s := &SpecsLookup{}
	s.Normalize("Acer Aspire 5")
	assert.Equal(t, "Acer Aspire 5", s.Model)
	assert.Equal(t, ConfidenceMedium, s.Confidence)
	assert.False(t, s.NeedsReview)
}
