package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInferenceUnavailable is returned when the inference backend cannot be reached or fails.
	ErrInferenceUnavailable = errors.New("inference service unavailable")
	// ErrInvalidImage is returned when the image is empty or not base64.
	ErrInvalidImage = errors.New("image must be a non-empty base64 string")
	// ErrModelRequired is returned when a specs lookup has no model name.
	ErrModelRequired = errors.New("model is required")
)

// Severity grades visible damage.
type Severity string

const (
	SeverityMinor    Severity = "leve"
	SeverityModerate Severity = "moderado"
	SeveritySevere   Severity = "severo"
)

// ParseSeverity maps free-form backend values onto the three grades.
// Unknown values yield false.
func ParseSeverity(raw string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "leve", "baja", "minor", "low":
		return SeverityMinor, true
	case "moderado", "moderada", "media", "moderate", "medium":
		return SeverityModerate, true
	case "severo", "severa", "grave", "alta", "severe", "high":
		return SeveritySevere, true
	}
	return "", false
}

// Confidence levels reported with every result.
const (
	ConfidenceHigh   = "alta"
	ConfidenceMedium = "media"
	ConfidenceLow    = "baja"
)

// DamageAnalysis is the result of analysing a photo of a device.
type DamageAnalysis struct {
	IsDevice          bool            `json:"es_dispositivo"`
	EstimatedModel    string          `json:"modelo_estimado"`
	Brand             string          `json:"marca"`
	Damage            []string        `json:"dano_detectado"`
	Severity          Severity        `json:"gravedad"`
	EstimatedPriceUYU decimal.Decimal `json:"precio_estimado_uyu" swaggertype:"string"`
	Recommendation    string          `json:"recomendacion"`
	Confidence        string          `json:"confianza"`
	NeedsReview       bool            `json:"needs_review"`
}

// MemorySpec describes the RAM of a model.
type MemorySpec struct {
	Type       string `json:"tipo"`
	Installed  string `json:"capacidad_actual"`
	MaxSupport string `json:"capacidad_maxima"`
	Slots      int    `json:"slots"`
	Speed      string `json:"velocidad"`
}

// StorageSpec describes the storage of a model.
type StorageSpec struct {
	Type      string `json:"tipo"`
	Interface string `json:"interfaz"`
	Installed string `json:"capacidad_actual"`
	FreeSlots int    `json:"slots_libres"`
}

// Upgrade is the recommended upgrade path.
type Upgrade struct {
	RAM     string `json:"ram"`
	Storage string `json:"almacenamiento"`
}

// SpecsLookup is the hardware profile of a model with upgrade advice.
type SpecsLookup struct {
	Model          string      `json:"modelo"`
	RAM            MemorySpec  `json:"ram"`
	Storage        StorageSpec `json:"almacenamiento"`
	Recommendation Upgrade     `json:"recomendacion"`
	Analysis       string      `json:"analisis"`
	Confidence     string      `json:"confianza"`
	NeedsReview    bool        `json:"needs_review"`
}

// DamagePlaceholder is returned when the backend answered with something that is not JSON.
func DamagePlaceholder() *DamageAnalysis {
	return &DamageAnalysis{
		IsDevice:          true,
		EstimatedModel:    "No identificado",
		Brand:             "Desconocida",
		Damage:            []string{"No se pudo analizar la imagen automáticamente"},
		Severity:          SeverityModerate,
		EstimatedPriceUYU: decimal.Zero,
		Recommendation:    "Traé el equipo al taller para un diagnóstico presencial.",
		Confidence:        ConfidenceLow,
		NeedsReview:       true,
	}
}

// SpecsPlaceholder is returned when the backend answered with something that is not JSON.
func SpecsPlaceholder(model string) *SpecsLookup {
	return &SpecsLookup{
		Model:          model,
		RAM:            MemorySpec{Type: "Desconocido"},
		Storage:        StorageSpec{Type: "Desconocido"},
		Recommendation: Upgrade{RAM: "Consultá con un técnico", Storage: "Consultá con un técnico"},
		Analysis:       "No se pudo obtener la ficha técnica automáticamente.",
		Confidence:     ConfidenceLow,
		NeedsReview:    true,
	}
}

// Normalize fixes up fields a backend may return loosely. An unknown
// severity becomes moderado and flags the result for review.
func (d *DamageAnalysis) Normalize() {
	if s, ok := ParseSeverity(string(d.Severity)); ok {
		d.Severity = s
	} else {
		d.Severity = SeverityModerate
		d.NeedsReview = true
	}
	if d.Damage == nil {
		d.Damage = []string{}
	}
	if d.EstimatedPriceUYU.IsNegative() {
		d.EstimatedPriceUYU = decimal.Zero
	}
	if d.Confidence == "" {
		d.Confidence = ConfidenceMedium
	}
	if d.Confidence == ConfidenceLow {
		d.NeedsReview = true
	}
}

// Normalize fills missing fields of a specs lookup.
func (s *SpecsLookup) Normalize(model string) {
	if strings.TrimSpace(s.Model) == "" {
		s.Model = model
	}
	if s.Confidence == "" {
		s.Confidence = ConfidenceMedium
	}
	if s.Confidence == ConfidenceLow {
		s.NeedsReview = true
	}
}
