package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"repair-shop/internal/core/httpclient"
	"repair-shop/internal/core/logger"
	"repair-shop/internal/features/inference/domain"

	"go.uber.org/zap"
)

const damagePrompt = `Sos técnico de un servicio de reparación de electrónica en Uruguay.
Analizá la foto y respondé SOLO con un objeto JSON con estos campos:
{"es_dispositivo": bool, "modelo_estimado": string, "marca": string,
 "dano_detectado": [string], "gravedad": "leve"|"moderado"|"severo",
 "precio_estimado_uyu": number, "recomendacion": string, "confianza": "alta"|"media"|"baja"}`

const specsPrompt = `Sos técnico de hardware. Para el modelo "%s" respondé SOLO con un objeto JSON:
{"modelo": string,
 "ram": {"tipo": string, "capacidad_actual": string, "capacidad_maxima": string, "slots": number, "velocidad": string},
 "almacenamiento": {"tipo": string, "interfaz": string, "capacidad_actual": string, "slots_libres": number},
 "recomendacion": {"ram": string, "almacenamiento": string},
 "analisis": string, "confianza": "alta"|"media"|"baja"}`

// GeminiAnalyzer calls the Gemini generateContent API.
type GeminiAnalyzer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewGeminiAnalyzer creates a new Gemini analyzer.
func NewGeminiAnalyzer(baseURL, apiKey, model string, timeout time.Duration) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  httpclient.NewClient(timeout),
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// AnalyzeDamage sends the photo with the damage prompt.
func (g *GeminiAnalyzer) AnalyzeDamage(ctx context.Context, imageBase64 string) (*domain.DamageAnalysis, error) {
	mime, data := splitDataURL(imageBase64)
	text, err := g.generate(ctx, []part{
		{Text: damagePrompt},
		{InlineData: &inlineData{MimeType: mime, Data: data}},
	})
	if err != nil {
		return nil, err
	}

	var analysis domain.DamageAnalysis
	if err := json.Unmarshal([]byte(stripFences(text)), &analysis); err != nil {
		logger.Named("gemini").Warn("Damage analysis reply is not JSON, returning placeholder", zap.Error(err))
		return domain.DamagePlaceholder(), nil
	}
	return &analysis, nil
}

// LookupSpecs asks for the hardware profile of a model.
func (g *GeminiAnalyzer) LookupSpecs(ctx context.Context, model string) (*domain.SpecsLookup, error) {
	text, err := g.generate(ctx, []part{{Text: fmt.Sprintf(specsPrompt, model)}})
	if err != nil {
		return nil, err
	}

	var specs domain.SpecsLookup
	if err := json.Unmarshal([]byte(stripFences(text)), &specs); err != nil {
		logger.Named("gemini").Warn("Specs reply is not JSON, returning placeholder",
			zap.String("model", model),
			zap.Error(err),
		)
		return domain.SpecsPlaceholder(model), nil
	}
	return &specs, nil
}

// generate performs one generateContent call and returns the concatenated reply text.
func (g *GeminiAnalyzer) generate(ctx context.Context, parts []part) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: generationConfig{Temperature: 0.2, ResponseMimeType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", domain.ErrInferenceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gemini API returned status: %d", domain.ErrInferenceUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", domain.ErrInferenceUnavailable, err)
	}

	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

// splitDataURL accepts either raw base64 or a data URL and returns the mime type and payload.
func splitDataURL(image string) (string, string) {
	const defaultMime = "image/jpeg"
	if !strings.HasPrefix(image, "data:") {
		return defaultMime, image
	}
	header, data, ok := strings.Cut(image, ",")
	if !ok {
		return defaultMime, image
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mime == "" {
		mime = defaultMime
	}
	return mime, data
}

// stripFences removes a surrounding markdown code fence from a reply.
func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 {
		t = t[nl+1:]
	} else {
		t = strings.TrimPrefix(t, "json")
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
