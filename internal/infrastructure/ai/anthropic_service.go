package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"

	suggestFormSystemPrompt = `Eres un planificador de servicio técnico para maquinaria pesada.
Dada la ubicación de la visita y el modelo del equipo, decide qué formulario debe diligenciar el técnico.
Devuelve ÚNICAMENTE un objeto JSON válido (sin markdown, sin bloques de código) con esta estructura exacta:
{
  "suggested_form": "<mantenimiento | inspeccion | orden_trabajo | reparacion>",
  "reasoning": "<explicación concisa en español, máximo 200 caracteres>"
}

Reglas:
- suggested_form: exactamente uno de los cuatro valores listados.
- No incluyas texto fuera del JSON. Solo el objeto JSON.`

	troubleshootSystemPrompt = `Eres un mecánico experto en maquinaria pesada (excavadoras, cargadores, retroexcavadoras).
Dado el modelo del equipo y la descripción de una falla, devuelve ÚNICAMENTE un objeto JSON válido (sin markdown) con esta estructura exacta:
{
  "potential_causes": ["<causa probable>", ...],
  "diagnostic_steps": ["<paso de diagnóstico en orden>", ...],
  "recommended_parts": ["<repuesto con referencia si la conoces>", ...]
}

Reglas:
- Entre 2 y 5 elementos por lista; diagnostic_steps en orden de ejecución.
- Todo en español técnico. No incluyas texto fuera del JSON.`
)

// AnthropicService adaptador que implementa LLMService usando la API REST
// de Anthropic (Claude). Usa net/http de la librería estándar de Go; no
// requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			// Timeout de red de 25 s; el use case impone además un
			// context.WithTimeout de 10 s.
			Timeout: 25 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// jsonBlockRe extrae el primer objeto JSON del texto aunque el modelo lo
// envuelva en markdown. Captura desde el primer '{' hasta el último '}'.
var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ── Implementación del puerto ─────────────────────────────────────────────────

// SuggestForm pide al modelo el tipo de formulario para la visita.
func (s *AnthropicService) SuggestForm(ctx context.Context, ubicacion, equipo string) (*dto.SuggestFormDTO, error) {
	userContent := fmt.Sprintf("Ubicación: %s\nEquipo: %s", ubicacion, equipo)

	rawText, err := s.complete(ctx, suggestFormSystemPrompt, userContent)
	if err != nil {
		return nil, err
	}
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}
	var out dto.SuggestFormDTO
	if err := json.Unmarshal([]byte(cleanJSON), &out); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de sugerencia: %w (JSON extraído: %s)", err, cleanJSON)
	}
	out.SuggestedForm = strings.TrimSpace(strings.ToLower(out.SuggestedForm))
	return &out, nil
}

// Troubleshoot pide al modelo la guía de diagnóstico de la falla.
func (s *AnthropicService) Troubleshoot(ctx context.Context, equipo, problema string) (*dto.TroubleshootDTO, error) {
	userContent := fmt.Sprintf("Equipo: %s\nFalla reportada: %s", equipo, problema)

	rawText, err := s.complete(ctx, troubleshootSystemPrompt, userContent)
	if err != nil {
		return nil, err
	}
	cleanJSON := extractJSON(rawText)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON válido en la respuesta del modelo (respuesta: %s)", rawText)
	}
	var out dto.TroubleshootDTO
	if err := json.Unmarshal([]byte(cleanJSON), &out); err != nil {
		return nil, fmt.Errorf("AI: parsear JSON de diagnóstico: %w (JSON extraído: %s)", err, cleanJSON)
	}
	return &out, nil
}

// complete envía una invocación de prompt y devuelve el texto crudo del modelo.
func (s *AnthropicService) complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userContent},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode, string(rawBody))
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}
	if len(anthResp.Content) == 0 {
		return "", fmt.Errorf("AI: el modelo devolvió respuesta vacía")
	}
	return anthResp.Content[0].Text, nil
}

// extractJSON extrae el primer objeto JSON bien formado de un texto libre.
// Estrategia en dos pasos:
//  1. Eliminar bloques de código markdown (```json … ``` o ``` … ```).
//  2. Usar regex para capturar el primer bloque { … }.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		// Quitar la línea de apertura (```json o ```)
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		// Quitar el cierre ```
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}

	// Si el texto resultante ya empieza con '{', usarlo directamente
	if strings.HasPrefix(text, "{") {
		return text
	}

	// Fallback: regex para extraer el primer {...}
	match := jsonBlockRe.FindString(text)
	return strings.TrimSpace(match)
}
