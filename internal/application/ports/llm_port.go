package ports

import (
	"context"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
)

// LLMService define el puerto de salida hacia los servicios de inteligencia
// artificial. Cualquier adaptador (Anthropic, Gemini, mock) implementa esta
// interfaz; la capa de aplicación solo conoce este contrato (DIP).
// Ambas operaciones son request/response de un solo disparo: fallan completas
// o devuelven la estructura completa, sin resultados parciales.
type LLMService interface {
	// SuggestForm sugiere el tipo de formulario a diligenciar según la
	// ubicación y el modelo del equipo. El contexto debe llevar timeout.
	SuggestForm(ctx context.Context, ubicacion, equipo string) (*dto.SuggestFormDTO, error)

	// Troubleshoot genera una guía de diagnóstico para una falla descrita
	// en texto libre: causas potenciales, pasos y repuestos recomendados.
	Troubleshoot(ctx context.Context, equipo, problema string) (*dto.TroubleshootDTO, error)
}
