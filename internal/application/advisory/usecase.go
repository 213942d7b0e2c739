// Package advisory orquesta las dos operaciones de asistencia por IA:
// sugerencia de formulario y guía de diagnóstico de fallas.
package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

// llmTimeout tope por llamada al LLM; las latencias externas no deben
// bloquear los goroutines del servidor.
const llmTimeout = 10 * time.Second

// UseCase valida la entrada y delega en el puerto LLMService. Ambas
// operaciones son de un solo disparo: sin reintentos y sin resultados
// parciales; cualquier fallo del proveedor se colapsa en
// domain.ErrAdvisory para el caller.
type UseCase struct {
	llm ports.LLMService
}

// NewUseCase construye el caso de uso inyectando el puerto LLMService.
func NewUseCase(llm ports.LLMService) *UseCase {
	return &UseCase{llm: llm}
}

// SuggestForm sugiere el tipo de formulario para la ubicación y equipo
// dados. Valida que el modelo devuelva un tipo de formulario conocido.
func (uc *UseCase) SuggestForm(ctx context.Context, req dto.SuggestFormRequest) (*dto.SuggestFormDTO, error) {
	if req.Ubicacion == "" || req.Equipo == "" {
		return nil, fmt.Errorf("%w: ubicacion y equipo son requeridos", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	out, err := uc.llm.SuggestForm(ctx, req.Ubicacion, req.Equipo)
	if err != nil {
		return nil, fmt.Errorf("%w: sugerencia de formulario: %v", domain.ErrAdvisory, err)
	}
	if _, ok := entity.FormTypesValidos[out.SuggestedForm]; !ok {
		return nil, fmt.Errorf("%w: el modelo devolvió un formulario desconocido %q", domain.ErrAdvisory, out.SuggestedForm)
	}
	return out, nil
}

// Troubleshoot genera la guía de diagnóstico para la falla descrita.
func (uc *UseCase) Troubleshoot(ctx context.Context, req dto.TroubleshootRequest) (*dto.TroubleshootDTO, error) {
	if req.Equipo == "" || req.DescripcionProblema == "" {
		return nil, fmt.Errorf("%w: equipo y descripcion_problema son requeridos", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	out, err := uc.llm.Troubleshoot(ctx, req.Equipo, req.DescripcionProblema)
	if err != nil {
		return nil, fmt.Errorf("%w: diagnóstico: %v", domain.ErrAdvisory, err)
	}
	if len(out.PotentialCauses) == 0 && len(out.DiagnosticSteps) == 0 {
		return nil, fmt.Errorf("%w: el modelo devolvió una guía vacía", domain.ErrAdvisory)
	}
	return out, nil
}
