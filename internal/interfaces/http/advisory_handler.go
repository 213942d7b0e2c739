package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cristhlr/ServiTrack-api/internal/application/advisory"
	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
)

// AdvisoryHandler maneja los endpoints de asistencia por IA: sugerencia de
// formulario y guía de diagnóstico de fallas.
type AdvisoryHandler struct {
	uc *advisory.UseCase
}

// NewAdvisoryHandler construye el handler.
func NewAdvisoryHandler(uc *advisory.UseCase) *AdvisoryHandler {
	return &AdvisoryHandler{uc: uc}
}

// SuggestForm godoc
// @Summary      Sugerir el tipo de formulario con IA
// @Description  Analiza la ubicación de la visita y el modelo del equipo y
//               devuelve el formulario más apropiado con su razonamiento.
//               Timeout interno de 10 s.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SuggestFormRequest  true  "ubicacion y equipo"
// @Success      200   {object}  dto.SuggestFormDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/ai/suggest-form [post]
func (h *AdvisoryHandler) SuggestForm(c *fiber.Ctx) error {
	var req dto.SuggestFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}
	result, err := h.uc.SuggestForm(c.Context(), req)
	if err != nil {
		return advisoryError(c, err)
	}
	return c.JSON(result)
}

// Troubleshoot godoc
// @Summary      Guía de diagnóstico de fallas con IA
// @Description  Dado el modelo del equipo y la descripción de la falla,
//               devuelve causas probables, pasos de diagnóstico en orden y
//               repuestos recomendados. Timeout interno de 10 s.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TroubleshootRequest  true  "equipo y descripcion_problema"
// @Success      200   {object}  dto.TroubleshootDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/ai/troubleshoot [post]
func (h *AdvisoryHandler) Troubleshoot(c *fiber.Ctx) error {
	var req dto.TroubleshootRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}
	result, err := h.uc.Troubleshoot(c.Context(), req)
	if err != nil {
		return advisoryError(c, err)
	}
	return c.JSON(result)
}

// advisoryError mapea los fallos del asesor IA a HTTP.
func advisoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case isTimeout(err):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo"})
	case strings.Contains(err.Error(), "API_KEY"):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: "el asesor IA no está configurado"})
	case errors.Is(err, domain.ErrAdvisory):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "AI_FAILED", Message: "el asesor IA no pudo generar una respuesta"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// isTimeout detecta errores de timeout/cancelación de contexto en el mensaje de error.
func isTimeout(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded") ||
		strings.Contains(msg, "cancelación")
}
