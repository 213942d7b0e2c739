package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/cristhlr/ServiTrack-api/internal/application/analytics"
	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
)

// DashboardHandler maneja el endpoint del Dashboard de actividad.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de actividad del taller.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (by_status, by_form_type, recent[8],
// month_reports, month_cost, date_label). Las transiciones permitidas de
// cada fila reciente dependen del rol del token.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), GetRole(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(summary)
}
