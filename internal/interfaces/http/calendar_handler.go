package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/reports"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
)

// CalendarHandler maneja la vista de calendario mensual de servicios.
type CalendarHandler struct {
	uc *reports.CalendarUseCase
}

// NewCalendarHandler construye el handler.
func NewCalendarHandler(uc *reports.CalendarUseCase) *CalendarHandler {
	return &CalendarHandler{uc: uc}
}

// GetMonth godoc
// @Summary      Reportes del mes agrupados por día de servicio
// @Tags         calendar
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  false  "año (default: actual)"
// @Param        month  query  int  false  "mes 1-12 (default: actual)"
// @Success      200  {object}  dto.CalendarMonthDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/calendar [get]
func (h *CalendarHandler) GetMonth(c *fiber.Ctx) error {
	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))

	out, err := h.uc.GetMonth(c.Context(), year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
