package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/session"
)

// TimerHandler maneja el timer de trabajo del técnico.
type TimerHandler struct {
	timer *session.WorkTimer
}

// NewTimerHandler construye el handler.
func NewTimerHandler(timer *session.WorkTimer) *TimerHandler {
	return &TimerHandler{timer: timer}
}

// Start godoc
// @Summary      Iniciar el timer de trabajo (idempotente)
// @Tags         timer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TimerResponse
// @Router       /api/timer/start [post]
func (h *TimerHandler) Start(c *fiber.Ctx) error {
	startedAt, err := h.timer.Start(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo guardar el inicio del timer"})
	}
	return c.JSON(dto.TimerResponse{
		Running:        true,
		StartedAt:      startedAt.Format(time.RFC3339Nano),
		ElapsedSeconds: int64(time.Since(startedAt).Seconds()),
	})
}

// Status godoc
// @Summary      Estado actual del timer de trabajo
// @Tags         timer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TimerResponse
// @Router       /api/timer [get]
func (h *TimerHandler) Status(c *fiber.Ctx) error {
	running, startedAt, elapsed, err := h.timer.Status(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo leer el timer"})
	}
	out := dto.TimerResponse{Running: running, ElapsedSeconds: int64(elapsed.Seconds())}
	if running {
		out.StartedAt = startedAt.Format(time.RFC3339Nano)
	}
	return c.JSON(out)
}

// Stop godoc
// @Summary      Detener el timer y devolver el tiempo acumulado
// @Tags         timer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TimerResponse
// @Router       /api/timer/stop [post]
func (h *TimerHandler) Stop(c *fiber.Ctx) error {
	elapsed, err := h.timer.Stop(c.Context())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo detener el timer"})
	}
	return c.JSON(dto.TimerResponse{Running: false, ElapsedSeconds: int64(elapsed.Seconds())})
}
