package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/application/reports"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

// ReportHandler maneja el alta de formularios, el listado y el flujo de
// estados de los reportes.
type ReportHandler struct {
	submit *reports.SubmitUseCase
	status *reports.StatusUseCase
	export *reports.ExportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(submit *reports.SubmitUseCase, status *reports.StatusUseCase, export *reports.ExportUseCase) *ReportHandler {
	return &ReportHandler{submit: submit, status: status, export: export}
}

// SubmitMantenimiento godoc
// @Summary      Enviar formulario de mantenimiento
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitMantenimientoRequest  true  "formulario"
// @Success      201   {object}  dto.SubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/mantenimiento [post]
func (h *ReportHandler) SubmitMantenimiento(c *fiber.Ctx) error {
	var in dto.SubmitMantenimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.submit.SubmitMantenimiento(c.Context(), in)
	if err != nil {
		return submitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SubmitInspeccion godoc
// @Summary      Enviar formulario de inspección
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitInspeccionRequest  true  "formulario"
// @Success      201   {object}  dto.SubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/inspeccion [post]
func (h *ReportHandler) SubmitInspeccion(c *fiber.Ctx) error {
	var in dto.SubmitInspeccionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.submit.SubmitInspeccion(c.Context(), in)
	if err != nil {
		return submitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SubmitOrdenTrabajo godoc
// @Summary      Enviar orden de trabajo
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitOrdenTrabajoRequest  true  "formulario"
// @Success      201   {object}  dto.SubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/orden-trabajo [post]
func (h *ReportHandler) SubmitOrdenTrabajo(c *fiber.Ctx) error {
	var in dto.SubmitOrdenTrabajoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.submit.SubmitOrdenTrabajo(c.Context(), in)
	if err != nil {
		return submitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SubmitReparacion godoc
// @Summary      Enviar formulario de reparación
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitReparacionRequest  true  "formulario"
// @Success      201   {object}  dto.SubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/reparacion [post]
func (h *ReportHandler) SubmitReparacion(c *fiber.Ctx) error {
	var in dto.SubmitReparacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.submit.SubmitReparacion(c.Context(), in)
	if err != nil {
		return submitError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar reportes con filtros opcionales
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        form_type  query  string  false  "tipo de formulario"
// @Param        status     query  string  false  "estado"
// @Param        tecnico    query  string  false  "email del técnico"
// @Param        limit      query  int     false  "Límite"   default(20)
// @Param        offset     query  int     false  "Offset"   default(0)
// @Success      200  {array}  entity.Report
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var in dto.ListReportsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()

	list, err := h.status.List(c.Context(), repository.ReportFilter{
		FormType: in.FormType,
		Status:   in.Status,
		Tecnico:  in.Tecnico,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener un reporte por ID
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  entity.Report
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	report, err := h.status.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reporte no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// ChangeStatus godoc
// @Summary      Cambiar el estado de un reporte (flujo de trabajo)
// @Description  Requiere rol admin, superuser o supervisor. Completado es
//               terminal: el reporte queda bloqueado para nuevos cambios.
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del reporte"
// @Param        body  body  dto.ChangeStatusRequest  true  "nuevo estado"
// @Success      200   {object}  entity.Report
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/status [patch]
func (h *ReportHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	report, err := h.status.ChangeStatus(c.Context(), c.Params("id"), in.Status, GetEmail(c), GetRole(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReportNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reporte no encontrado"})
		case errors.Is(err, domain.ErrReportLocked):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOCKED", Message: "el reporte está completado y no admite más cambios"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol no puede cambiar estados"})
		case errors.Is(err, domain.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: err.Error()})
		case errors.Is(err, domain.ErrPersistence):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo guardar el cambio de estado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// ExportPDF godoc
// @Summary      Descargar la hoja de servicio del reporte en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/pdf [get]
func (h *ReportHandler) ExportPDF(c *fiber.Ctx) error {
	data, filename, err := h.export.ExportPDF(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "reporte no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// submitError mapea los errores del alta de formularios a HTTP.
func submitError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "no se pudo guardar el reporte"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
