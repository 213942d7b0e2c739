// Package reports contiene los casos de uso del almacén de reportes:
// envío de formularios, cambio de estado bajo el workflow, calendario de
// visitas y exportación a PDF.
package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

// wireDateFormat formato de cable de las fechas de formulario.
const wireDateFormat = "2006-01-02"

// SubmitUseCase valida cada formulario contra su esquema y agrega el
// documento resultante al almacén de reportes. La validación ocurre antes
// de tocar persistencia; un reporte inválido nunca llega al repositorio.
type SubmitUseCase struct {
	repo repository.ReportRepository
	now  func() time.Time
}

// NewSubmitUseCase construye el caso de uso.
func NewSubmitUseCase(repo repository.ReportRepository) *SubmitUseCase {
	return &SubmitUseCase{repo: repo, now: time.Now}
}

// SubmitMantenimiento valida y persiste un formulario de mantenimiento.
func (uc *SubmitUseCase) SubmitMantenimiento(ctx context.Context, req dto.SubmitMantenimientoRequest) (*dto.SubmitResponse, error) {
	fecha, err := uc.validateHeader(req.SubmitHeader)
	if err != nil {
		return nil, err
	}
	if req.TipoMantenimiento != "preventivo" && req.TipoMantenimiento != "correctivo" {
		return nil, fmt.Errorf("%w: tipo_mantenimiento debe ser preventivo o correctivo", domain.ErrInvalidInput)
	}
	if len(req.TrabajosRealizados) == 0 {
		return nil, fmt.Errorf("%w: trabajos_realizados no puede estar vacío", domain.ErrInvalidInput)
	}
	payload := entity.MantenimientoPayload{
		TipoMantenimiento:   req.TipoMantenimiento,
		Horometro:           req.Horometro,
		TrabajosRealizados:  req.TrabajosRealizados,
		RepuestosUtilizados: req.RepuestosUtilizados,
		Observaciones:       req.Observaciones,
	}
	return uc.create(ctx, req.SubmitHeader, fecha, payload, decimal.Zero)
}

// SubmitInspeccion valida y persiste un formulario de inspección.
func (uc *SubmitUseCase) SubmitInspeccion(ctx context.Context, req dto.SubmitInspeccionRequest) (*dto.SubmitResponse, error) {
	fecha, err := uc.validateHeader(req.SubmitHeader)
	if err != nil {
		return nil, err
	}
	if len(req.Checklist) == 0 {
		return nil, fmt.Errorf("%w: el checklist requiere al menos un punto", domain.ErrInvalidInput)
	}
	items := make([]entity.ChecklistItem, 0, len(req.Checklist))
	for i, it := range req.Checklist {
		if it.Item == "" {
			return nil, fmt.Errorf("%w: checklist[%d].item es requerido", domain.ErrInvalidInput, i)
		}
		switch it.Estado {
		case "ok", "atencion", "critico":
		default:
			return nil, fmt.Errorf("%w: checklist[%d].estado debe ser ok, atencion o critico", domain.ErrInvalidInput, i)
		}
		items = append(items, entity.ChecklistItem{Item: it.Item, Estado: it.Estado, Nota: it.Nota})
	}
	payload := entity.InspeccionPayload{
		Checklist:        items,
		NivelCombustible: req.NivelCombustible,
		Horometro:        req.Horometro,
		Observaciones:    req.Observaciones,
	}
	return uc.create(ctx, req.SubmitHeader, fecha, payload, decimal.Zero)
}

// SubmitOrdenTrabajo valida y persiste una orden de trabajo. El costo
// total (mano de obra + repuestos) se proyecta en la columna de resumen
// para la analítica del dashboard.
func (uc *SubmitUseCase) SubmitOrdenTrabajo(ctx context.Context, req dto.SubmitOrdenTrabajoRequest) (*dto.SubmitResponse, error) {
	fecha, err := uc.validateHeader(req.SubmitHeader)
	if err != nil {
		return nil, err
	}
	if req.DescripcionTrabajo == "" {
		return nil, fmt.Errorf("%w: descripcion_trabajo es requerida", domain.ErrInvalidInput)
	}
	switch req.Prioridad {
	case "baja", "media", "alta":
	default:
		return nil, fmt.Errorf("%w: prioridad debe ser baja, media o alta", domain.ErrInvalidInput)
	}
	if req.CostoManoObra.IsNegative() || req.CostoRepuestos.IsNegative() {
		return nil, fmt.Errorf("%w: los costos no pueden ser negativos", domain.ErrInvalidInput)
	}
	payload := entity.OrdenTrabajoPayload{
		DescripcionTrabajo: req.DescripcionTrabajo,
		Prioridad:          req.Prioridad,
		HorasEstimadas:     req.HorasEstimadas,
		CostoManoObra:      req.CostoManoObra,
		CostoRepuestos:     req.CostoRepuestos,
	}
	return uc.create(ctx, req.SubmitHeader, fecha, payload, payload.CostoTotal())
}

// SubmitReparacion valida y persiste un formulario de reparación.
func (uc *SubmitUseCase) SubmitReparacion(ctx context.Context, req dto.SubmitReparacionRequest) (*dto.SubmitResponse, error) {
	fecha, err := uc.validateHeader(req.SubmitHeader)
	if err != nil {
		return nil, err
	}
	if req.FallaReportada == "" || req.Diagnostico == "" {
		return nil, fmt.Errorf("%w: falla_reportada y diagnostico son requeridos", domain.ErrInvalidInput)
	}
	payload := entity.ReparacionPayload{
		FallaReportada:      req.FallaReportada,
		Diagnostico:         req.Diagnostico,
		RepuestosUtilizados: req.RepuestosUtilizados,
		HorasParada:         req.HorasParada,
	}
	return uc.create(ctx, req.SubmitHeader, fecha, payload, decimal.Zero)
}

// validateHeader valida los campos comunes y normaliza la fecha de
// servicio desde el formato de cable YYYY-MM-DD.
func (uc *SubmitUseCase) validateHeader(h dto.SubmitHeader) (time.Time, error) {
	if h.Equipo == "" || h.Ubicacion == "" || h.Tecnico == "" {
		return time.Time{}, fmt.Errorf("%w: equipo, ubicacion y tecnico son requeridos", domain.ErrInvalidInput)
	}
	fecha, err := time.Parse(wireDateFormat, h.FechaServicio)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha_servicio debe ser YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return fecha, nil
}

// create arma el reporte con ID generado y estado inicial Pendiente y lo
// agrega al almacén.
func (uc *SubmitUseCase) create(ctx context.Context, h dto.SubmitHeader, fecha time.Time, payload entity.ReportPayload, costo decimal.Decimal) (*dto.SubmitResponse, error) {
	now := uc.now().UTC()
	report := &entity.Report{
		ID:            uuid.New().String(),
		FormType:      payload.FormType(),
		Status:        entity.StatusPendiente,
		Equipo:        h.Equipo,
		Ubicacion:     h.Ubicacion,
		Tecnico:       h.Tecnico,
		FechaServicio: fecha,
		CostoTotal:    costo,
		Payload:       payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("%w: guardar reporte: %v", domain.ErrPersistence, err)
	}
	return &dto.SubmitResponse{ID: report.ID, Status: report.Status}, nil
}
