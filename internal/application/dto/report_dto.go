package dto

import (
	"github.com/shopspring/decimal"
)

// Las fechas de formulario viajan en formato YYYY-MM-DD (formato de cable
// acordado con el frontend); el use case las normaliza a time.Time.

// SubmitHeader campos comunes a todos los formularios.
type SubmitHeader struct {
	Equipo        string `json:"equipo" validate:"required,min=1,max=200"`
	Ubicacion     string `json:"ubicacion" validate:"required,min=1,max=200"`
	Tecnico       string `json:"tecnico" validate:"required,email"`
	FechaServicio string `json:"fecha_servicio" validate:"required"` // YYYY-MM-DD
}

// SubmitMantenimientoRequest formulario de mantenimiento.
type SubmitMantenimientoRequest struct {
	SubmitHeader
	TipoMantenimiento   string          `json:"tipo_mantenimiento" validate:"required,oneof=preventivo correctivo"`
	Horometro           decimal.Decimal `json:"horometro"`
	TrabajosRealizados  []string        `json:"trabajos_realizados" validate:"required,min=1"`
	RepuestosUtilizados []string        `json:"repuestos_utilizados"`
	Observaciones       string          `json:"observaciones"`
}

// ChecklistItemDTO punto del checklist de inspección.
type ChecklistItemDTO struct {
	Item   string `json:"item" validate:"required"`
	Estado string `json:"estado" validate:"required,oneof=ok atencion critico"`
	Nota   string `json:"nota"`
}

// SubmitInspeccionRequest formulario de inspección.
type SubmitInspeccionRequest struct {
	SubmitHeader
	Checklist        []ChecklistItemDTO `json:"checklist" validate:"required,min=1"`
	NivelCombustible string             `json:"nivel_combustible"`
	Horometro        decimal.Decimal    `json:"horometro"`
	Observaciones    string             `json:"observaciones"`
}

// SubmitOrdenTrabajoRequest orden de trabajo.
type SubmitOrdenTrabajoRequest struct {
	SubmitHeader
	DescripcionTrabajo string          `json:"descripcion_trabajo" validate:"required"`
	Prioridad          string          `json:"prioridad" validate:"required,oneof=baja media alta"`
	HorasEstimadas     decimal.Decimal `json:"horas_estimadas"`
	CostoManoObra      decimal.Decimal `json:"costo_mano_obra"`
	CostoRepuestos     decimal.Decimal `json:"costo_repuestos"`
}

// SubmitReparacionRequest formulario de reparación.
type SubmitReparacionRequest struct {
	SubmitHeader
	FallaReportada      string          `json:"falla_reportada" validate:"required"`
	Diagnostico         string          `json:"diagnostico" validate:"required"`
	RepuestosUtilizados []string        `json:"repuestos_utilizados"`
	HorasParada         decimal.Decimal `json:"horas_parada"`
}

// SubmitResponse confirma el alta con el ID generado.
type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ChangeStatusRequest entrada de PATCH /reports/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListReportsRequest filtros de GET /reports.
type ListReportsRequest struct {
	PageRequest
	FormType string `query:"form_type"`
	Status   string `query:"status"`
	Tecnico  string `query:"tecnico"`
}

// CalendarDayDTO reportes agendados para un día del mes.
type CalendarDayDTO struct {
	Date    string             `json:"date"` // YYYY-MM-DD
	Reports []CalendarEntryDTO `json:"reports"`
}

// CalendarEntryDTO resumen de un reporte en el calendario.
type CalendarEntryDTO struct {
	ID       string `json:"id"`
	FormType string `json:"form_type"`
	Equipo   string `json:"equipo"`
	Tecnico  string `json:"tecnico"`
	Status   string `json:"status"`
}

// CalendarMonthDTO respuesta de GET /calendar.
type CalendarMonthDTO struct {
	Year  int              `json:"year"`
	Month int              `json:"month"`
	Days  []CalendarDayDTO `json:"days"`
}
