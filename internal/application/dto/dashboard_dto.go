package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

// StatusCountDTO barra del gráfico de estados.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// FormTypeCountDTO segmento del gráfico por tipo de formulario.
type FormTypeCountDTO struct {
	FormType string `json:"form_type"`
	Count    int    `json:"count"`
}

// RecentReportDTO fila de la tabla de actividad reciente.
type RecentReportDTO struct {
	ID        string `json:"id"`
	FormType  string `json:"form_type"`
	Status    string `json:"status"`
	Equipo    string `json:"equipo"`
	Tecnico   string `json:"tecnico"`
	CreatedAt string `json:"created_at"` // RFC 3339
	// Transiciones permitidas para el rol del usuario autenticado;
	// vacío = badge en solo lectura o reporte bloqueado.
	AllowedNext []string `json:"allowed_next"`
	Locked      bool     `json:"locked"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	ByStatus     []StatusCountDTO   `json:"by_status"`
	ByFormType   []FormTypeCountDTO `json:"by_form_type"`
	Recent       []RecentReportDTO  `json:"recent"`
	MonthReports int                `json:"month_reports"`
	MonthCost    decimal.Decimal    `json:"month_cost"`
	DateLabel    string             `json:"date_label"`
}

// MonthLabelES etiqueta legible del mes en español, ej: "Agosto 2026".
func MonthLabelES(month int, year int) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	if month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%s %d", months[month-1], year)
}

// ToRecentReportDTO proyecta un reporte a fila de actividad reciente.
// allowedNext la calcula el use case según el rol del solicitante.
func ToRecentReportDTO(r *entity.Report, allowedNext []string) RecentReportDTO {
	return RecentReportDTO{
		ID:          r.ID,
		FormType:    r.FormType,
		Status:      r.Status,
		Equipo:      r.Equipo,
		Tecnico:     r.Tecnico,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		AllowedNext: allowedNext,
		Locked:      r.Locked(),
	}
}
