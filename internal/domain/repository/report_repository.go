package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

// ReportFilter filtros opcionales para listados de reportes.
type ReportFilter struct {
	FormType string // vacío = todos
	Status   string // vacío = todos
	Tecnico  string // vacío = todos
	Limit    int
	Offset   int
}

// StatusCount conteo de reportes por estado.
type StatusCount struct {
	Status string
	Count  int
}

// FormTypeCount conteo de reportes por tipo de formulario.
type FormTypeCount struct {
	FormType string
	Count    int
}

// ReportRepository define el puerto de persistencia del almacén de reportes.
// Colección de solo-agregado: los reportes nunca se eliminan; el estado se
// muta únicamente a través del workflow.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	// UpdateStatus falla con domain.ErrReportNotFound si el ID no existe y
	// con domain.ErrReportLocked si el reporte almacenado ya está Completado:
	// el cierre se defiende en la escritura misma, no solo en el workflow,
	// para que dos peticiones concurrentes no puedan reabrir un reporte.
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	List(ctx context.Context, filter ReportFilter) ([]*entity.Report, error)
	// ListByServiceDateRange reportes con fecha de servicio en [from, to].
	ListByServiceDateRange(ctx context.Context, from, to time.Time) ([]*entity.Report, error)
	Recent(ctx context.Context, n int) ([]*entity.Report, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	CountByFormType(ctx context.Context) ([]FormTypeCount, error)
	// SumCostBetween suma costo_total de reportes creados en [from, to].
	SumCostBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}
