// Package analytics contiene el caso de uso del Dashboard de actividad:
// conteos por estado y tipo de formulario, actividad reciente y métricas
// del mes en curso.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
	"github.com/cristhlr/ServiTrack-api/internal/domain/workflow"
)

const dashboardRecentReports = 8 // filas de la tabla de actividad reciente

// DashboardUseCase genera el resumen del dashboard.
//
// Fuente de datos: ReportRepository (consultas read-only); no reconstruye
// los payloads, solo proyecta encabezados y agregados.
type DashboardUseCase struct {
	repo repository.ReportRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.ReportRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO para el rol indicado (las
// transiciones permitidas por fila dependen del rol del solicitante).
//
// Cuatro consultas en paralelo:
//  1. CountByStatus            → ByStatus
//  2. CountByFormType          → ByFormType
//  3. Recent(8)                → Recent
//  4. Count/SumCost (mes)      → MonthReports + MonthCost
func (uc *DashboardUseCase) GetSummary(ctx context.Context, viewerRole string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	type statusResult struct {
		counts []repository.StatusCount
		err    error
	}
	type formTypeResult struct {
		counts []repository.FormTypeCount
		err    error
	}
	type recentResult struct {
		reports []*entity.Report
		err     error
	}
	type monthResult struct {
		count int
		cost  decimal.Decimal
		err   error
	}

	statusCh := make(chan statusResult, 1)
	formCh := make(chan formTypeResult, 1)
	recentCh := make(chan recentResult, 1)
	monthCh := make(chan monthResult, 1)

	go func() {
		counts, err := uc.repo.CountByStatus(ctx)
		statusCh <- statusResult{counts, err}
	}()
	go func() {
		counts, err := uc.repo.CountByFormType(ctx)
		formCh <- formTypeResult{counts, err}
	}()
	go func() {
		list, err := uc.repo.Recent(ctx, dashboardRecentReports)
		recentCh <- recentResult{list, err}
	}()
	go func() {
		count, err := uc.repo.CountCreatedBetween(ctx, monthStart, monthEnd)
		if err != nil {
			monthCh <- monthResult{err: err}
			return
		}
		cost, err := uc.repo.SumCostBetween(ctx, monthStart, monthEnd)
		monthCh <- monthResult{count: count, cost: cost, err: err}
	}()

	status := <-statusCh
	form := <-formCh
	recent := <-recentCh
	month := <-monthCh

	if status.err != nil {
		return nil, fmt.Errorf("dashboard: conteo por estado: %w", status.err)
	}
	if form.err != nil {
		return nil, fmt.Errorf("dashboard: conteo por formulario: %w", form.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: actividad reciente: %w", recent.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}

	// Los estados se emiten en orden fijo, incluyendo los que están en cero,
	// para que el gráfico de barras no baile entre recargas.
	byCount := make(map[string]int, len(status.counts))
	for _, c := range status.counts {
		byCount[c.Status] = c.Count
	}
	byStatus := make([]dto.StatusCountDTO, 0, 5)
	for _, s := range entity.AllStatuses() {
		byStatus = append(byStatus, dto.StatusCountDTO{Status: s, Count: byCount[s]})
	}

	byFormType := make([]dto.FormTypeCountDTO, 0, len(form.counts))
	for _, c := range form.counts {
		byFormType = append(byFormType, dto.FormTypeCountDTO{FormType: c.FormType, Count: c.Count})
	}

	rows := make([]dto.RecentReportDTO, 0, len(recent.reports))
	for _, r := range recent.reports {
		rows = append(rows, dto.ToRecentReportDTO(r, workflow.AllowedNext(viewerRole, r.Status)))
	}

	return &dto.DashboardSummaryDTO{
		ByStatus:     byStatus,
		ByFormType:   byFormType,
		Recent:       rows,
		MonthReports: month.count,
		MonthCost:    month.cost.Round(2),
		DateLabel:    dto.MonthLabelES(int(now.Month()), now.Year()),
	}, nil
}
