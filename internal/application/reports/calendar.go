package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cristhlr/ServiTrack-api/internal/application/dto"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

// CalendarUseCase agrega los reportes por fecha de servicio para la vista
// mensual de visitas programadas.
type CalendarUseCase struct {
	repo repository.ReportRepository
}

// NewCalendarUseCase construye el caso de uso.
func NewCalendarUseCase(repo repository.ReportRepository) *CalendarUseCase {
	return &CalendarUseCase{repo: repo}
}

// GetMonth devuelve los días del mes con reportes agendados, ordenados por
// fecha. Los días sin reportes no aparecen.
func (uc *CalendarUseCase) GetMonth(ctx context.Context, year, month int) (*dto.CalendarMonthDTO, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month debe estar entre 1 y 12", domain.ErrInvalidInput)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year fuera de rango", domain.ErrInvalidInput)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	list, err := uc.repo.ListByServiceDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: calendario: %v", domain.ErrPersistence, err)
	}

	byDay := make(map[string][]dto.CalendarEntryDTO)
	for _, r := range list {
		day := r.FechaServicio.Format(wireDateFormat)
		byDay[day] = append(byDay[day], dto.CalendarEntryDTO{
			ID:       r.ID,
			FormType: r.FormType,
			Equipo:   r.Equipo,
			Tecnico:  r.Tecnico,
			Status:   r.Status,
		})
	}

	days := make([]dto.CalendarDayDTO, 0, len(byDay))
	for day, entries := range byDay {
		days = append(days, dto.CalendarDayDTO{Date: day, Reports: entries})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return &dto.CalendarMonthDTO{Year: year, Month: month, Days: days}, nil
}
