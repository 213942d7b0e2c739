package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
	"github.com/cristhlr/ServiTrack-api/internal/domain/workflow"
	"github.com/cristhlr/ServiTrack-api/pkg/logger"
)

// StatusUseCase aplica el workflow de estados sobre el almacén de
// reportes. Tras una escritura exitosa relee el reporte del almacén
// (read-after-write) en lugar de devolver la copia optimista en memoria,
// tolerando que el estado del almacén haya divergido.
type StatusUseCase struct {
	repo     repository.ReportRepository
	notifier ports.StatusNotifier // opcional; nil = sin notificaciones
	log      *logger.Logger
	now      func() time.Time
}

// NewStatusUseCase construye el caso de uso. notifier puede ser nil.
func NewStatusUseCase(repo repository.ReportRepository, notifier ports.StatusNotifier, log *logger.Logger) *StatusUseCase {
	return &StatusUseCase{repo: repo, notifier: notifier, log: log, now: time.Now}
}

// ChangeStatus intenta llevar el reporte id al estado newStatus actuando
// con el rol dado.
//
//   - Reporte inexistente          → domain.ErrReportNotFound
//   - Reporte Completado           → domain.ErrReportLocked (para todo rol)
//   - Rol user-technicians         → domain.ErrForbidden
//   - Estado destino desconocido   → domain.ErrInvalidStatus
//   - newStatus == estado actual   → no-op exitoso, sin escritura
//   - Fallo de persistencia        → domain.ErrPersistence; el almacén no
//     queda a medias y no se reintenta
func (uc *StatusUseCase) ChangeStatus(ctx context.Context, id, newStatus, actorEmail, actorRole string) (*entity.Report, error) {
	report, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: leer reporte: %v", domain.ErrPersistence, err)
	}
	if report == nil {
		return nil, domain.ErrReportNotFound
	}

	if err := workflow.Authorize(actorRole, report.Status, newStatus); err != nil {
		return nil, err
	}
	if report.Status == newStatus {
		// Fijar el mismo valor es un no-op, no un error.
		return report, nil
	}

	from := report.Status
	if err := uc.repo.UpdateStatus(ctx, id, newStatus, uc.now().UTC()); err != nil {
		// El almacén revalida el cierre en la escritura: si otro actor
		// completó el reporte entre la lectura y el UPDATE, el bloqueo
		// llega desde aquí y no desde el workflow.
		if errors.Is(err, domain.ErrReportNotFound) || errors.Is(err, domain.ErrReportLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: actualizar estado: %v", domain.ErrPersistence, err)
	}

	// Read-after-write: la respuesta sale del almacén, no de la copia local.
	updated, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: releer reporte: %v", domain.ErrPersistence, err)
	}
	if updated == nil {
		return nil, domain.ErrReportNotFound
	}

	uc.publish(ctx, ports.StatusChangeEvent{
		ReportID:   updated.ID,
		FormType:   updated.FormType,
		FromStatus: from,
		ToStatus:   updated.Status,
		Actor:      actorEmail,
	})
	return updated, nil
}

// Get devuelve un reporte por ID.
func (uc *StatusUseCase) Get(ctx context.Context, id string) (*entity.Report, error) {
	report, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: leer reporte: %v", domain.ErrPersistence, err)
	}
	if report == nil {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}

// List lista reportes con filtros y paginación.
func (uc *StatusUseCase) List(ctx context.Context, filter repository.ReportFilter) ([]*entity.Report, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: listar reportes: %v", domain.ErrPersistence, err)
	}
	return list, nil
}

// publish notifica el cambio best-effort: un fallo se registra y nada más.
func (uc *StatusUseCase) publish(ctx context.Context, ev ports.StatusChangeEvent) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.PublishStatusChange(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("report_id", ev.ReportID).Msg("reports: notificación de cambio de estado fallida")
	}
}
