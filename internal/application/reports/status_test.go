package reports_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
	"github.com/cristhlr/ServiTrack-api/internal/application/reports"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
	"github.com/cristhlr/ServiTrack-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeRepo almacén de reportes en memoria con fallos inyectables.
type fakeRepo struct {
	reports    map[string]*entity.Report
	failUpdate bool
}

func newFakeRepo(seed ...*entity.Report) *fakeRepo {
	r := &fakeRepo{reports: make(map[string]*entity.Report)}
	for _, rep := range seed {
		cp := *rep
		r.reports[rep.ID] = &cp
	}
	return r
}

func (f *fakeRepo) Create(_ context.Context, report *entity.Report) error {
	cp := *report
	f.reports[report.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*entity.Report, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	if f.failUpdate {
		return errors.New("conexión perdida")
	}
	r, ok := f.reports[id]
	if !ok {
		return domain.ErrReportNotFound
	}
	// Misma escritura condicional que el adaptador real: un reporte
	// Completado en el almacén no se sobreescribe.
	if r.Status == entity.StatusCompletado {
		return domain.ErrReportLocked
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ReportFilter) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.reports {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListByServiceDateRange(_ context.Context, from, to time.Time) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.reports {
		if r.FechaServicio.Before(from) || r.FechaServicio.After(to) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) Recent(_ context.Context, n int) ([]*entity.Report, error) {
	out, _ := f.List(context.Background(), repository.ReportFilter{})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (f *fakeRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	counts := make(map[string]int)
	for _, r := range f.reports {
		counts[r.Status]++
	}
	var out []repository.StatusCount
	for s, c := range counts {
		out = append(out, repository.StatusCount{Status: s, Count: c})
	}
	return out, nil
}

func (f *fakeRepo) CountByFormType(_ context.Context) ([]repository.FormTypeCount, error) {
	counts := make(map[string]int)
	for _, r := range f.reports {
		counts[r.FormType]++
	}
	var out []repository.FormTypeCount
	for ft, c := range counts {
		out = append(out, repository.FormTypeCount{FormType: ft, Count: c})
	}
	return out, nil
}

func (f *fakeRepo) SumCostBetween(_ context.Context, _, _ time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, r := range f.reports {
		sum = sum.Add(r.CostoTotal)
	}
	return sum, nil
}

func (f *fakeRepo) CountCreatedBetween(_ context.Context, _, _ time.Time) (int, error) {
	return len(f.reports), nil
}

// staleReadRepo devuelve en GetByID una copia desactualizada del reporte
// mientras el almacén subyacente ya avanzó, simulando dos peticiones
// concurrentes donde la segunda lee antes de que la primera escriba.
type staleReadRepo struct {
	*fakeRepo
	stale *entity.Report
}

func (s *staleReadRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	if s.stale != nil && s.stale.ID == id {
		cp := *s.stale
		return &cp, nil
	}
	return s.fakeRepo.GetByID(ctx, id)
}

// fakeNotifier registra los eventos publicados.
type fakeNotifier struct {
	events []ports.StatusChangeEvent
}

func (f *fakeNotifier) PublishStatusChange(_ context.Context, ev ports.StatusChangeEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func listAll() repository.ReportFilter {
	return repository.ReportFilter{Limit: 100}
}

func pendiente(id string) *entity.Report {
	return &entity.Report{
		ID:            id,
		FormType:      entity.FormMantenimiento,
		Status:        entity.StatusPendiente,
		Equipo:        "CAT 320D",
		Ubicacion:     "Obra Norte",
		Tecnico:       "mcastro@servitrack.co",
		FechaServicio: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2026, 8, 19, 10, 0, 0, 0, time.UTC),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeStatus_TecnicoRechazadoReporteIntacto(t *testing.T) {
	repo := newFakeRepo(pendiente("R1"))
	uc := reports.NewStatusUseCase(repo, nil, testLogger())

	_, err := uc.ChangeStatus(context.Background(), "R1", entity.StatusEnProgreso,
		"mcastro@servitrack.co", entity.RoleTechnician)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, _ := repo.GetByID(context.Background(), "R1")
	assert.Equal(t, entity.StatusPendiente, got.Status, "el reporte no debe cambiar")
}

func TestChangeStatus_CompletadoBloqueadoInclusoParaAdmin(t *testing.T) {
	r := pendiente("R2")
	r.Status = entity.StatusCompletado
	repo := newFakeRepo(r)
	uc := reports.NewStatusUseCase(repo, nil, testLogger())

	_, err := uc.ChangeStatus(context.Background(), "R2", entity.StatusEnProgreso,
		"admin@servitrack.co", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrReportLocked)

	got, _ := repo.GetByID(context.Background(), "R2")
	assert.Equal(t, entity.StatusCompletado, got.Status)
}

func TestChangeStatus_ExitosoReleeDelAlmacenYNotifica(t *testing.T) {
	repo := newFakeRepo(pendiente("R3"))
	notifier := &fakeNotifier{}
	uc := reports.NewStatusUseCase(repo, notifier, testLogger())

	updated, err := uc.ChangeStatus(context.Background(), "R3", entity.StatusEnProgreso,
		"jquintero@servitrack.co", entity.RoleSupervisor)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusEnProgreso, updated.Status)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "R3", notifier.events[0].ReportID)
	assert.Equal(t, entity.StatusPendiente, notifier.events[0].FromStatus)
	assert.Equal(t, entity.StatusEnProgreso, notifier.events[0].ToStatus)
	assert.Equal(t, "jquintero@servitrack.co", notifier.events[0].Actor)
}

func TestChangeStatus_MismoEstadoEsNoOp(t *testing.T) {
	repo := newFakeRepo(pendiente("R4"))
	notifier := &fakeNotifier{}
	uc := reports.NewStatusUseCase(repo, notifier, testLogger())

	updated, err := uc.ChangeStatus(context.Background(), "R4", entity.StatusPendiente,
		"admin@servitrack.co", entity.RoleAdmin)
	require.NoError(t, err, "fijar el mismo estado es un no-op, no un error")
	assert.Equal(t, entity.StatusPendiente, updated.Status)
	assert.Empty(t, notifier.events, "un no-op no publica eventos")
}

func TestChangeStatus_FalloDePersistenciaNoCambiaNada(t *testing.T) {
	repo := newFakeRepo(pendiente("R5"))
	notifier := &fakeNotifier{}
	uc := reports.NewStatusUseCase(repo, notifier, testLogger())
	repo.failUpdate = true

	_, err := uc.ChangeStatus(context.Background(), "R5", entity.StatusCompletado,
		"admin@servitrack.co", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	got, _ := repo.GetByID(context.Background(), "R5")
	assert.Equal(t, entity.StatusPendiente, got.Status, "sin escritura confirmada no hay cambio visible")
	assert.Empty(t, notifier.events)
}

func TestChangeStatus_ReporteInexistente(t *testing.T) {
	uc := reports.NewStatusUseCase(newFakeRepo(), nil, testLogger())
	_, err := uc.ChangeStatus(context.Background(), "no-existe", entity.StatusEnProgreso,
		"admin@servitrack.co", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestChangeStatus_SnapshotViejoNoReabreCompletado(t *testing.T) {
	closed := pendiente("R8")
	closed.Status = entity.StatusCompletado
	repo := newFakeRepo(closed)
	notifier := &fakeNotifier{}
	// La lectura inicial ve el reporte todavía Pendiente, como si otro
	// actor lo hubiera completado justo después.
	uc := reports.NewStatusUseCase(&staleReadRepo{fakeRepo: repo, stale: pendiente("R8")},
		notifier, testLogger())

	_, err := uc.ChangeStatus(context.Background(), "R8", entity.StatusEnProgreso,
		"admin@servitrack.co", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrReportLocked,
		"la escritura condicional debe rechazar el cambio aunque el snapshot leído no estuviera cerrado")

	got, _ := repo.GetByID(context.Background(), "R8")
	assert.Equal(t, entity.StatusCompletado, got.Status, "el cierre nunca se revierte")
	assert.Empty(t, notifier.events)
}

func TestChangeStatus_CanceladoSePuedeReactivar(t *testing.T) {
	r := pendiente("R6")
	r.Status = entity.StatusCancelado
	repo := newFakeRepo(r)
	uc := reports.NewStatusUseCase(repo, nil, testLogger())

	updated, err := uc.ChangeStatus(context.Background(), "R6", entity.StatusPendiente,
		"admin@servitrack.co", entity.RoleAdmin)
	require.NoError(t, err, "Cancelado no es terminal")
	assert.Equal(t, entity.StatusPendiente, updated.Status)
}
