package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

const reportColumns = "id, form_type, status, equipo, ubicacion, tecnico, fecha_servicio, costo_total, payload, created_at, updated_at"

// ReportRepo implementación del puerto ReportRepository sobre PostgreSQL
// (usable con pool o tx). El cuerpo del formulario vive en una columna
// JSONB y se reconstruye al tipo concreto vía el discriminador form_type.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de persistencia para reportes. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Create persiste un nuevo reporte.
func (r *ReportRepo) Create(ctx context.Context, report *entity.Report) error {
	rawPayload, err := json.Marshal(report.Payload)
	if err != nil {
		return fmt.Errorf("serializar payload: %w", err)
	}
	query := `
		INSERT INTO reportes (id, form_type, status, equipo, ubicacion, tecnico, fecha_servicio, costo_total, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		report.ID, report.FormType, report.Status, report.Equipo, report.Ubicacion,
		report.Tecnico, report.FechaServicio, report.CostoTotal, rawPayload,
		report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: id de reporte duplicado", domain.ErrPersistence)
		}
		return fmt.Errorf("insert reporte: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte por ID. Devuelve (nil, nil) si no existe.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reportes WHERE id = $1`
	report, err := scanReport(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reporte: %w", err)
	}
	return report, nil
}

// UpdateStatus muta solo el estado y updated_at. La escritura es
// condicional: un reporte ya Completado nunca se sobreescribe, aunque el
// caller haya leído un snapshot anterior al cierre. El bloqueo se decide
// en el mismo UPDATE, no con una lectura previa.
func (r *ReportRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE reportes SET status = $2, updated_at = $3 WHERE id = $1 AND status <> $4`,
		id, status, updatedAt, entity.StatusCompletado,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		// Cero filas: o el ID no existe o el reporte está cerrado.
		var current string
		err := r.q.QueryRow(ctx, `SELECT status FROM reportes WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReportNotFound
		}
		if err != nil {
			return fmt.Errorf("verificar estado tras update: %w", err)
		}
		return domain.ErrReportLocked
	}
	return nil
}

// List lista reportes según filtros opcionales, más reciente primero.
func (r *ReportRepo) List(ctx context.Context, filter repository.ReportFilter) ([]*entity.Report, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.FormType != "" {
		add("form_type = $%d", filter.FormType)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Tecnico != "" {
		add("tecnico = $%d", filter.Tecnico)
	}

	query := `SELECT ` + reportColumns + ` FROM reportes`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reportes: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// ListByServiceDateRange reportes con fecha de servicio en [from, to], para el calendario.
func (r *ReportRepo) ListByServiceDateRange(ctx context.Context, from, to time.Time) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + `
		FROM reportes WHERE fecha_servicio BETWEEN $1 AND $2
		ORDER BY fecha_servicio ASC, created_at ASC`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list por fecha de servicio: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// Recent los n reportes más recientes por fecha de creación.
func (r *ReportRepo) Recent(ctx context.Context, n int) ([]*entity.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reportes ORDER BY created_at DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("reportes recientes: %w", err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// CountByStatus conteo agrupado por estado. Los estados sin filas no aparecen;
// el caso de uso del dashboard rellena los ceros.
func (r *ReportRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM reportes GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("conteo por estado: %w", err)
	}
	defer rows.Close()

	var counts []repository.StatusCount
	for rows.Next() {
		var c repository.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan conteo por estado: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountByFormType conteo agrupado por tipo de formulario.
func (r *ReportRepo) CountByFormType(ctx context.Context) ([]repository.FormTypeCount, error) {
	rows, err := r.q.Query(ctx, `SELECT form_type, COUNT(*) FROM reportes GROUP BY form_type`)
	if err != nil {
		return nil, fmt.Errorf("conteo por formulario: %w", err)
	}
	defer rows.Close()

	var counts []repository.FormTypeCount
	for rows.Next() {
		var c repository.FormTypeCount
		if err := rows.Scan(&c.FormType, &c.Count); err != nil {
			return nil, fmt.Errorf("scan conteo por formulario: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SumCostBetween suma costo_total de reportes creados en [from, to].
func (r *ReportRepo) SumCostBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(costo_total), 0) FROM reportes WHERE created_at BETWEEN $1 AND $2`,
		from, to,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("suma de costos: %w", err)
	}
	return sum, nil
}

// CountCreatedBetween cuenta reportes creados en [from, to].
func (r *ReportRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM reportes WHERE created_at BETWEEN $1 AND $2`,
		from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("conteo del mes: %w", err)
	}
	return count, nil
}

// ── Scan helpers ──────────────────────────────────────────────────────────────

func scanReport(row pgx.Row) (*entity.Report, error) {
	var (
		r          entity.Report
		rawPayload []byte
	)
	err := row.Scan(
		&r.ID, &r.FormType, &r.Status, &r.Equipo, &r.Ubicacion, &r.Tecnico,
		&r.FechaServicio, &r.CostoTotal, &rawPayload, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(rawPayload) > 0 {
		payload, err := entity.DecodePayload(r.FormType, rawPayload)
		if err != nil {
			return nil, fmt.Errorf("payload de %s: %w", r.ID, err)
		}
		r.Payload = payload
	}
	return &r, nil
}

func scanReports(rows pgx.Rows) ([]*entity.Report, error) {
	var reports []*entity.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reporte: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
