package reports

import (
	"context"
	"fmt"

	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
	"github.com/cristhlr/ServiTrack-api/internal/domain"
	"github.com/cristhlr/ServiTrack-api/internal/domain/repository"
)

// ExportUseCase genera la hoja de servicio en PDF de un reporte.
type ExportUseCase struct {
	repo repository.ReportRepository
	pdf  ports.ReportPDFGenerator
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(repo repository.ReportRepository, pdf ports.ReportPDFGenerator) *ExportUseCase {
	return &ExportUseCase{repo: repo, pdf: pdf}
}

// ExportPDF devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *ExportUseCase) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	report, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("%w: leer reporte: %v", domain.ErrPersistence, err)
	}
	if report == nil {
		return nil, "", domain.ErrReportNotFound
	}
	raw, err := uc.pdf.GenerateReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF del reporte %s: %w", id, err)
	}
	filename := fmt.Sprintf("reporte-%s-%s.pdf", report.FormType, report.ID[:8])
	return raw, filename, nil
}
