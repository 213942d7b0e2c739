package ports

import (
	"context"

	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

// ReportPDFGenerator puerto de salida para la hoja de servicio en PDF.
type ReportPDFGenerator interface {
	GenerateReportPDF(ctx context.Context, report *entity.Report) ([]byte, error)
}
