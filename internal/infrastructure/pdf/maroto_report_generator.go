// Package pdf implementa la Hoja de Servicio imprimible de un reporte de
// campo (mantenimiento, inspección, orden de trabajo o reparación).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de formulario + ID  │  Estado + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ENCABEZADO: Equipo / Ubicación / Técnico                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUERPO: sección específica según el tipo de formulario      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES (solo orden de trabajo): costo estimado             │
//	│  FOOTER: línea de firma del técnico y del supervisor         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
	"github.com/cristhlr/ServiTrack-api/internal/domain/entity"
)

var _ ports.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 194, Green: 65, Blue: 12} // naranja industrial
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// formTitles título impreso por tipo de formulario.
var formTitles = map[string]string{
	entity.FormMantenimiento: "REPORTE DE MANTENIMIENTO",
	entity.FormInspeccion:    "REPORTE DE INSPECCIÓN",
	entity.FormOrdenTrabajo:  "ORDEN DE TRABAJO",
	entity.FormReparacion:    "REPORTE DE REPARACIÓN",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReportPDF genera la hoja de servicio y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateReportPDF(_ context.Context, report *entity.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de Servicio", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(serviceHeaderRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	for _, r := range payloadRows(report.Payload) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatureRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del formulario + ID (izq) y estado + fecha de servicio (der).
func headerRow(report *entity.Report) core.Row {
	title := formTitles[report.FormType]
	if title == "" {
		title = "REPORTE DE SERVICIO"
	}
	fecha := report.FechaServicio.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+report.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(report.Status, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right,
				Color: colorPrimary, Top: 2,
			}),
			text.New("Fecha de servicio: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// serviceHeaderRow: equipo, ubicación y técnico responsable.
func serviceHeaderRow(report *entity.Report) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DATOS DEL SERVICIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Equipo, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Ubicación: %s   |   Técnico: %s",
				nonEmpty(report.Ubicacion, "—"),
				nonEmpty(report.Tecnico, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// payloadRows: cuerpo de la hoja según la variante del formulario.
func payloadRows(payload entity.ReportPayload) []core.Row {
	switch p := payload.(type) {
	case entity.MantenimientoPayload:
		return mantenimientoRows(p)
	case entity.InspeccionPayload:
		return inspeccionRows(p)
	case entity.OrdenTrabajoPayload:
		return ordenTrabajoRows(p)
	case entity.ReparacionPayload:
		return reparacionRows(p)
	}
	return []core.Row{row.New(8).Add(col.New(12).Add(
		text.New("(sin detalle del formulario)", props.Text{Size: 8, Color: colorGray, Top: 2}),
	))}
}

func mantenimientoRows(p entity.MantenimientoPayload) []core.Row {
	rows := []core.Row{
		sectionTitle("DETALLE DEL MANTENIMIENTO"),
		fieldRow("Tipo", p.TipoMantenimiento),
		fieldRow("Horómetro", p.Horometro.StringFixed(1)+" h"),
	}
	rows = append(rows, listRows("Trabajos realizados", p.TrabajosRealizados)...)
	rows = append(rows, listRows("Repuestos utilizados", p.RepuestosUtilizados)...)
	if p.Observaciones != "" {
		rows = append(rows, fieldRow("Observaciones", p.Observaciones))
	}
	return rows
}

func inspeccionRows(p entity.InspeccionPayload) []core.Row {
	rows := []core.Row{
		sectionTitle("CHECKLIST DE INSPECCIÓN"),
		fieldRow("Horómetro", p.Horometro.StringFixed(1)+" h"),
	}
	if p.NivelCombustible != "" {
		rows = append(rows, fieldRow("Nivel de combustible", p.NivelCombustible))
	}
	for _, item := range p.Checklist {
		label := fmt.Sprintf("[%s] %s", item.Estado, item.Item)
		if item.Nota != "" {
			label += " — " + item.Nota
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(label, props.Text{Size: 8, Top: 1, Left: 3}),
		)))
	}
	if p.Observaciones != "" {
		rows = append(rows, fieldRow("Observaciones", p.Observaciones))
	}
	return rows
}

func ordenTrabajoRows(p entity.OrdenTrabajoPayload) []core.Row {
	return []core.Row{
		sectionTitle("DESCRIPCIÓN DEL TRABAJO"),
		fieldRow("Trabajo", p.DescripcionTrabajo),
		fieldRow("Prioridad", p.Prioridad),
		fieldRow("Horas estimadas", p.HorasEstimadas.StringFixed(1)+" h"),
		fieldRow("Mano de obra", "$"+formatMoney(p.CostoManoObra.StringFixed(0))),
		fieldRow("Repuestos", "$"+formatMoney(p.CostoRepuestos.StringFixed(0))),
		row.New(8).Add(
			col.New(6),
			col.New(6).Add(text.New(
				"COSTO TOTAL ESTIMADO: $"+formatMoney(p.CostoTotal().StringFixed(0)),
				props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2},
			)),
		),
	}
}

func reparacionRows(p entity.ReparacionPayload) []core.Row {
	rows := []core.Row{
		sectionTitle("DIAGNÓSTICO DE LA FALLA"),
		fieldRow("Falla reportada", p.FallaReportada),
		fieldRow("Diagnóstico", p.Diagnostico),
		fieldRow("Horas de parada", p.HorasParada.StringFixed(1)+" h"),
	}
	rows = append(rows, listRows("Repuestos utilizados", p.RepuestosUtilizados)...)
	return rows
}

// signatureRow: líneas de firma para técnico y supervisor.
func signatureRow(report *entity.Report) core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 8, Color: colorGray,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 14, Color: colorGray,
			}),
		)
	}
	return row.New(22).Add(
		sig("Firma del técnico: "+report.Tecnico),
		sig("Firma del supervisor"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

func fieldRow(label, value string) core.Row {
	return row.New(6).Add(
		col.New(3).Add(text.New(label+":", props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1,
		})),
		col.New(9).Add(text.New(value, props.Text{Size: 8, Top: 1})),
	)
}

func listRows(label string, items []string) []core.Row {
	if len(items) == 0 {
		return nil
	}
	rows := []core.Row{
		row.New(5).Add(col.New(12).Add(
			text.New(label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1}),
		)),
	}
	for _, item := range items {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New("• "+item, props.Text{Size: 8, Top: 0.5, Left: 3}),
		)))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
