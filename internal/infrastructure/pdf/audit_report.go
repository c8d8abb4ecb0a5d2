// Package pdf genera la representación impresa de una auditoría.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + código     │  Informe + fecha + estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EJECUTOR / CHECKLIST / FINALIZACIÓN                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Sección | Puntuados | N/A | Sin puntuar | %        │
//	│  TOTAL                                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: Ítem - Criterio | Nota | Comentario                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PLANES DE ACCIÓN: Título | Responsable | Vence | Estado     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el identificador de la auditoría             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/domain/entity"
	"github.com/jhoicas/retail-audit-api/internal/domain/scoring"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ auditing.ReportGenerator = (*AuditReportGenerator)(nil)

// AuditReportGenerator implementa auditing.ReportGenerator usando Maroto v2.
type AuditReportGenerator struct{}

// NewAuditReportGenerator construye el generador.
func NewAuditReportGenerator() *AuditReportGenerator { return &AuditReportGenerator{} }

// GenerateAuditReport genera el PDF y devuelve sus bytes.
func (g *AuditReportGenerator) GenerateAuditReport(_ context.Context, data auditing.ReportData) ([]byte, error) {
	if data.Audit == nil || data.Store == nil {
		return nil, fmt.Errorf("pdf: faltan auditoría o tienda")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de auditoría "+data.Store.Codehex, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data.Audit, data.Store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("RESUMEN POR SECCIÓN"))
	m.AddRows(summaryHeaderRow())
	for _, s := range data.Report.Sections {
		m.AddRows(summaryRow(s.Name, s.Summary, false))
	}
	m.AddRows(summaryRow("TOTAL", data.Report.Total, true))

	if data.Checklist != nil {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("DETALLE DE CRITERIOS"))
		m.AddRows(detailRows(data.Checklist, data.Scores)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("PLANES DE ACCIÓN"))
	m.AddRows(actionRows(data.Actions)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data.Audit))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda + código (izq) y título + fecha + estado (der).
func headerRow(a *entity.Audit, s *entity.Store) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Código: %s   |   %s", s.Codehex, nonEmpty(s.City, "—")), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INFORME DE AUDITORÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(a.DtStart.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+a.Status.String(), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func infoRow(d auditing.ReportData) core.Row {
	performer := "—"
	if d.Performer != nil {
		performer = d.Performer.Name
	}
	checklist := "—"
	if d.Checklist != nil {
		checklist = d.Checklist.Name
	}
	submitted := "—"
	if d.Audit.SubmittedAt != nil {
		submitted = d.Audit.SubmittedAt.Format("02/01/2006 15:04")
	}
	return row.New(16).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Ejecutor: %s   |   Checklist: %s   |   Finalizada: %s", performer, checklist, submitted),
			props.Text{Size: 8, Top: 2}),
		text.New("Comentarios: "+nonEmpty(d.Audit.AuditorComments, "—"),
			props.Text{Size: 8, Top: 8, Color: colorGray}),
	))
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func summaryHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Sección", 5, align.Left),
		h("Puntuados", 2, align.Center),
		h("N/A", 1, align.Center),
		h("Sin puntuar", 2, align.Center),
		h("%", 2, align.Right),
	)
}

func summaryRow(name string, s scoring.Summary, total bool) core.Row {
	style := fontstyle.Normal
	color := (*props.Color)(nil)
	if total {
		style = fontstyle.Bold
		color = colorPrimary
	}
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{
			Style: style, Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
		}))
	}
	return row.New(6).Add(
		cell(name, 5, align.Left),
		cell(strconv.Itoa(s.ScoredCount), 2, align.Center),
		cell(strconv.Itoa(s.NotApplicableCount), 1, align.Center),
		cell(strconv.Itoa(s.UnscoredCount), 2, align.Center),
		cell(percentage(s), 2, align.Right),
	)
}

// detailRows una fila por criterio en el orden del checklist.
func detailRows(cl *entity.Checklist, scores []*entity.AuditScore) []core.Row {
	byCriteria := make(map[string]*entity.AuditScore, len(scores))
	for _, s := range scores {
		byCriteria[s.CriteriaID] = s
	}
	var rows []core.Row
	for _, sec := range cl.Sections {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(sec.Name, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
		)))
		for _, it := range sec.Items {
			for _, c := range it.Criteria {
				s := byCriteria[c.ID]
				value, comment := "—", ""
				var color *props.Color
				if s != nil {
					value = scoreLabel(s.Score)
					comment = s.Comment
					if s.Score != nil && *s.Score > 0 && *s.Score <= 2 {
						color = colorAlert
					}
				}
				rows = append(rows, row.New(5).Add(
					col.New(6).Add(text.New(it.Name+" - "+c.Name, props.Text{Size: 7.5, Top: 0.5, Left: 2})),
					col.New(1).Add(text.New(value, props.Text{Size: 7.5, Top: 0.5, Align: align.Center, Color: color})),
					col.New(5).Add(text.New(comment, props.Text{Size: 7, Top: 0.5, Color: colorGray})),
				))
			}
		}
	}
	return rows
}

func actionRows(actions []*entity.ActionPlan) []core.Row {
	if len(actions) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin planes de acción.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		))}
	}
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1}))
	}
	rows := []core.Row{row.New(6).Add(h("Título", 5), h("Responsable", 2), h("Vence", 2), h("Estado", 2), h("%", 1))}
	for _, a := range actions {
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(a.Title, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(2).Add(text.New(a.Responsible, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(2).Add(text.New(a.DueDate.Format("02/01/2006"), props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(2).Add(text.New(a.Status, props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(a.Progress), props.Text{Size: 7.5, Top: 1, Left: 1})),
		))
	}
	return rows
}

// footerRow: QR con el identificador de la auditoría + leyenda.
func footerRow(a *entity.Audit) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr("audit:"+a.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Identificador de la auditoría:", props.Text{Size: 7, Top: 6, Left: 3, Color: colorGray}),
			text.New(a.ID, props.Text{Style: fontstyle.Bold, Size: 8, Top: 11, Left: 3}),
			text.New("Puntuación: media de las notas 1..5 sobre 5; N/A no cuenta.", props.Text{
				Size: 6.5, Top: 18, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func percentage(s scoring.Summary) string {
	if !s.HasData() {
		return "—"
	}
	return s.Percentage.StringFixed(2) + "%"
}

func scoreLabel(v *int) string {
	switch {
	case v == nil:
		return "—"
	case *v == entity.ScoreNotApplicable:
		return "N/A"
	default:
		return strconv.Itoa(*v) + "/5"
	}
}
