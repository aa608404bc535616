// Package pdf gera o comprovante da pré-matrícula concluída.
//
// Layout da página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  CABEÇALHO: Comprovante + código  │  Data de conclusão       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESPONSÁVEL PRINCIPAL: nome, documento, contato, endereço   │
//	│  SEGUNDO RESPONSÁVEL (quando houver)                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALUNO: nome, nascimento, CPF, endereço                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: QR com o código + situação da integração            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
)

// ── Paleta ───────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 90, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006"

// ── Generator ────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa enrollment.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	school string
}

// NewReceiptGenerator school aparece no cabeçalho e como autor do PDF.
func NewReceiptGenerator(school string) *ReceiptGenerator {
	return &ReceiptGenerator{school: nonEmpty(school, "Pré-matrícula")}
}

// EnrollmentReceipt gera o PDF e devolve seus bytes.
func (g *ReceiptGenerator) EnrollmentReceipt(_ context.Context, d *dto.EnrollmentDetailResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprovante de pré-matrícula "+d.Code, true).
		WithAuthor(g.school, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if d.PrimaryGuardian != nil {
		m.AddRows(guardianRows("RESPONSÁVEL PRINCIPAL", d.PrimaryGuardian)...)
	}
	if d.SecondGuardian != nil {
		m.AddRows(guardianRows("SEGUNDO RESPONSÁVEL", d.SecondGuardian)...)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if d.Student != nil {
		m.AddRows(studentRows(d.Student)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(d))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar comprovante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ───────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(d *dto.EnrollmentDetailResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.school, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprovante de pré-matrícula", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(d.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New("Concluída em "+d.UpdatedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func guardianRows(title string, g *dto.GuardianResponse) []core.Row {
	doc := "CPF: " + nonEmpty(g.CPF, "—")
	if g.RG != "" {
		doc += "   |   RG: " + g.RG
	}
	var roles []string
	if g.FinancialResponsible {
		roles = append(roles, "financeiro")
	}
	if g.PedagogicalResponsible {
		roles = append(roles, "pedagógico")
	}
	return []core.Row{
		row.New(14).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(g.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		)),
		infoRow(fmt.Sprintf("%s   |   Parentesco: %s   |   Responsável: %s",
			doc, nonEmpty(g.Kinship, "—"), nonEmpty(strings.Join(roles, ", "), "—"))),
		infoRow(fmt.Sprintf("Tel: %s   |   Email: %s", nonEmpty(g.Phone, "—"), nonEmpty(g.Email, "—"))),
		infoRow("Endereço: " + formatAddress(g.Address)),
	}
}

func studentRows(s *dto.StudentResponse) []core.Row {
	birth := "—"
	if s.BirthDate != nil {
		birth = s.BirthDate.Format(dateLayout)
	}
	address := formatAddress(s.Address)
	if s.LivesWithGuardian && s.LivesWithGuardianName != "" {
		address += "   (reside com " + s.LivesWithGuardianName + ")"
	}
	return []core.Row{
		row.New(14).Add(col.New(12).Add(
			text.New("ALUNO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(s.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		)),
		infoRow(fmt.Sprintf("Nascimento: %s   |   CPF: %s", birth, nonEmpty(s.CPF, "—"))),
		infoRow("Endereço: " + address),
	}
}

// footerRow QR com o código da pré-matrícula e a situação da integração.
func footerRow(d *dto.EnrollmentDetailResponse) core.Row {
	status := "Aguardando envio ao sistema escolar."
	if d.RemoteStudentID != nil {
		status = fmt.Sprintf("Registrada no sistema escolar (aluno nº %d).", *d.RemoteStudentID)
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(d.Code, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New(status, props.Text{Size: 9, Top: 6, Left: 3}),
			text.New("Apresente este comprovante na secretaria para confirmar a matrícula.", props.Text{
				Size: 8, Top: 16, Left: 3, Color: colorGray,
			}),
		),
	)
}

func infoRow(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Size: 8, Top: 1, Color: colorGray}),
	))
}

// ── helpers ──────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatAddress "Rua, nº - compl., bairro, Cidade/UF, CEP".
func formatAddress(a *dto.AddressResponse) string {
	if a == nil {
		return "—"
	}
	street := a.Street
	if a.Number != "" {
		street += ", " + a.Number
	}
	if a.Complement != "" {
		street += " - " + a.Complement
	}
	parts := []string{}
	for _, p := range []string{street, a.Neighborhood, cityState(a.City, a.State), a.PostalCode} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return nonEmpty(strings.Join(parts, ", "), "—")
}

func cityState(city, state string) string {
	if state == "" {
		return city
	}
	return city + "/" + state
}
