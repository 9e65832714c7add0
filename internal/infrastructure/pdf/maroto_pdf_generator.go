// Package pdf genera el resumen imprimible de una nota fiscal sincronizada desde Bling.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo (entrada/saída) │ N° Nota + Emisión            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  REFERENCIAS: ID Bling / Contato / Natureza / Loja          │
//	│  FECHAS: Emisión / Operación / Situación                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: Valor da nota                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Chave de acesso (si viene en el evento) + QR        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	go_json "github.com/goccy/go-json"
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
	"github.com/shopspring/decimal"

	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/application/usecase"
	"github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/entity"
	domainwebhook "github.com/ThiagoBarbosa05/controle-estoque-sub000/internal/domain/webhook"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dash = "—"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa usecase.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("pdf: nota fiscal nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota fiscal "+displayNumber(invoice), true).
		WithAuthor("controle-estoque", true).
		Build()

	m := maroto.New(cfg)
	extra := readRawSummary(invoice.RawPayload)

	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(referencesRow(invoice))
	m.AddRows(datesRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(invoice, extra) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo de nota (izq) y número + fecha de emisión (der).
func headerRow(invoice *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(kindLabel(invoice.Kind), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Sincronizada desde Bling", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("NOTA FISCAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+displayNumber(invoice), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+invoice.IssuedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// referencesRow: identificadores del ERP.
func referencesRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("REFERENCIAS BLING", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("ID: %s   |   Contato: %s   |   Natureza: %s   |   Loja: %s",
				invoice.ExternalID,
				deref(invoice.ContactID),
				deref(invoice.OperationNatureID),
				deref(invoice.StoreID),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func datesRow(invoice *entity.Invoice) core.Row {
	return row.New(10).Add(
		col.New(4).Add(text.New("Emisión: "+invoice.IssuedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 2})),
		col.New(4).Add(text.New("Operación: "+invoice.OperationAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 2})),
		col.New(4).Add(text.New(fmt.Sprintf("Situación: %d", invoice.Status), props.Text{
			Size: 8, Top: 2, Align: align.Right,
		})),
	)
}

// totalRow: valor total alineado a la derecha.
func totalRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("VALOR DA NOTA:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("R$ "+formatBRL(invoice.TotalValue), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: chave de acesso en bloques de 4 dígitos y QR con el identificador interno.
func footerRows(invoice *entity.Invoice, extra rawSummary) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if extra.AccessKey != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Chave de acesso:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)))
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(strings.Join(splitEvery(extra.AccessKey, 4), " "), props.Text{
				Size: 8, Color: colorGray, Top: 0.5, Left: 2,
			}),
		)))
	}
	if extra.Series != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Série: "+extra.Series, props.Text{Size: 7, Top: 1, Color: colorGray}),
		)))
	}

	rows = append(rows, row.New(3))
	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(qrContent(invoice), props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("ID interno: "+invoice.ID, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Actualizada: "+invoice.UpdatedAt.Format("02/01/2006 15:04:05"), props.Text{
				Size: 8, Top: 10, Left: 3, Color: colorGray,
			}),
			text.New("Documento auxiliar sin valor fiscal.", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 20, Left: 3, Color: colorPrimary,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// rawSummary campos opcionales que solo existen en el evento original.
type rawSummary struct {
	AccessKey string
	Series    string
}

// readRawSummary extrae data.chaveAcesso y data.serie del evento; un payload ilegible no es error.
func readRawSummary(raw []byte) rawSummary {
	var env struct {
		Data struct {
			ChaveAcesso string                   `json:"chaveAcesso"`
			Serie       domainwebhook.FlexString `json:"serie"`
		} `json:"data"`
	}
	if len(raw) == 0 || go_json.Unmarshal(raw, &env) != nil {
		return rawSummary{}
	}
	return rawSummary{AccessKey: env.Data.ChaveAcesso, Series: string(env.Data.Serie)}
}

func qrContent(invoice *entity.Invoice) string {
	return "bling:invoice:" + invoice.ExternalID
}

func kindLabel(k entity.InvoiceKind) string {
	if k == entity.InvoiceKindInbound {
		return "NOTA DE ENTRADA"
	}
	return "NOTA DE SAÍDA"
}

func displayNumber(invoice *entity.Invoice) string {
	if invoice.Number != "" {
		return invoice.Number
	}
	return invoice.ExternalID
}

func deref(s *string) string {
	if s == nil || *s == "" {
		return dash
	}
	return *s
}

// formatBRL formatea con puntos de miles y coma decimal.
// Ej: 1234567.891 → "1.234.567,89"
func formatBRL(v decimal.Decimal) string {
	s := v.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
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

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
