// Package pdf genera la fatura de suscripción en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Biznexa + emisor  │  N° Fatura + Emisión/Vencimiento│
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Razón social + CNPJ + contacto                    │
//	│  PLANO: nombre + ciclo                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Valor                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                      │
//	│  FOOTER: estado de pago + id de transacción                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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
	"github.com/shopspring/decimal"

	appbilling "github.com/biznexa/biznexa-api/internal/application/billing"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 67, Green: 97, Blue: 238}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPaid    = &props.Color{Red: 34, Green: 139, Blue: 34}
	colorPending = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// Issuer datos del emisor impresos en la cabecera.
type Issuer struct {
	Name  string
	Email string
}

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	issuer Issuer
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(issuer Issuer) *MarotoPDFGenerator {
	if issuer.Name == "" {
		issuer.Name = "Biznexa"
	}
	return &MarotoPDFGenerator{issuer: issuer}
}

// GenerateSubscriptionInvoicePDF genera el PDF y devuelve sus bytes. plan puede ser nil.
func (g *MarotoPDFGenerator) GenerateSubscriptionInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	plan *entity.Plan,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fatura "+invoice.Number, true).
		WithAuthor(g.issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(company))
	m.AddRows(planRow(plan))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(invoice)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))
	m.AddRows(line.NewRow(3))
	m.AddRows(statusRow(invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoPDFGenerator) headerRow(invoice *entity.Invoice) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(g.issuer.Email, "-"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FATURA DE ASSINATURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Emissão: "+invoice.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Vencimento: "+invoice.DueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func customerRow(company *entity.Company) core.Row {
	name := company.Name
	if company.LegalName != "" {
		name = company.LegalName
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CNPJ/CPF: %s   |   Email: %s   |   %s",
				nonEmpty(company.TaxID, "-"),
				nonEmpty(company.Email, "-"),
				location(company),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func planRow(plan *entity.Plan) core.Row {
	label := "-"
	if plan != nil {
		label = fmt.Sprintf("%s (%s)", plan.Name, plan.Code)
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Plano: "+label, props.Text{Size: 9, Top: 2}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descrição", 9, align.Left),
		h("Valor", 3, align.Right),
	)
}

func itemRows(invoice *entity.Invoice) []core.Row {
	out := make([]core.Row, 0, len(invoice.Items))
	for _, it := range invoice.Items {
		out = append(out, row.New(7).Add(
			col.New(9).Add(text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money(invoice.Currency, it.Amount), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return out
}

func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Impostos:", 6),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12,
			}),
		),
		col.New(3).Add(
			value(money(invoice.Currency, invoice.Amount), 1),
			value(money(invoice.Currency, invoice.Tax), 6),
			text.New(money(invoice.Currency, invoice.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12,
			}),
		),
	)
}

func statusRow(invoice *entity.Invoice) core.Row {
	status, color := "PENDENTE", colorPending
	detail := "Pagamento pendente até " + invoice.DueDate.Format("02/01/2006")
	if invoice.IsPaid() {
		status, color = "PAGA", colorPaid
		detail = "Transação: " + nonEmpty(invoice.PaymentID, "-")
		if invoice.PaidAt != nil {
			detail += "   |   Pago em " + invoice.PaidAt.Format("02/01/2006 15:04")
		}
	}
	return row.New(12).Add(
		col.New(3).Add(text.New(status, props.Text{Style: fontstyle.Bold, Size: 11, Color: color, Top: 2})),
		col.New(9).Add(text.New(detail, props.Text{Size: 8, Color: colorGray, Top: 3})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func location(c *entity.Company) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.City, c.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return nonEmpty(strings.Join(parts, "/"), "-")
}

// money formato pt-BR: "R$ 1.999,90".
func money(currency string, d decimal.Decimal) string {
	symbol := currency
	if currency == "" || currency == entity.DefaultCurrency {
		symbol = "R$"
	}
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	out := symbol + " " + groupThousands(intPart) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles: "25000" → "25.000".
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
