// Package pdf compone la representación de presentación de la factura
// directamente con Maroto, sin motor de navegador externo. Es el
// renderizador alternativo ("native") para entornos sin chromium.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor (izq)  │  "Rechnung" + N° + fechas (der)    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMPFÄNGER: empresa / nombre / dirección                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Beschreibung | Einzelpreis | Menge | Gesamt         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Netto / USt / Gesamtbetrag                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: mensaje + datos bancarios (Institut/IBAN/BIC)      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
	"github.com/jhoicas/rechnungs-assistent/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorInk  = &props.Color{Red: 34, Green: 34, Blue: 34}
	colorGray = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// Composer implementa generate.Composer usando Maroto v2.
type Composer struct{}

// NewComposer construye el renderizador nativo.
func NewComposer() *Composer { return &Composer{} }

// Compose genera el PDF de presentación desde el mismo Ledger que
// consume el proyector HTML; todos los importes pasan por money.Format.
func (c *Composer) Compose(
	pr *profile.Profile,
	l *invoice.Ledger,
	id invoice.Identity,
	cust invoice.Customer,
	currency string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(18).WithRightMargin(18).
		WithTopMargin(20).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Rechnung "+id.Number, true).
		WithAuthor(pr.Trimmed(profile.KeySenderCompany), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(pr, id))
	m.AddRows(line.NewRow(2, props.Line{Color: colorInk, Thickness: 0.4}))
	m.AddRows(recipientRow(cust))
	m.AddRows(line.NewRow(2, props.Line{Color: colorInk, Thickness: 0.2}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(l, currency) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(2, props.Line{Color: colorInk, Thickness: 0.2}))
	m.AddRows(totalsRow(l, currency))

	for _, r := range footerRows(pr, id) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor a la izquierda, número y fechas a la derecha.
func headerRow(pr *profile.Profile, id invoice.Identity) core.Row {
	sender := pr.Trimmed(profile.KeySenderCompany)
	addr := strings.TrimSpace(pr.Trimmed(profile.KeySenderStreet) + ", " +
		pr.Trimmed(profile.KeySenderZIP) + " " + pr.Trimmed(profile.KeySenderCity))

	return row.New(22).Add(
		col.New(7).Add(
			text.New(sender, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorInk, Top: 1,
			}),
			text.New(addr, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECHNUNG", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorInk, Top: 1,
			}),
			text.New(id.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Rechnungsdatum: "+id.IssueDate.Format(invoice.DateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Leistungsdatum: "+id.ServiceDate, props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// recipientRow: datos del destinatario.
func recipientRow(cust invoice.Customer) core.Row {
	return row.New(20).Add(
		col.New(12).Add(
			text.New("EMPFÄNGER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
			}),
			text.New(cust.FullName(), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(cust.Street, props.Text{Size: 9, Top: 11}),
			text.New(strings.TrimSpace(cust.ZIP+" "+cust.City), props.Text{Size: 9, Top: 15}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de artículos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorInk, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Beschreibung", 6, align.Left),
		h("Einzelpreis", 2, align.Right),
		h("Menge", 1, align.Center),
		h("Gesamt", 3, align.Right),
	)
}

// tableRows: artículos en orden de entrada, descuentos al final.
func tableRows(l *invoice.Ledger, currency string) []core.Row {
	result := make([]core.Row, 0, len(l.Items)+len(l.Discounts))
	for _, item := range l.Items {
		desc := item.Description
		if item.Note != "" {
			desc += " - " + item.Note
		}
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(desc, props.Text{Size: 9, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(money.Format(item.UnitPrice, currency),
				props.Text{Size: 9, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(item.Quantity.String(),
				props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(money.Format(item.Total(), currency),
				props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}
	for _, d := range l.Discounts {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(d.Label, props.Text{Size: 9, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New("-", props.Text{Size: 9, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New("-", props.Text{Size: 9, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("- "+money.Format(d.Amount, currency),
				props.Text{Size: 9, Align: align.Right, Top: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(l *invoice.Ledger, currency string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Summe netto:"),
			text.New("zzgl. USt "+l.VATRate.String()+" %:", props.Text{
				Size: 9, Align: align.Right, Right: 2, Top: 5,
			}),
			text.New("Gesamtbetrag:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 11,
			}),
		),
		col.New(3).Add(
			value(money.Format(l.NetTotal, currency)),
			text.New(money.Format(l.VATAmount, currency), props.Text{
				Size: 9, Align: align.Right, Top: 5,
			}),
			text.New(money.Format(l.GrossTotal, currency), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 11,
			}),
		),
	)
}

// footerRows: mensaje de pago y datos bancarios presentes en el perfil.
func footerRows(pr *profile.Profile, id invoice.Identity) []core.Row {
	rows := []core.Row{
		row.New(10),
		row.New(6).Add(col.New(12).Add(
			text.New("Zahlbar ohne Abzug bis "+id.DueDate.Format(invoice.DateLayout)+".", props.Text{
				Size: 9, Color: colorInk, Top: 1,
			}),
		)),
	}

	bank := make([]string, 0, 3)
	if pr.Has(profile.KeyMoneyInstitute) {
		bank = append(bank, "Institut: "+pr.Trimmed(profile.KeyMoneyInstitute))
	}
	if pr.Has(profile.KeyIBAN) {
		bank = append(bank, "IBAN: "+pr.Trimmed(profile.KeyIBAN))
	}
	if pr.Has(profile.KeyBIC) {
		bank = append(bank, "BIC: "+pr.Trimmed(profile.KeyBIC))
	}
	if len(bank) > 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(strings.Join(bank, "   |   "), props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}

	if pr.Has(profile.KeySenderTaxID) {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Ust-IdNr.: "+pr.Trimmed(profile.KeySenderTaxID), props.Text{
				Size: 8, Color: colorGray, Top: 1,
			}),
		)))
	}

	return rows
}
