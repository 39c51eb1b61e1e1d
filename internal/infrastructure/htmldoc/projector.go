// Package htmldoc es el proyector de presentación: rellena la
// plantilla HTML de la factura por sustitución de tokens "#!" desde el
// perfil, los datos del cliente y el Ledger calculado.
//
// Postcondición estricta: en la salida no queda ningún marcador "#!".
// Las líneas con tokens sin resolver se eliminan completas, lo que
// hace opcionales las secciones de la plantilla sin dejar restos.
package htmldoc

import (
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/rechnungs-assistent/assets"
	"github.com/jhoicas/rechnungs-assistent/internal/domain"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
	"github.com/jhoicas/rechnungs-assistent/pkg/money"
)

// TokenPrefix marca los tokens sustituibles de la plantilla.
const TokenPrefix = "#!"

// Input reúne todo lo que consume una proyección. Ledger e Identity
// llegan ya validados; el proyector no revalida nada.
type Input struct {
	Profile  *profile.Profile
	Ledger   *invoice.Ledger
	Identity invoice.Identity
	Customer invoice.Customer
	Currency string // símbolo, p. ej. "€"
}

// LoadTemplate devuelve la fuente de la plantilla: la incrustada por
// defecto cuando path está vacío, o el archivo indicado. Un archivo
// ilegible es fatal (sin plantilla no hay artefacto de presentación).
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return assets.InvoiceHTML, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domain.ErrTemplateNotFound, path, err)
	}
	return string(b), nil
}

// Projector rellena plantillas de presentación.
type Projector struct{}

// NewProjector construye el proyector.
func NewProjector() *Projector { return &Projector{} }

// Render produce el documento HTML final. El orden de sustitución por
// línea es: claves del perfil (opacas incluidas), datos del cliente,
// tokens computados; los valores del perfil pueden a su vez contener
// tokens computados (p. ej. MESSAGE con #!INVOICE-NUM), que se
// resuelven en la misma pasada. Al final, toda línea que conserve un
// "#!" se descarta.
func (p *Projector) Render(template string, in Input) string {
	computed := p.computedTokens(in)
	customer := customerTokens(in.Customer)

	lines := strings.Split(template, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, key := range in.Profile.Keys() {
			line = strings.ReplaceAll(line, TokenPrefix+key, in.Profile.Get(key, ""))
		}
		for _, t := range customer {
			if t.value != "" {
				line = strings.ReplaceAll(line, TokenPrefix+t.token, t.value)
			}
		}
		for _, t := range computed {
			line = strings.ReplaceAll(line, TokenPrefix+t.token, t.value)
		}
		if strings.Contains(line, TokenPrefix) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

type tokenValue struct {
	token string
	value string
}

// customerTokens mapea los campos del cliente a sus tokens REC-*.
// Un campo vacío deja el token sin resolver y su línea se descarta.
func customerTokens(c invoice.Customer) []tokenValue {
	return []tokenValue{
		{"REC-COMPANY", c.Company},
		{"REC-NAME", c.Name},
		{"REC-STREET", c.Street},
		{"REC-ZIP", c.ZIP},
		{"REC-CITY", c.City},
	}
}

// computedTokens deriva los tokens calculados del Ledger e Identity.
// Los importes pasan por el mismo formateador monetario que usa el
// proyector de intercambio para su consistencia.
func (p *Projector) computedTokens(in Input) []tokenValue {
	l := in.Ledger
	return []tokenValue{
		{"DATE", in.Identity.IssueDate.Format(invoice.DateLayout)},
		{"PAY-DATE", in.Identity.DueDate.Format(invoice.DateLayout)},
		{"INVOICE-NUM", in.Identity.Number},
		{"SUM-WITHOUT-VAT", money.Format(l.NetTotal, in.Currency)},
		{"VAT-PERCENT", l.VATRate.String() + " %"},
		{"VAT-ADDITION", money.Format(l.VATAmount, in.Currency)},
		{"SUM-WITH-VAT", money.Format(l.GrossTotal, in.Currency)},
		{"ITEMS", p.renderItems(l, in.Currency)},
		{"SEN-INFO-DESCRIPTION", p.renderSenderInfo(in)},
	}
}

// ── Tabla de artículos ────────────────────────────────────────────────────────

// renderItems emite las filas de la tabla en orden de entrada:
// primero los artículos, después los descuentos.
func (p *Projector) renderItems(l *invoice.Ledger, currency string) string {
	var b strings.Builder
	for _, item := range l.Items {
		note := ""
		if item.Note != "" {
			note = "<br>" + item.Note
		}
		fmt.Fprintf(&b,
			`<tr style="page-break-inside:avoid;"><td class="invoice-item-name"><strong>%s</strong>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`+"\n",
			item.Description,
			note,
			money.Format(item.UnitPrice, currency),
			item.Quantity.String(),
			money.Format(item.Total(), currency),
		)
	}
	for _, d := range l.Discounts {
		fmt.Fprintf(&b,
			`<tr style="page-break-inside:avoid;"><td class="invoice-item-name">%s</td><td> - </td><td> - </td><td>- %s</td></tr>`+"\n",
			d.Label,
			money.Format(d.Amount, currency),
		)
	}
	return b.String()
}

// ── Bloque de información del emisor ─────────────────────────────────────────

// senderRow es una fila (etiqueta, contenido) del bloque lateral.
type senderRow struct {
	label string
	html  string
}

// renderSenderInfo construye el bloque lateral como una lista ordenada
// de filas opcionales filtradas por presencia en el perfil. El orden es
// estable aunque se omitan filas; los únicos espacios son las filas
// separadoras diseñadas.
func (p *Projector) renderSenderInfo(in Input) string {
	pr := in.Profile
	rows := make([]senderRow, 0, 16)
	blank := senderRow{label: "&nbsp;", html: "&nbsp;"}

	if pr.Has(profile.KeySenderCompany) {
		rows = append(rows, senderRow{
			html: "<strong>" + pr.Trimmed(profile.KeySenderCompany) + "</strong>",
		})
	}
	if pr.Has(profile.KeySenderName) && pr.Has(profile.KeySenderStreet) && pr.Has(profile.KeySenderCity) {
		rows = append(rows, senderRow{
			label: "Anschrift",
			html: pr.Trimmed(profile.KeySenderName) + "<br>" +
				pr.Trimmed(profile.KeySenderStreet) + "<br>" +
				pr.Trimmed(profile.KeySenderZIP) + " " + pr.Trimmed(profile.KeySenderCity),
		})
	}
	if pr.Has(profile.KeySenderEmail) {
		email := pr.Trimmed(profile.KeySenderEmail)
		rows = append(rows, senderRow{
			label: "E-Mail",
			html:  `<a style="color: grey; text-decoration: none;" href="mailto:` + email + `">` + email + `</a>`,
		})
	}
	if pr.Has(profile.KeySenderPhone) {
		phone := pr.Trimmed(profile.KeySenderPhone)
		rows = append(rows, senderRow{
			label: "Telefon",
			html:  `<a style="color: grey; text-decoration: none;" href="tel:` + phone + `">` + phone + `</a>`,
		})
	}
	if pr.Has(profile.KeySenderWebsite) {
		site := pr.Trimmed(profile.KeySenderWebsite)
		rows = append(rows, senderRow{
			label: "Website",
			html:  `<a style="color: grey; text-decoration: none;" href="https://` + site + `">` + site + `</a>`,
		})
	}
	rows = append(rows, blank)
	if pr.Has(profile.KeySenderTaxID) {
		rows = append(rows, senderRow{label: "Ust-IdNr.", html: pr.Trimmed(profile.KeySenderTaxID)})
	}
	rows = append(rows, blank)
	if pr.Has(profile.KeyMoneyInstitute) {
		rows = append(rows, senderRow{label: "Institut", html: pr.Trimmed(profile.KeyMoneyInstitute)})
	}
	if pr.Has(profile.KeyIBAN) {
		rows = append(rows, senderRow{label: "IBAN", html: pr.Trimmed(profile.KeyIBAN)})
	}
	if pr.Has(profile.KeyBIC) {
		rows = append(rows, senderRow{label: "BIC", html: pr.Trimmed(profile.KeyBIC)})
	}
	rows = append(rows, blank)
	rows = append(rows,
		senderRow{label: "Rechnungsdatum", html: in.Identity.IssueDate.Format(invoice.DateLayout)},
		senderRow{label: "Rechnungsnummer", html: in.Identity.Number},
		senderRow{label: "Leistungsdatum", html: in.Identity.ServiceDate},
		blank,
		blank,
	)

	var b strings.Builder
	for _, r := range rows {
		b.WriteString("      <tr>\n")
		b.WriteString(`        <td style="text-align: right;">` + r.label + "</td>\n")
		b.WriteString(`        <td style="text-align: left;">` + r.html + "</td>\n")
		b.WriteString("      </tr>\n")
	}
	return b.String()
}
