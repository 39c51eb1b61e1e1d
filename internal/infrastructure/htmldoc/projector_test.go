package htmldoc_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/htmldoc"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func loadProfile(t *testing.T, content string) *profile.Profile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	p, err := profile.Load(path)
	require.NoError(t, err)
	return p
}

func testInput(t *testing.T, profileContent string) htmldoc.Input {
	t.Helper()
	ledger, err := invoice.BuildLedger(
		[]string{"Beratung;95.00;2;Workshop vor Ort", "Support;12.034;3;"},
		[]string{"Treuerabatt;26.102"},
		decimal.NewFromInt(19),
	)
	require.NoError(t, err)

	issue := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	return htmldoc.Input{
		Profile:  loadProfile(t, profileContent),
		Ledger:   ledger,
		Identity: invoice.NewIdentity("2024-05-4", issue, "today", 14),
		Customer: invoice.Customer{
			Company: "FirmaXYZ",
			Name:    "Max Mustermann",
			Street:  "Robert-Koch-Str. 12",
			ZIP:     "12345",
			City:    "Musterstadt",
		},
		Currency: "€",
	}
}

const fullProfile = `CURRENCY;€
DEFAULT-VAT;19
SEN-COMPANY;ACME GmbH
SEN-NAME;Erika Musterfrau
SEN-STREET;Hauptstr. 1
SEN-ZIP;54321
SEN-CITY;Beispielstadt
SEN-EMAIL;erika@acme.example
SEN-TAX-ID;DE123456789
MONEY-INSTITUTE;Musterbank
IBAN;DE02120300000000202051
BIC;BYLADEM1001
MESSAGE;Bitte überweisen Sie bis zum #!PAY-DATE unter Angabe der Nummer #!INVOICE-NUM.
`

// ──────────────────────────────────────────────────────────────────────────────
// Render
// ──────────────────────────────────────────────────────────────────────────────

func TestRender_DocumentoCompleto(t *testing.T) {
	p := htmldoc.NewProjector()
	in := testInput(t, fullProfile)

	out := p.Render(embeddedTemplate(t), in)

	assert.NotContains(t, out, htmldoc.TokenPrefix,
		"en la salida no puede quedar ningún marcador sin resolver")

	// Totales y cabecera
	assert.Contains(t, out, "200,00 €", "neto")
	assert.Contains(t, out, "38,00 €", "IVA")
	assert.Contains(t, out, "238,00 €", "bruto")
	assert.Contains(t, out, "19 %", "el tipo se muestra sin decimales superfluos")
	assert.Contains(t, out, "2024-05-4")
	assert.Contains(t, out, "02.05.2024")
	assert.Contains(t, out, "16.05.2024")

	// Tabla de artículos
	assert.Contains(t, out, "<strong>Beratung</strong><br>Workshop vor Ort")
	assert.Contains(t, out, "<strong>Support</strong></td>", "sin nota no se emite el <br>")
	assert.Contains(t, out, "- 26,10 €", "el descuento se muestra en negativo")

	// Destinatario
	assert.Contains(t, out, "FirmaXYZ")
	assert.Contains(t, out, "Max Mustermann")

	// Bloque del emisor
	assert.Contains(t, out, "<strong>ACME GmbH</strong>")
	assert.Contains(t, out, "Anschrift")
	assert.Contains(t, out, "mailto:erika@acme.example")
	assert.Contains(t, out, "DE02120300000000202051")
	assert.Contains(t, out, "Leistungsdatum")
}

// Los valores del perfil pueden contener a su vez tokens computados:
// MESSAGE se resuelve en la misma pasada.
func TestRender_TokensAnidadosEnMessage(t *testing.T) {
	out := htmldoc.NewProjector().Render(embeddedTemplate(t), testInput(t, fullProfile))

	assert.Contains(t, out,
		"Bitte überweisen Sie bis zum 16.05.2024 unter Angabe der Nummer 2024-05-4.")
}

// Las filas opcionales desaparecen enteras: un perfil sin SEN-EMAIL no
// deja ni la etiqueta ni un hueco con token a medio resolver.
func TestRender_FilasOpcionalesOmitidas(t *testing.T) {
	minimal := "CURRENCY;€\nDEFAULT-VAT;19\nSEN-COMPANY;ACME GmbH\n"
	out := htmldoc.NewProjector().Render(embeddedTemplate(t), testInput(t, minimal))

	assert.NotContains(t, out, "E-Mail")
	assert.NotContains(t, out, "Anschrift", "la dirección exige nombre, calle y ciudad")
	assert.NotContains(t, out, "IBAN")
	assert.NotContains(t, out, htmldoc.TokenPrefix)
}

// Omitir una fila no debe alterar el orden de las siguientes.
func TestRender_OrdenEstableSinEmail(t *testing.T) {
	noEmail := `CURRENCY;€
DEFAULT-VAT;19
SEN-COMPANY;ACME GmbH
SEN-TAX-ID;DE123456789
MONEY-INSTITUTE;Musterbank
IBAN;DE02120300000000202051
BIC;BYLADEM1001
`
	out := htmldoc.NewProjector().Render(embeddedTemplate(t), testInput(t, noEmail))

	positions := []int{
		strings.Index(out, "Ust-IdNr."),
		strings.Index(out, "Institut"),
		strings.Index(out, "IBAN"),
		strings.Index(out, "BIC"),
		strings.Index(out, "Rechnungsdatum"),
		strings.Index(out, "Rechnungsnummer"),
		strings.Index(out, "Leistungsdatum"),
	}
	for i, pos := range positions {
		require.Greater(t, pos, -1, "falta la fila %d del bloque de emisor", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1],
				"la fila %d debe aparecer después de la anterior", i)
		}
	}
	assert.NotContains(t, out, "E-Mail")
}

// Una plantilla con un token que nadie resuelve pierde la línea entera.
func TestRender_LineaConTokenIrresolubleSeDescarta(t *testing.T) {
	template := "antes\n<p>#!NO-EXISTE</p>\ndespués"
	out := htmldoc.NewProjector().Render(template, testInput(t, fullProfile))

	assert.Equal(t, "antes\ndespués", out)
}

func TestRender_ClienteSinEmpresa(t *testing.T) {
	in := testInput(t, fullProfile)
	in.Customer.Company = ""

	out := htmldoc.NewProjector().Render("<p>#!REC-COMPANY</p>\n<p>#!REC-NAME</p>", in)

	assert.NotContains(t, out, "REC-COMPANY", "la línea de la empresa vacía se descarta")
	assert.Contains(t, out, "Max Mustermann")
}

// ──────────────────────────────────────────────────────────────────────────────
// LoadTemplate
// ──────────────────────────────────────────────────────────────────────────────

func TestLoadTemplate_PorDefectoIncrustada(t *testing.T) {
	tpl, err := htmldoc.LoadTemplate("")
	require.NoError(t, err)
	assert.Contains(t, tpl, "#!ITEMS")
}

func TestLoadTemplate_ArchivoExterno(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.html")
	require.NoError(t, os.WriteFile(path, []byte("<html>#!ITEMS</html>"), 0o644))

	tpl, err := htmldoc.LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>#!ITEMS</html>", tpl)
}

func TestLoadTemplate_Inexistente(t *testing.T) {
	_, err := htmldoc.LoadTemplate(filepath.Join(t.TempDir(), "no.html"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

// embeddedTemplate devuelve la plantilla incrustada vía LoadTemplate,
// para que los tests no dependan del paquete assets directamente.
func embeddedTemplate(t *testing.T) string {
	t.Helper()
	tpl, err := htmldoc.LoadTemplate("")
	require.NoError(t, err)
	return tpl
}
