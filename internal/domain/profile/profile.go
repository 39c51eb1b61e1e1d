// Package profile carga el perfil de emisor y valores por defecto:
// un archivo plano de pares "CLAVE;VALOR", una entrada por línea.
// Las claves no reconocidas se conservan opacas para la sustitución de
// tokens en la plantilla de presentación.
package profile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
)

// Claves reconocidas del perfil (lista no exhaustiva).
const (
	KeyCurrency       = "CURRENCY"
	KeyDefaultVAT     = "DEFAULT-VAT"
	KeyMessage        = "MESSAGE"
	KeyIconPath       = "ICON-PATH"
	KeySenderCompany  = "SEN-COMPANY"
	KeySenderName     = "SEN-NAME"
	KeySenderStreet   = "SEN-STREET"
	KeySenderZIP      = "SEN-ZIP"
	KeySenderCity     = "SEN-CITY"
	KeySenderEmail    = "SEN-EMAIL"
	KeySenderPhone    = "SEN-PHONE"
	KeySenderWebsite  = "SEN-WEBSITE"
	KeySenderTaxID    = "SEN-TAX-ID"
	KeyMoneyInstitute = "MONEY-INSTITUTE"
	KeyIBAN           = "IBAN"
	KeyBIC            = "BIC"
)

// Profile es el mapeo clave→valor del emisor. Se lee una vez por
// ejecución y es inmutable desde entonces; este núcleo nunca lo
// reescribe.
type Profile struct {
	keys   []string // orden de aparición en el archivo
	values map[string]string
}

// Load lee el perfil desde path. Falla con ErrConfigNotFound si el
// archivo no es legible o no contiene ninguna entrada: sin moneda ni
// IVA por defecto no se puede generar una factura.
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrConfigNotFound, path, err)
	}
	defer f.Close()

	p := &Profile{values: make(map[string]string)}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		// El valor es exactamente el segundo campo; el resto de la
		// línea se descarta, igual que las claves duplicadas.
		key, rest, found := strings.Cut(line, ";")
		if !found || key == "" {
			continue
		}
		value, _, _ := strings.Cut(rest, ";")
		if _, dup := p.values[key]; dup {
			continue
		}
		p.keys = append(p.keys, key)
		p.values[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrConfigNotFound, path, err)
	}
	if len(p.keys) == 0 {
		return nil, fmt.Errorf("%w: %q: sin entradas", domain.ErrConfigNotFound, path)
	}
	return p, nil
}

// Has informa si la clave existe Y su valor no queda vacío tras
// recortar espacios. Las filas opcionales del bloque de emisor se
// emiten solo cuando Has es verdadero.
func (p *Profile) Has(key string) bool {
	return strings.TrimSpace(p.values[key]) != ""
}

// Get devuelve el valor crudo de la clave, o def si está ausente.
func (p *Profile) Get(key, def string) string {
	if v, ok := p.values[key]; ok {
		return v
	}
	return def
}

// Trimmed devuelve el valor recortado de la clave, o "" si está ausente.
func (p *Profile) Trimmed(key string) string {
	return strings.TrimSpace(p.values[key])
}

// Keys devuelve las claves en orden de aparición en el archivo, para
// una sustitución de tokens estable.
func (p *Profile) Keys() []string {
	return p.keys
}
