// Package assets incrusta la plantilla de factura por defecto y el
// perfil de ejemplo que materializa el comando init.
package assets

import _ "embed"

//go:embed invoice.html
var InvoiceHTML string

//go:embed template.csv.example
var ProfileExample string
