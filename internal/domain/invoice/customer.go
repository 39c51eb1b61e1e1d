package invoice

import "strings"

// Customer son los datos del destinatario de la factura, suministrados
// por la CLI en cada ejecución (no se persisten).
type Customer struct {
	Company string
	Name    string
	Street  string
	ZIP     string
	City    string
}

// FullName devuelve "empresa nombre" recortado, como figura el
// comprador en el documento de intercambio.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.Company + " " + c.Name)
}
