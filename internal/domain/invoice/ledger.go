package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
)

// Separador de campos de las especificaciones CLI de artículos y
// descuentos: "<descripción>;<precioUnitario>;<cantidad>;<nota>".
const specSeparator = ";"

// LineItem es una línea de cargo de la factura.
type LineItem struct {
	Description string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	Note        string // opcional, segunda línea en la tabla de artículos
}

// Total devuelve el importe extendido de la línea (precio × cantidad).
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(li.Quantity)
}

// Discount es una rebaja aplicada al total neto.
type Discount struct {
	Label  string
	Amount decimal.Decimal
}

// Ledger es la secuencia normalizada de cargos y descuentos de una
// factura más sus totales derivados. Es la única fuente de verdad que
// consumen ambos proyectores (HTML y XML): cualquier par de artefactos
// generados desde la misma instancia reporta totales idénticos.
//
// Invariantes:
//
//	NetTotal   = Σ(UnitPrice×Quantity) − Σ(Discount.Amount)
//	VATAmount  = NetTotal × VATRate/100
//	GrossTotal = NetTotal + VATAmount
type Ledger struct {
	Items     []LineItem
	Discounts []Discount

	NetTotal   decimal.Decimal
	VATRate    decimal.Decimal
	VATAmount  decimal.Decimal
	GrossTotal decimal.Decimal
}

// BuildLedger parsea las especificaciones crudas de artículos y
// descuentos y calcula los totales. La validación ocurre una sola vez
// aquí: los proyectores asumen un Ledger bien formado y nunca
// revalidan. Cualquier error incluye la especificación ofensiva para
// que la corrección sea un ajuste de una línea en la CLI.
func BuildLedger(itemSpecs, discountSpecs []string, vatRate decimal.Decimal) (*Ledger, error) {
	l := &Ledger{VATRate: vatRate}

	for _, spec := range itemSpecs {
		item, err := parseLineItem(spec)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, item)
	}
	for _, spec := range discountSpecs {
		d, err := parseDiscount(spec)
		if err != nil {
			return nil, err
		}
		l.Discounts = append(l.Discounts, d)
	}

	net := decimal.Zero
	for _, item := range l.Items {
		net = net.Add(item.Total())
	}
	for _, d := range l.Discounts {
		net = net.Sub(d.Amount)
	}
	l.NetTotal = net
	l.VATAmount = net.Mul(vatRate).Div(decimal.NewFromInt(100))
	l.GrossTotal = l.NetTotal.Add(l.VATAmount)
	return l, nil
}

// parseLineItem exige exactamente 4 campos:
// "<descripción>;<precioUnitario>;<cantidad>;<nota>" (nota puede ser vacía).
func parseLineItem(spec string) (LineItem, error) {
	fields := strings.Split(spec, specSeparator)
	if len(fields) != 4 {
		return LineItem{}, fmt.Errorf("%w: %q (se esperan 4 campos \"descripción;precio;cantidad;nota\")",
			domain.ErrMalformedLineItem, spec)
	}
	price, err := parseAmount(fields[1], spec)
	if err != nil {
		return LineItem{}, err
	}
	qty, err := parseAmount(fields[2], spec)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		Description: fields[0],
		UnitPrice:   price,
		Quantity:    qty,
		Note:        fields[3],
	}, nil
}

// parseDiscount exige exactamente 2 campos: "<etiqueta>;<importe>",
// con importe estrictamente positivo (se resta del total neto).
func parseDiscount(spec string) (Discount, error) {
	fields := strings.Split(spec, specSeparator)
	if len(fields) != 2 {
		return Discount{}, fmt.Errorf("%w: %q (se esperan 2 campos \"etiqueta;importe\")",
			domain.ErrMalformedDiscount, spec)
	}
	amount, err := parseAmount(fields[1], spec)
	if err != nil {
		return Discount{}, err
	}
	if !amount.IsPositive() {
		return Discount{}, fmt.Errorf("%w: %q (el descuento debe ser positivo)",
			domain.ErrInvalidAmount, spec)
	}
	return Discount{Label: fields[0], Amount: amount}, nil
}

// parseAmount convierte un campo numérico; rechaza valores no numéricos
// y negativos.
func parseAmount(field, spec string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(field))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q en %q", domain.ErrInvalidAmount, field, spec)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: %q en %q (negativo)", domain.ErrInvalidAmount, field, spec)
	}
	return d, nil
}
