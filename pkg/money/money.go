// Package money formatea importes monetarios para el mercado alemán y
// mapea símbolos de moneda a códigos ISO 4217 para el documento de
// intercambio. Los dos proyectores usan exactamente el mismo formateo:
// es parte de la garantía de consistencia entre artefactos.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Format redondea a 2 decimales (half-up, alejándose de cero),
// sustituye el punto por coma decimal y añade el símbolo:
// Format(10.5, "€") → "10,50 €". Siempre dos dígitos fraccionarios.
func Format(amount decimal.Decimal, symbol string) string {
	s := amount.Round(2).StringFixed(2)
	s = strings.Replace(s, ".", ",", 1)
	return s + " " + symbol
}

// ISOCode traduce el símbolo del perfil al código ISO 4217 que exige
// el elemento InvoiceCurrencyCode. Acepta además códigos ISO ya
// escritos ("EUR"); para símbolos desconocidos devuelve el símbolo tal
// cual, que es el comportamiento menos sorprendente para perfiles
// exóticos.
func ISOCode(symbol string) string {
	switch symbol {
	case "€":
		return currency.EUR.String()
	case "$":
		return currency.USD.String()
	}
	if unit, err := currency.ParseISO(symbol); err == nil {
		return unit.String()
	}
	return symbol
}
