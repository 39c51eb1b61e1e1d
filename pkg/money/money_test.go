package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rechnungs-assistent/pkg/money"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		symbol string
		want   string
	}{
		{"entero", "10", "€", "10,00 €"},
		{"un decimal", "10.5", "€", "10,50 €"},
		{"dos decimales", "10.55", "€", "10,55 €"},
		{"redondeo half-up", "10.005", "€", "10,01 €"},
		{"truncado hacia abajo", "10.004", "€", "10,00 €"},
		{"negativo", "-26.102", "€", "-26,10 €"},
		{"otro simbolo", "99.9", "$", "99,90 $"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := money.Format(decimal.RequireFromString(tc.amount), tc.symbol)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestISOCode(t *testing.T) {
	assert.Equal(t, "EUR", money.ISOCode("€"))
	assert.Equal(t, "USD", money.ISOCode("$"))
	assert.Equal(t, "GBP", money.ISOCode("GBP"), "los códigos ISO ya escritos pasan tal cual")
	assert.Equal(t, "₿", money.ISOCode("₿"), "los símbolos desconocidos se devuelven sin tocar")
}
