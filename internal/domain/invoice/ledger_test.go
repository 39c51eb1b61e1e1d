package invoice_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestBuildLedger_EscenarioCompleto es el canario del cálculo: dos
// artículos y un descuento con IVA del 19 %. Si alguien toca el orden
// de las operaciones (descuento antes del IVA, no después) los totales
// divergen y este test lo detecta.
//
//	2 × 95,00 = 190,00
//	3 × 12,034 = 36,102
//	− 26,102 de descuento → neto 200,00
//	IVA 19 % → 38,00; bruto 238,00
// ──────────────────────────────────────────────────────────────────────────────
func TestBuildLedger_EscenarioCompleto(t *testing.T) {
	l, err := invoice.BuildLedger(
		[]string{
			"Beratung;95,00;2;Workshop vor Ort",
			"Support;12.034;3;",
		},
		[]string{"Treuerabatt;26.102"},
		decimal.NewFromInt(19),
	)
	require.Error(t, err, "la coma decimal no es un separador válido")

	l, err = invoice.BuildLedger(
		[]string{
			"Beratung;95.00;2;Workshop vor Ort",
			"Support;12.034;3;",
		},
		[]string{"Treuerabatt;26.102"},
		decimal.NewFromInt(19),
	)
	require.NoError(t, err, "las especificaciones bien formadas deben parsear")
	require.Len(t, l.Items, 2)
	require.Len(t, l.Discounts, 1)

	assert.True(t, l.NetTotal.Equal(decimal.NewFromInt(200)),
		"neto esperado 200, obtenido %s", l.NetTotal)
	assert.True(t, l.VATAmount.Equal(decimal.NewFromInt(38)),
		"IVA esperado 38, obtenido %s", l.VATAmount)
	assert.True(t, l.GrossTotal.Equal(decimal.NewFromInt(238)),
		"bruto esperado 238, obtenido %s", l.GrossTotal)
}

func TestBuildLedger_SinPosiciones(t *testing.T) {
	l, err := invoice.BuildLedger(nil, nil, decimal.NewFromInt(19))
	require.NoError(t, err)

	assert.True(t, l.NetTotal.IsZero(), "sin posiciones el neto es cero")
	assert.True(t, l.GrossTotal.IsZero(), "sin posiciones el bruto es cero")
}

func TestBuildLedger_EspecificacionesMalformadas(t *testing.T) {
	cases := []struct {
		name     string
		articles []string
		discount []string
		wantErr  error
	}{
		{
			name:     "articulo con 3 campos",
			articles: []string{"Beratung;95.00;2"},
			wantErr:  domain.ErrMalformedLineItem,
		},
		{
			name:     "articulo con 5 campos",
			articles: []string{"Beratung;95.00;2;nota;extra"},
			wantErr:  domain.ErrMalformedLineItem,
		},
		{
			name:     "precio no numerico",
			articles: []string{"Beratung;gratis;2;"},
			wantErr:  domain.ErrInvalidAmount,
		},
		{
			name:     "precio negativo",
			articles: []string{"Beratung;-5;2;"},
			wantErr:  domain.ErrInvalidAmount,
		},
		{
			name:     "descuento con 1 campo",
			discount: []string{"Rabatt"},
			wantErr:  domain.ErrMalformedDiscount,
		},
		{
			name:     "descuento cero",
			discount: []string{"Rabatt;0"},
			wantErr:  domain.ErrInvalidAmount,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := invoice.BuildLedger(tc.articles, tc.discount, decimal.NewFromInt(19))
			require.Error(t, err, "la especificación malformada debe rechazarse")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

// El importe ofensivo debe aparecer en el mensaje: la corrección es un
// ajuste de una línea en la invocación.
func TestBuildLedger_ErrorIncluyeEspecificacion(t *testing.T) {
	_, err := invoice.BuildLedger([]string{"Beratung;abc;2;"}, nil, decimal.NewFromInt(19))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Beratung;abc;2;")
}

func TestLineItem_Total(t *testing.T) {
	item := invoice.LineItem{
		UnitPrice: decimal.RequireFromString("12.034"),
		Quantity:  decimal.NewFromInt(3),
	}
	assert.True(t, item.Total().Equal(decimal.RequireFromString("36.102")),
		"el total extendido conserva la precisión completa")
}

func TestNewIdentity_Vencimiento(t *testing.T) {
	issue := mustDate(t, "02.05.2024")

	id := invoice.NewIdentity("2024-05-1", issue, "today", 0)
	assert.Equal(t, "16.05.2024", id.DueDate.Format(invoice.DateLayout),
		"plazo por defecto de 14 días")
	assert.Equal(t, "02.05.2024", id.ServiceDate,
		`"today" se sustituye por la fecha de emisión`)

	id = invoice.NewIdentity("2024-05-1", issue, "April 2024", 30)
	assert.Equal(t, "01.06.2024", id.DueDate.Format(invoice.DateLayout))
	assert.Equal(t, "April 2024", id.ServiceDate,
		"el texto libre de la fecha de servicio se conserva")
}

func TestCustomer_FullName(t *testing.T) {
	assert.Equal(t, "FirmaXYZ Max Mustermann",
		invoice.Customer{Company: "FirmaXYZ", Name: "Max Mustermann"}.FullName())
	assert.Equal(t, "Max Mustermann",
		invoice.Customer{Name: "Max Mustermann"}.FullName(),
		"sin empresa no queda espacio inicial")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(invoice.DateLayout, s)
	require.NoError(t, err)
	return d
}
