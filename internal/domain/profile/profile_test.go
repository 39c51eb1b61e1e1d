package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_PerfilValido(t *testing.T) {
	path := writeProfile(t, "CURRENCY;€\nDEFAULT-VAT;19\nSEN-NAME;Max Mustermann\nSEN-EMAIL; \n")

	p, err := profile.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "€", p.Get(profile.KeyCurrency, ""))
	assert.Equal(t, "19", p.Trimmed(profile.KeyDefaultVAT))
	assert.Equal(t, []string{"CURRENCY", "DEFAULT-VAT", "SEN-NAME", "SEN-EMAIL"}, p.Keys(),
		"las claves conservan el orden de aparición")

	assert.True(t, p.Has(profile.KeySenderName))
	assert.False(t, p.Has(profile.KeySenderEmail),
		"un valor en blanco cuenta como ausente para las filas opcionales")
	assert.False(t, p.Has(profile.KeyIBAN))
}

// El valor es exactamente el segundo campo; todo lo posterior al
// segundo separador se descarta.
func TestLoad_SoloSegundoCampo(t *testing.T) {
	path := writeProfile(t, "MESSAGE;Vielen Dank;esto sobra\n")

	p, err := profile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Vielen Dank", p.Get(profile.KeyMessage, ""))
}

func TestLoad_DuplicadosYLineasSinSeparador(t *testing.T) {
	path := writeProfile(t, "CURRENCY;€\nCURRENCY;$\nlinea sin separador\nDEFAULT-VAT;19\n")

	p, err := profile.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "€", p.Get(profile.KeyCurrency, ""), "gana la primera aparición")
	assert.Equal(t, []string{"CURRENCY", "DEFAULT-VAT"}, p.Keys())
}

func TestLoad_ArchivoInexistente(t *testing.T) {
	_, err := profile.Load(filepath.Join(t.TempDir(), "no-existe.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestLoad_ArchivoVacio(t *testing.T) {
	path := writeProfile(t, "")
	_, err := profile.Load(path)
	require.Error(t, err, "un perfil sin entradas no permite generar facturas")
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestGet_ValorPorDefecto(t *testing.T) {
	path := writeProfile(t, "CURRENCY;€\n")
	p, err := profile.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "14", p.Get("PAYMENT-DAYS", "14"))
}
