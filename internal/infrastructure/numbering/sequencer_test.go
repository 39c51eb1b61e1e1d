package numbering_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/numbering"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestNext_BucketVacio(t *testing.T) {
	bucket := filepath.Join(t.TempDir(), "2024", "05")

	n, err := numbering.NewSequencer().Next(bucket, "2024", "05", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-1", n)

	_, err = os.Stat(bucket)
	assert.NoError(t, err, "Next crea el bucket si no existe")
}

// Solo cuentan los originales (_o.pdf): los XML, los híbridos y los
// sellos de tiempo del mismo número no inflan el consecutivo.
func TestNext_CuentaSoloOriginales(t *testing.T) {
	bucket := t.TempDir()
	touch(t, bucket, "Rechnung-2024-05-1_o.pdf")
	touch(t, bucket, "Rechnung-2024-05-1_o.xml")
	touch(t, bucket, "Rechnung-2024-05-1_c.pdf")
	touch(t, bucket, "Rechnung-2024-05-1_o.pdf.tsr")
	touch(t, bucket, "Rechnung-2024-05-2_o.pdf")
	touch(t, bucket, "Rechnung-2024-05-3_o.pdf")

	n, err := numbering.NewSequencer().Next(bucket, "2024", "05", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-4", n)
}

func TestNext_Override(t *testing.T) {
	n, err := numbering.NewSequencer().Next(filepath.Join(t.TempDir(), "nuevo"), "2024", "05", "SONDER-7")
	require.NoError(t, err)
	assert.Equal(t, "SONDER-7", n, "el número manual se devuelve tal cual")
}

func TestLock_Exclusivo(t *testing.T) {
	bucket := t.TempDir()
	seq := numbering.NewSequencer()

	release, err := seq.Lock(bucket)
	require.NoError(t, err)

	_, err = seq.Lock(bucket)
	require.Error(t, err, "el segundo candado sobre el mismo bucket debe fallar")
	assert.Contains(t, err.Error(), "bloqueado")

	release()

	release2, err := seq.Lock(bucket)
	require.NoError(t, err, "tras liberar, el bucket vuelve a ser bloqueable")
	release2()
}
