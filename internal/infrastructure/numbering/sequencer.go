// Package numbering deriva el siguiente número de factura de un bucket
// año/mes inspeccionando los artefactos ya publicados. La numeración
// lee exactamente lo que la publicación escribe (sufijo "_o.pdf"):
// esa dependencia circular es intencional y debe conservarse.
package numbering

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OriginalPDFSuffix marca el artefacto de presentación original; el
// recuento de archivos con este sufijo determina el consecutivo.
const OriginalPDFSuffix = "_o.pdf"

// lockFileName candado de exclusión del bucket durante la ventana
// escaneo→publicación.
const lockFileName = ".rechnung.lock"

// Sequencer calcula números de factura "YYYY-MM-<n>" por bucket.
type Sequencer struct{}

// NewSequencer construye el servicio.
func NewSequencer() *Sequencer { return &Sequencer{} }

// Next devuelve el siguiente número para (year, month). Si override no
// está vacío se devuelve tal cual: el operador asume la responsabilidad
// de las colisiones. Crear el bucket si no existe es un efecto
// colateral de esta llamada; un bucket vacío produce "...-1".
func (s *Sequencer) Next(bucketDir, year, month, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return "", fmt.Errorf("crear bucket %q: %w", bucketDir, err)
	}
	entries, err := os.ReadDir(bucketDir)
	if err != nil {
		return "", fmt.Errorf("leer bucket %q: %w", bucketDir, err)
	}
	count := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), OriginalPDFSuffix) {
			count++
		}
	}
	return year + "-" + month + "-" + strconv.Itoa(count+1), nil
}

// Lock toma un candado exclusivo sobre el bucket, creado con
// O_CREATE|O_EXCL. Dos ejecuciones concurrentes contra el mismo bucket
// calcularían el mismo consecutivo y se pisarían los artefactos; con el
// candado la segunda falla de inmediato, sin reintentos. La función
// devuelta libera el candado.
func (s *Sequencer) Lock(bucketDir string) (func(), error) {
	if err := os.MkdirAll(bucketDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear bucket %q: %w", bucketDir, err)
	}
	lockPath := filepath.Join(bucketDir, lockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("bucket %q bloqueado por otra generación en curso (%s)", bucketDir, lockFileName)
		}
		return nil, fmt.Errorf("bloquear bucket %q: %w", bucketDir, err)
	}
	_, _ = f.WriteString(strconv.Itoa(os.Getpid()))
	_ = f.Close()
	return func() { _ = os.Remove(lockPath) }, nil
}
