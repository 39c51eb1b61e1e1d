// Package hybrid produce el artefacto combinado "_c.pdf": el PDF de
// presentación con el XML de intercambio incrustado como adjunto, al
// estilo de los contenedores híbridos ZUGFeRD. La conversión a PDF/A
// queda fuera del alcance del modelo de adjuntos.
package hybrid

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Merger incrusta artefactos XML en documentos PDF.
type Merger struct{}

// NewMerger construye el servicio.
func NewMerger() *Merger { return &Merger{} }

// Merge escribe en outPath una copia de pdfPath con xmlPath adjunto.
// Los archivos de entrada no se modifican.
func (m *Merger) Merge(pdfPath, xmlPath, outPath string) error {
	if err := api.AddAttachmentsFile(pdfPath, outPath, []string{xmlPath}, false, nil); err != nil {
		return fmt.Errorf("incrustar %q en %q: %w", xmlPath, pdfPath, err)
	}
	return nil
}
