// Package render externaliza el documento de presentación a PDF
// invocando un motor de navegador headless. Es una frontera de
// colaborador: caja negra con espera acotada y señal clara de
// éxito/fracaso, sin reintentos.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
)

// ChromiumRenderer imprime HTML a PDF con chromium headless.
type ChromiumRenderer struct {
	binary  string
	timeout time.Duration
}

// NewChromiumRenderer construye el renderizador. binary puede ser una
// ruta absoluta o un nombre resoluble en PATH; timeout acota la espera
// del proceso externo (un cuelgue del motor no debe colgar la CLI).
func NewChromiumRenderer(binary string, timeout time.Duration) *ChromiumRenderer {
	if binary == "" {
		binary = "chromium"
	}
	return &ChromiumRenderer{binary: binary, timeout: timeout}
}

// RenderPDF imprime htmlPath en pdfPath. Cualquier salida distinta de
// éxito (código de salida, timeout, PDF ausente) es ErrRendererFailure
// con el diagnóstico del motor incluido.
func (r *ChromiumRenderer) RenderPDF(ctx context.Context, htmlPath, pdfPath string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary,
		"--no-sandbox",
		"--headless",
		"--disable-gpu",
		"--print-to-pdf="+pdfPath,
		"--no-margins",
		"--no-pdf-header-footer",
		"file://"+htmlPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %v: %s", domain.ErrRendererFailure, r.binary, err, out)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("%w: %s terminó sin producir %q", domain.ErrRendererFailure, r.binary, pdfPath)
	}
	return nil
}
