package generate

import (
	"context"

	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
)

// Renderer externaliza el documento de presentación a un formato de
// maquetación fija mediante un motor externo: caja negra con espera
// acotada y señal de éxito/fracaso.
type Renderer interface {
	RenderPDF(ctx context.Context, htmlPath, pdfPath string) error
}

// Composer genera el PDF de presentación de forma nativa, sin motor
// externo (alternativa para entornos sin chromium).
type Composer interface {
	Compose(p *profile.Profile, l *invoice.Ledger, id invoice.Identity, c invoice.Customer, currency string) ([]byte, error)
}

// Merger produce el artefacto híbrido incrustando el XML en el PDF.
type Merger interface {
	Merge(pdfPath, xmlPath, outPath string) error
}

// Timestamper solicita sellos de tiempo RFC 3161 por artefacto.
type Timestamper interface {
	BuildQuery(data []byte) ([]byte, error)
	Fetch(ctx context.Context, query []byte) ([]byte, error)
}

// Sequencer deriva el número de factura del bucket año/mes y lo
// protege con un candado durante la ventana numeración→publicación.
type Sequencer interface {
	Next(bucketDir, year, month, override string) (string, error)
	Lock(bucketDir string) (func(), error)
}
