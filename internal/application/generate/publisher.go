package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jhoicas/rechnungs-assistent/pkg/logger"
)

// Nombres de trabajo dentro del borrador y sufijos publicados. El
// sufijo "_o" (original) es el que cuenta la numeración en la
// siguiente ejecución: la publicación escribe exactamente lo que la
// numeración lee.
const (
	scratchHTML   = "invoice.html"
	scratchPDF    = "invoice.pdf"
	scratchXML    = "invoice.xml"
	scratchHybrid = "invoice_c.pdf"
	scratchLogo   = "logo.png"

	publishedPrefix = "Rechnung-"
	suffixOriginal  = "_o"
	suffixHybrid    = "_c"
)

// PublishInput son los artefactos ya proyectados más el destino.
type PublishInput struct {
	HTML      string // documento de presentación
	PDF       []byte // no nil en modo nativo: se escribe tal cual, sin Renderer
	XML       []byte // documento de intercambio
	LogoPath  string // ya resuelto; vacío = sin logo
	Number    string
	BucketDir string
	DryRun    bool // deja todo en el borrador, no publica
}

// Published son las rutas finales de los artefactos.
type Published struct {
	PDFPath    string
	XMLPath    string
	HybridPath string // vacío si el híbrido está deshabilitado
	ScratchDir string
}

// Publisher materializa los artefactos: primero todo en un directorio
// de borrador por ejecución bajo la caché, y solo si la generación
// completa tuvo éxito se copian al bucket definitivo. Así un fallo a
// mitad nunca deja una factura a medio escribir corrompiendo el
// recuento de numeración.
type Publisher struct {
	cacheDir    string
	renderer    Renderer
	merger      Merger      // nil = híbrido deshabilitado
	timestamper Timestamper // nil = sellado deshabilitado
	log         *logger.Logger
}

// NewPublisher construye el publicador. merger y timestamper son
// integraciones opcionales; nil las deshabilita.
func NewPublisher(cacheDir string, renderer Renderer, merger Merger, timestamper Timestamper, log *logger.Logger) *Publisher {
	return &Publisher{
		cacheDir:    cacheDir,
		renderer:    renderer,
		merger:      merger,
		timestamper: timestamper,
		log:         log,
	}
}

// Publish ejecuta la secuencia borrador→render→extras→copia.
func (p *Publisher) Publish(ctx context.Context, in PublishInput) (*Published, error) {
	scratch := filepath.Join(p.cacheDir, uuid.NewString())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("crear borrador %q: %w", scratch, err)
	}

	htmlPath := filepath.Join(scratch, scratchHTML)
	if err := os.WriteFile(htmlPath, []byte(in.HTML), 0o644); err != nil {
		return nil, fmt.Errorf("escribir %q: %w", htmlPath, err)
	}
	if in.LogoPath != "" {
		if err := copyFile(in.LogoPath, filepath.Join(scratch, scratchLogo)); err != nil {
			return nil, fmt.Errorf("copiar logo: %w", err)
		}
	}

	pdfPath := filepath.Join(scratch, scratchPDF)
	if in.PDF != nil {
		if err := os.WriteFile(pdfPath, in.PDF, 0o644); err != nil {
			return nil, fmt.Errorf("escribir %q: %w", pdfPath, err)
		}
	} else {
		if err := p.renderer.RenderPDF(ctx, htmlPath, pdfPath); err != nil {
			return nil, err
		}
	}

	xmlPath := filepath.Join(scratch, scratchXML)
	if err := os.WriteFile(xmlPath, in.XML, 0o644); err != nil {
		return nil, fmt.Errorf("escribir %q: %w", xmlPath, err)
	}

	if p.timestamper != nil {
		for _, path := range []string{pdfPath, xmlPath} {
			if err := p.timestamp(ctx, path); err != nil {
				return nil, err
			}
		}
	}

	hybridPath := ""
	if p.merger != nil {
		hybridPath = filepath.Join(scratch, scratchHybrid)
		if err := p.merger.Merge(pdfPath, xmlPath, hybridPath); err != nil {
			return nil, err
		}
		if p.timestamper != nil {
			if err := p.timestamp(ctx, hybridPath); err != nil {
				return nil, err
			}
		}
	}

	if in.DryRun {
		p.log.Info().Str("scratch", scratch).Msg("dry run: los artefactos quedan en el borrador")
		return &Published{PDFPath: pdfPath, XMLPath: xmlPath, HybridPath: hybridPath, ScratchDir: scratch}, nil
	}

	return p.copyToBucket(scratch, hybridPath != "", in)
}

// timestamp escribe <path>.tsq y <path>.tsr junto al artefacto.
func (p *Publisher) timestamp(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("leer %q para sellar: %w", path, err)
	}
	query, err := p.timestamper.BuildQuery(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".tsq", query, 0o644); err != nil {
		return fmt.Errorf("escribir %q: %w", path+".tsq", err)
	}
	reply, err := p.timestamper.Fetch(ctx, query)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".tsr", reply, 0o644); err != nil {
		return fmt.Errorf("escribir %q: %w", path+".tsr", err)
	}
	return nil
}

// copyToBucket publica los artefactos definitivos bajo el bucket con
// el número de factura y el marcador de original en el nombre.
func (p *Publisher) copyToBucket(scratch string, hybrid bool, in PublishInput) (*Published, error) {
	base := filepath.Join(in.BucketDir, publishedPrefix+in.Number)
	out := &Published{
		PDFPath:    base + suffixOriginal + ".pdf",
		XMLPath:    base + suffixOriginal + ".xml",
		ScratchDir: scratch,
	}

	copies := map[string]string{
		filepath.Join(scratch, scratchPDF): out.PDFPath,
		filepath.Join(scratch, scratchXML): out.XMLPath,
	}
	if p.timestamper != nil {
		copies[filepath.Join(scratch, scratchPDF)+".tsq"] = out.PDFPath + ".tsq"
		copies[filepath.Join(scratch, scratchPDF)+".tsr"] = out.PDFPath + ".tsr"
		copies[filepath.Join(scratch, scratchXML)+".tsq"] = out.XMLPath + ".tsq"
		copies[filepath.Join(scratch, scratchXML)+".tsr"] = out.XMLPath + ".tsr"
	}
	if hybrid {
		out.HybridPath = base + suffixHybrid + ".pdf"
		copies[filepath.Join(scratch, scratchHybrid)] = out.HybridPath
		if p.timestamper != nil {
			copies[filepath.Join(scratch, scratchHybrid)+".tsq"] = out.HybridPath + ".tsq"
			copies[filepath.Join(scratch, scratchHybrid)+".tsr"] = out.HybridPath + ".tsr"
		}
	}

	for src, dst := range copies {
		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("publicar %q: %w", dst, err)
		}
	}
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
