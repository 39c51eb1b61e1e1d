package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rechnungs-assistent/internal/domain"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/profile"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/cii"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/htmldoc"
	"github.com/jhoicas/rechnungs-assistent/pkg/config"
	"github.com/jhoicas/rechnungs-assistent/pkg/logger"
)

// Request son los datos de una generación: destinatario, posiciones y
// overrides de la línea de comandos.
type Request struct {
	Customer invoice.Customer

	Articles  []string // especificaciones "desc;precio;cantidad;nota"
	Discounts []string // especificaciones "etiqueta;importe"

	ProfilePath   string // vacío = ruta por defecto de la configuración
	TemplatePath  string // vacío = plantilla incrustada
	InvoiceNumber string // vacío = derivar del bucket
	ServiceDate   string // vacío o "today" = fecha de emisión
	LogoPath      string // vacío = ICON-PATH del perfil
	InvoiceDir    string // vacío = directorio de la configuración
	PaymentDays   int
	DryRun        bool
}

// Result son las rutas publicadas y el número asignado.
type Result struct {
	Number     string
	PDFPath    string
	XMLPath    string
	HybridPath string
}

// UseCase orquesta una generación completa: perfil → libro mayor →
// número → ambas proyecciones → publicación. El libro mayor se calcula
// una sola vez y alimenta las dos proyecciones, de modo que los
// importes de la presentación y del XML no pueden divergir.
type UseCase struct {
	cfg       *config.Config
	log       *logger.Logger
	seq       Sequencer
	projector *htmldoc.Projector
	builder   *cii.Builder
	composer  Composer // solo en modo nativo
	publisher *Publisher
}

// NewUseCase construye el caso de uso. composer puede ser nil cuando
// el motor configurado es el renderizador externo.
func NewUseCase(cfg *config.Config, log *logger.Logger, seq Sequencer, projector *htmldoc.Projector, builder *cii.Builder, composer Composer, publisher *Publisher) *UseCase {
	return &UseCase{
		cfg:       cfg,
		log:       log,
		seq:       seq,
		projector: projector,
		builder:   builder,
		composer:  composer,
		publisher: publisher,
	}
}

// Generate ejecuta la generación y devuelve las rutas publicadas.
func (uc *UseCase) Generate(ctx context.Context, req Request) (*Result, error) {
	profilePath := req.ProfilePath
	if profilePath == "" {
		profilePath = uc.cfg.Paths.ProfilePath()
	}
	prof, err := profile.Load(profilePath)
	if err != nil {
		return nil, err
	}

	vatRate, err := vatRate(prof)
	if err != nil {
		return nil, err
	}
	ledger, err := invoice.BuildLedger(req.Articles, req.Discounts, vatRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoiceDir := req.InvoiceDir
	if invoiceDir == "" {
		invoiceDir = uc.cfg.Paths.InvoiceDir
	}
	bucketDir := filepath.Join(invoiceDir, now.Format("2006"), now.Format("01"))

	// El candado cubre la ventana entre contar los originales y
	// escribir el siguiente; en dry run no se publica nada, así que
	// no hay ventana que proteger.
	if !req.DryRun {
		release, err := uc.seq.Lock(bucketDir)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	number, err := uc.seq.Next(bucketDir, now.Format("2006"), now.Format("01"), req.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	identity := invoice.NewIdentity(number, now, req.ServiceDate, req.PaymentDays)

	currency := prof.Get(profile.KeyCurrency, "€")
	in := htmldoc.Input{
		Profile:  prof,
		Ledger:   ledger,
		Identity: identity,
		Customer: req.Customer,
		Currency: currency,
	}

	template, err := htmldoc.LoadTemplate(req.TemplatePath)
	if err != nil {
		return nil, err
	}
	html := uc.projector.Render(template, in)

	xml, err := uc.builder.Build(cii.Input{
		Profile:  prof,
		Ledger:   ledger,
		Identity: identity,
		Customer: req.Customer,
		Currency: currency,
	})
	if err != nil {
		return nil, err
	}

	var pdf []byte
	if uc.composer != nil {
		pdf, err = uc.composer.Compose(prof, ledger, identity, req.Customer, currency)
		if err != nil {
			return nil, err
		}
	}

	published, err := uc.publisher.Publish(ctx, PublishInput{
		HTML:      html,
		PDF:       pdf,
		XML:       xml,
		LogoPath:  uc.resolveLogo(req.LogoPath, profilePath, prof),
		Number:    number,
		BucketDir: bucketDir,
		DryRun:    req.DryRun,
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("numero", number).
		Str("pdf", published.PDFPath).
		Str("xml", published.XMLPath).
		Msg("factura generada")

	return &Result{
		Number:     number,
		PDFPath:    published.PDFPath,
		XMLPath:    published.XMLPath,
		HybridPath: published.HybridPath,
	}, nil
}

// vatRate lee el tipo de IVA por defecto del perfil. Su ausencia es
// fatal: sin tipo no se puede calcular el libro mayor.
func vatRate(prof *profile.Profile) (decimal.Decimal, error) {
	raw := prof.Trimmed(profile.KeyDefaultVAT)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: clave %q", domain.ErrMissingVatRate, profile.KeyDefaultVAT)
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", domain.ErrMissingVatRate, raw, err)
	}
	return rate, nil
}

// resolveLogo determina el logo a copiar al borrador: el override de
// la petición, si no el ICON-PATH del perfil; las rutas relativas se
// resuelven contra el directorio del perfil. Un logo irresoluble solo
// genera una advertencia, nunca aborta la factura.
func (uc *UseCase) resolveLogo(override, profilePath string, prof *profile.Profile) string {
	logo := override
	if logo == "" {
		logo = prof.Trimmed(profile.KeyIconPath)
	}
	if logo == "" {
		return ""
	}
	if _, err := os.Stat(logo); err == nil {
		return logo
	}
	relative := filepath.Join(filepath.Dir(profilePath), logo)
	if _, err := os.Stat(relative); err == nil {
		return relative
	}
	uc.log.Warn().Str("logo", logo).Msg("logo irresoluble, la factura sale sin él")
	return ""
}
