package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/rechnungs-assistent/internal/application/generate"
	"github.com/jhoicas/rechnungs-assistent/internal/domain/invoice"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/cii"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/htmldoc"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/hybrid"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/numbering"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/pdf"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/render"
	"github.com/jhoicas/rechnungs-assistent/internal/infrastructure/tsa"
	"github.com/jhoicas/rechnungs-assistent/pkg/config"
	"github.com/jhoicas/rechnungs-assistent/pkg/logger"
)

func newGenerateCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var (
		customerCompany string
		customerName    string
		customerStreet  string
		customerZIP     string
		customerCity    string

		articles  []string
		discounts []string

		template      string
		paymentDays   int
		invoiceNumber string
		serviceDate   string
		logoPath      string
		invoiceDir    string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Genera una factura (PDF + XML) a partir de posiciones",
		Long:  "Calcula el total a partir de las posiciones, deriva el número de factura del bucket año/mes y publica el PDF de presentación junto a su gemelo XML CII.",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := buildUseCase(cfg, log)
			result, err := uc.Generate(cmd.Context(), generate.Request{
				Customer: invoice.Customer{
					Company: customerCompany,
					Name:    customerName,
					Street:  customerStreet,
					ZIP:     customerZIP,
					City:    customerCity,
				},
				Articles:      articles,
				Discounts:     discounts,
				TemplatePath:  template,
				InvoiceNumber: invoiceNumber,
				ServiceDate:   serviceDate,
				LogoPath:      logoPath,
				InvoiceDir:    invoiceDir,
				PaymentDays:   paymentDays,
				DryRun:        dryRun,
			})
			if err != nil {
				return err
			}
			// stdout lleva solo la ruta publicada, apta para encadenar.
			cmd.Println(result.PDFPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&customerCompany, "customerCompany", "", "Empresa del destinatario")
	cmd.Flags().StringVar(&customerName, "customerName", "", "Nombre del destinatario")
	cmd.Flags().StringVar(&customerStreet, "customerStreet", "", "Calle del destinatario")
	cmd.Flags().StringVar(&customerZIP, "customerZIP", "", "Código postal del destinatario")
	cmd.Flags().StringVar(&customerCity, "customerCity", "", "Ciudad del destinatario")
	cmd.Flags().StringArrayVar(&articles, "article", nil, `Posición "<descripción>;<precioUnitario>;<cantidad>;<nota>" (repetible)`)
	cmd.Flags().StringArrayVar(&discounts, "discount", nil, `Descuento "<etiqueta>;<importe>" (repetible)`)
	cmd.Flags().StringVar(&template, "template", "", "Ruta de la plantilla HTML (por defecto la incrustada)")
	cmd.Flags().IntVar(&paymentDays, "paymentDays", invoice.DefaultPaymentDays, "Días hasta el vencimiento")
	cmd.Flags().StringVar(&invoiceNumber, "invoiceNumber", "", "Número de factura manual (por defecto YYYY-MM-<n>)")
	cmd.Flags().StringVar(&serviceDate, "serviceDate", "today", "Fecha de prestación del servicio")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Ruta del logo (por defecto ICON-PATH del perfil)")
	cmd.Flags().StringVar(&invoiceDir, "invoiceDir", "", "Raíz del árbol de facturas publicadas")
	cmd.Flags().BoolVar(&dryRun, "dryRun", false, "No publica: deja los artefactos en el borrador")

	_ = cmd.MarkFlagRequired("article")

	return cmd
}

// buildUseCase cablea la infraestructura según la configuración: motor
// de renderizado, híbrido y sellado de tiempo opcionales.
func buildUseCase(cfg *config.Config, log *logger.Logger) *generate.UseCase {
	var (
		renderer generate.Renderer
		composer generate.Composer
	)
	if cfg.Renderer.Engine == "native" {
		composer = pdf.NewComposer()
	} else {
		renderer = render.NewChromiumRenderer(cfg.Renderer.ChromiumPath, cfg.Renderer.Timeout)
	}

	var merger generate.Merger
	if cfg.Output.MergeHybrid {
		merger = hybrid.NewMerger()
	}
	var timestamper generate.Timestamper
	if cfg.Output.TimestampArtifacts {
		timestamper = tsa.NewClient(cfg.TSA.URL)
	}

	publisher := generate.NewPublisher(cfg.Paths.CacheDir, renderer, merger, timestamper, log)
	return generate.NewUseCase(cfg, log, numbering.NewSequencer(), htmldoc.NewProjector(), cii.NewBuilder(), composer, publisher)
}
