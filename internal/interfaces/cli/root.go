// Package cli expone la interfaz de línea de comandos de la
// herramienta: el comando raíz, la generación de facturas y la
// inicialización del perfil del emisor.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/rechnungs-assistent/pkg/config"
	"github.com/jhoicas/rechnungs-assistent/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rechnung",
		Short:         "Generador de facturas alemanas",
		Long:          "Genera facturas alemanas por línea de comandos: un PDF de presentación y su gemelo XML (ZUGFeRD/CII) a partir del mismo cálculo.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newGenerateCmd(cfg, log))
	cmd.AddCommand(newInitCmd(cfg, log))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Printf("rechnung %s (%s)\n", version, commit)
			return nil
		},
	}
}

// Execute arranca la CLI. El error ya se registra aquí; main solo
// decide el código de salida.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	root := newRootCmd(cfg, log)
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("la ejecución falló")
		return err
	}
	return nil
}
