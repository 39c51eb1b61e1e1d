package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/rechnungs-assistent/assets"
	"github.com/jhoicas/rechnungs-assistent/pkg/config"
	"github.com/jhoicas/rechnungs-assistent/pkg/logger"
)

func newInitCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Instala un perfil de emisor de ejemplo",
		Long:  "Crea el directorio de configuración y copia en él un template.csv de ejemplo listo para editar.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(cfg.Paths.ConfigDir, 0o755); err != nil {
				return fmt.Errorf("crear %q: %w", cfg.Paths.ConfigDir, err)
			}

			dest := cfg.Paths.ProfilePath()
			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%q ya existe (use --force para sobrescribir)", dest)
				}
			}
			if err := os.WriteFile(dest, []byte(assets.ProfileExample), 0o644); err != nil {
				return fmt.Errorf("escribir %q: %w", dest, err)
			}

			log.Info().Str("perfil", dest).Msg("perfil de ejemplo instalado")
			cmd.Printf("Perfil creado: %s\n", dest)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Sobrescribe el perfil existente")

	return cmd
}
