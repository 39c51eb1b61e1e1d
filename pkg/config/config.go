package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper
// desde env y opcionalmente archivo). El perfil del emisor NO vive
// aquí: es un archivo de dominio propio (ver internal/domain/profile).
type Config struct {
	App      AppConfig
	Paths    PathsConfig
	Renderer RendererConfig
	TSA      TSAConfig
	Output   OutputConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, production
	Name     string
	LogLevel string
}

// PathsConfig directorios de trabajo de la herramienta.
type PathsConfig struct {
	CacheDir   string // borrador por ejecución; se puede vaciar sin pérdida
	ConfigDir  string // template.csv del emisor
	InvoiceDir string // árbol año/mes de facturas publicadas
}

// ProfilePath devuelve la ruta por defecto del perfil del emisor.
func (c PathsConfig) ProfilePath() string {
	return filepath.Join(c.ConfigDir, "template.csv")
}

// RendererConfig selección y límites del motor de renderizado HTML→PDF.
type RendererConfig struct {
	Engine       string        // "chromium" (externo) o "native" (maroto)
	ChromiumPath string        // binario; "chromium" si está en PATH
	Timeout      time.Duration // espera acotada para el proceso externo
}

// TSAConfig autoridad de sellado de tiempo RFC 3161.
type TSAConfig struct {
	URL string
}

// OutputConfig integraciones opcionales sobre los artefactos originales.
type OutputConfig struct {
	MergeHybrid        bool // genera Rechnung-<n>_c.pdf con el XML incrustado
	TimestampArtifacts bool // solicita .tsq/.tsr por artefacto
}

// Load lee la configuración desde variables de entorno (y
// opcionalmente desde archivo). Las env vars tienen prioridad.
// Nombres esperados: APP_ENV, CACHE_DIR, INVOICE_DIR, RENDERER_ENGINE,
// CHROMIUM_PATH, TSA_URL, MERGE_HYBRID, TIMESTAMP_ARTIFACTS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "rechnungs-assistent"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Paths: PathsConfig{
			CacheDir:   getString(v, "CACHE_DIR", filepath.Join(home, ".cache", "rechnungs-assistent")),
			ConfigDir:  getString(v, "CONFIG_DIR", filepath.Join(home, ".config", "rechnungs-assistent")),
			InvoiceDir: getString(v, "INVOICE_DIR", filepath.Join(home, "Dokumente", "Rechnungen")),
		},
		Renderer: RendererConfig{
			Engine:       getString(v, "RENDERER_ENGINE", "chromium"),
			ChromiumPath: getString(v, "CHROMIUM_PATH", "chromium"),
			Timeout:      time.Duration(getInt(v, "RENDERER_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		TSA: TSAConfig{
			URL: getString(v, "TSA_URL", "http://timestamp.digicert.com"),
		},
		Output: OutputConfig{
			MergeHybrid:        getBool(v, "MERGE_HYBRID", false),
			TimestampArtifacts: getBool(v, "TIMESTAMP_ARTIFACTS", false),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
