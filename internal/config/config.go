package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const devSessionSecret = "dev-session-secret-change-me"

// Config agrupa toda la configuración del servicio. Se lee de env vars
// (main carga antes un .env opcional con godotenv).
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	Env           string `env:"ENV" envDefault:"development"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Vacío => repos in-memory (modo dev).
	DatabaseDSN string `env:"DB_DSN"`
	// Vacío => drafts/sesiones NFC in-memory y sin rate limit.
	RedisURL string `env:"REDIS_URL"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"dev-session-secret-change-me"`
	// DevAuth acepta X-Debug-User-ID en lugar de sesión. Nunca en producción.
	DevAuth    bool          `env:"DEV_AUTH" envDefault:"false"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`

	S3Bucket        string `env:"S3_BUCKET" envDefault:"pet-photos"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	CloudinaryName      string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"pet-photos"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"pet-tag"`

	// Dev: el resolver de capacidades responde true a todo (Web NFC desde desktop).
	AllowAllCapabilities bool `env:"ALLOW_ALL_CAPABILITIES" envDefault:"false"`

	DefaultPhoneRegion string `env:"DEFAULT_PHONE_REGION" envDefault:"IT"`
	SupportEmail       string `env:"SUPPORT_EMAIL" envDefault:"help@pet-tag.app"`

	ScanRateLimit  int           `env:"SCAN_RATE_LIMIT" envDefault:"30"`
	ScanRateWindow time.Duration `env:"SCAN_RATE_WINDOW" envDefault:"1m"`
}

// Load parsea el entorno y valida lo mínimo para arrancar.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.AllowedOrigins = trimCSV(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate revisa combinaciones inválidas.
func (c Config) Validate() error {
	if c.IsProduction() && (strings.TrimSpace(c.SessionSecret) == "" || c.SessionSecret == devSessionSecret) {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.IsProduction() && c.DevAuth {
		return errors.New("DEV_AUTH cannot be enabled in production")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	switch c.StorageDriver {
	case "", "memory":
	case "s3":
		if c.S3Bucket == "" || c.S3PublicBaseURL == "" {
			return errors.New("s3 storage requires S3_BUCKET and S3_PUBLIC_BASE_URL")
		}
	case "cloudinary":
		if c.CloudinaryName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return errors.New("cloudinary storage requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// IsProduction devuelve true cuando ENV=production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// GoogleEnabled indica si hay credenciales OAuth de Google.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func trimCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
