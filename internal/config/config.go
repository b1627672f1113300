package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minSecretLength = 32

// Known placeholder secrets that must never protect a production deployment.
var weakSecrets = []string{
	"secret",
	"changeme",
	"change-me",
	"your-secret-key",
	"your-session-secret",
	"development-secret",
	"playpartner-secret",
	"replace-with-a-long-random-string-of-32-chars",
}

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Env               string
	DatabaseURL       string
	JWTSecret         string
	JWTIssuer         string
	AccessTTLSeconds  int64
	RefreshTTLSeconds int64
	Port              int
	CorsOrigins       []string
	LogLevel          string
	LogFormat         string
	LogDir            string
	LogRetentionDays  int
	MigrationsDir     string
	MediaDir          string
	MetricsEnabled    bool
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (when present) and the process environment. Problems that
// do not stop the server are returned as warnings.
func Load() (Config, []string, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		Env:               strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		DatabaseURL:       strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:         strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		AccessTTLSeconds:  v.GetInt64("ACCESS_TTL_SECONDS"),
		RefreshTTLSeconds: v.GetInt64("REFRESH_TTL_SECONDS"),
		Port:              v.GetInt("PORT"),
		CorsOrigins:       parseCSV(v.GetString("CORS_ORIGINS")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		LogDir:            v.GetString("LOG_DIR"),
		LogRetentionDays:  v.GetInt("LOG_RETENTION_DAYS"),
		MigrationsDir:     v.GetString("MIGRATIONS_DIR"),
		MediaDir:          v.GetString("MEDIA_DIR"),
		MetricsEnabled:    v.GetBool("METRICS_ENABLED"),
	}
	warnings, err := cfg.Validate()
	return cfg, warnings, err
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("JWT_ISSUER", "playpartner")
	v.SetDefault("ACCESS_TTL_SECONDS", 14400)
	v.SetDefault("REFRESH_TTL_SECONDS", 1209600)
	v.SetDefault("PORT", 5000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_DIR", "storage/logs")
	v.SetDefault("LOG_RETENTION_DAYS", 7)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("MEDIA_DIR", "storage/media")
	v.SetDefault("METRICS_ENABLED", true)
}

// Validate reports every missing or invalid setting at once.
func (c Config) Validate() ([]string, error) {
	var warnings []string
	var errs []error

	switch c.Env {
	case "development", "production", "test":
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be development, production or test, got %q", c.Env))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(c.JWTSecret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
	}
	if c.JWTSecret != "" && isWeakSecret(c.JWTSecret) {
		if c.IsProduction() {
			errs = append(errs, errors.New("JWT_SECRET is a known default value; generate a random secret"))
		} else {
			warnings = append(warnings, "JWT_SECRET is a known default value; do not use it in production")
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.AccessTTLSeconds <= 0 || c.RefreshTTLSeconds <= 0 {
		errs = append(errs, errors.New("ACCESS_TTL_SECONDS and REFRESH_TTL_SECONDS must be positive"))
	}
	if c.LogRetentionDays < 1 || c.LogRetentionDays > 7 {
		warnings = append(warnings, fmt.Sprintf("LOG_RETENTION_DAYS=%d is outside 1..7; using 7", c.LogRetentionDays))
	}
	if len(c.CorsOrigins) == 0 && c.IsProduction() {
		warnings = append(warnings, "CORS_ORIGINS is empty; browsers on other origins will be refused")
	}
	return warnings, errors.Join(errs...)
}

func isWeakSecret(secret string) bool {
	lowered := strings.ToLower(secret)
	if slices.Contains(weakSecrets, lowered) {
		return true
	}
	for _, weak := range weakSecrets {
		if strings.HasPrefix(lowered, weak) && strings.Trim(lowered[len(weak):], "-_0123456789") == "" {
			return true
		}
	}
	return false
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
