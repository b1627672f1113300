package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "k3v9Qm2xT8rWz1LpA6sD0fGh4JnB7cYe"

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/playpartner")
	t.Setenv("JWT_SECRET", strongSecret)
	t.Setenv("CORS_ORIGINS", " http://a.test , ,http://b.test")

	cfg, warnings, err := Load()
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "playpartner", cfg.JWTIssuer)
	assert.Equal(t, int64(14400), cfg.AccessTTLSeconds)
	assert.Equal(t, int64(1209600), cfg.RefreshTTLSeconds)
	assert.Equal(t, "storage/media", cfg.MediaDir)
	assert.Equal(t, 7, cfg.LogRetentionDays)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
}

func validConfig() Config {
	return Config{
		Env:               "development",
		DatabaseURL:       "postgres://localhost/playpartner",
		JWTSecret:         strongSecret,
		AccessTTLSeconds:  60,
		RefreshTTLSeconds: 120,
		Port:              5000,
		LogRetentionDays:  7,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
		warning string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL is required"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "at least 32 characters"},
		{name: "unknown env", mutate: func(c *Config) { c.Env = "staging" }, wantErr: "APP_ENV"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{
			name:    "weak secret in development",
			mutate:  func(c *Config) { c.JWTSecret = "replace-with-a-long-random-string-of-32-chars" },
			warning: "known default",
		},
		{
			name: "weak secret in production",
			mutate: func(c *Config) {
				c.Env = "production"
				c.CorsOrigins = []string{"https://crm.example.com"}
				c.JWTSecret = "replace-with-a-long-random-string-of-32-chars"
			},
			wantErr: "known default",
		},
		{name: "retention out of range", mutate: func(c *Config) { c.LogRetentionDays = 30 }, warning: "LOG_RETENTION_DAYS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			warnings, err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			if tt.warning == "" {
				assert.Empty(t, warnings)
			} else {
				require.Len(t, warnings, 1)
				assert.Contains(t, warnings[0], tt.warning)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	_, err := Config{Env: "development", LogRetentionDays: 7}.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET", "PORT", "ACCESS_TTL_SECONDS"} {
		assert.True(t, strings.Contains(msg, want), want)
	}
}
