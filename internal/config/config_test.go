package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "@every 1m", cfg.AuditFlushSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)

	assert.Equal(t, 1000, cfg.Policy.MaxQueryRows)
	assert.Equal(t, 5, cfg.Policy.MinGroupSize)
	assert.Equal(t, 100, cfg.Policy.MaxQueriesPerHour)
	assert.Equal(t, 10, cfg.Policy.MaxQueriesPerMinute)
	assert.Equal(t, "person_id", cfg.Policy.DirectIdentifierColumn)
	assert.Equal(t, 1000, cfg.Policy.AuditLogCapacity)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("ENV", "production")
	t.Setenv("RATE_LIMIT_RPS", "25.5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 25.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv_InvalidNumericWarnsAndDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "lots")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "RATE_LIMIT_RPS")
}

func TestLoadFromEnv_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"max_query_rows: 500\nmin_group_size: 10\nquasi_identifiers: [year_of_birth, gender]\n"), 0o600))
	t.Setenv("POLICY_FILE", path)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Policy.MaxQueryRows)
	assert.Equal(t, 10, cfg.Policy.MinGroupSize)
	assert.Equal(t, []string{"year_of_birth", "gender"}, cfg.Policy.QuasiIdentifiers)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 100, cfg.Policy.MaxQueriesPerHour)
}

func TestLoadFromEnv_MissingPolicyFileKeepsDefaults(t *testing.T) {
	t.Setenv("POLICY_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Policy.MaxQueryRows)
	require.NotEmpty(t, cfg.Warnings)
	assert.Contains(t, cfg.Warnings[0], "not loaded")
}

func TestPolicyValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PolicyConfig)
	}{
		{"zero max rows", func(p *PolicyConfig) { p.MaxQueryRows = 0 }},
		{"group size below 2", func(p *PolicyConfig) { p.MinGroupSize = 1 }},
		{"zero hourly cap", func(p *PolicyConfig) { p.MaxQueriesPerHour = 0 }},
		{"minute cap above hourly cap", func(p *PolicyConfig) { p.MaxQueriesPerMinute = 500 }},
		{"zero audit capacity", func(p *PolicyConfig) { p.AuditLogCapacity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultPolicy()
			tc.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}

	p := DefaultPolicy()
	assert.NoError(t, p.Validate())
}

func TestWithinAccessWindow(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.WithinAccessWindow(time.Now()), "no window configured means always inside")

	p.AccessWindowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.AccessWindowEnd = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, p.WithinAccessWindow(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.WithinAccessWindow(p.AccessWindowStart), "window is inclusive")
	assert.True(t, p.WithinAccessWindow(p.AccessWindowEnd), "window is inclusive")
	assert.False(t, p.WithinAccessWindow(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.WithinAccessWindow(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		cfg := Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), "level %q", in)
	}
}
