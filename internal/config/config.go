// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PolicyConfig holds the tunable knobs of the admission pipeline.
// Defaults follow the published access conditions for the dataset and
// can be overridden from a YAML policy file.
type PolicyConfig struct {
	// MaxQueryRows is the mandatory LIMIT cap per query.
	MaxQueryRows int `yaml:"max_query_rows"`
	// MinGroupSize is the k-anonymity threshold for grouped results.
	MinGroupSize int `yaml:"min_group_size"`

	MaxQueriesPerHour   int `yaml:"max_queries_per_hour"`
	MaxQueriesPerMinute int `yaml:"max_queries_per_minute"`

	// DirectIdentifierColumn is the column whose equality lookup is always
	// vetoed (default "person_id").
	DirectIdentifierColumn string `yaml:"direct_identifier_column"`
	// QuasiIdentifiers are columns that combined can narrow toward an
	// individual. Three or more in a non-aggregating query are vetoed.
	QuasiIdentifiers []string `yaml:"quasi_identifiers"`
	// SensitiveColumnPatterns are substrings that should not exist in
	// de-identified data. Matches warn, never veto.
	SensitiveColumnPatterns []string `yaml:"sensitive_column_patterns"`

	// AuditLogCapacity bounds the in-memory audit log (FIFO eviction).
	AuditLogCapacity int `yaml:"audit_log_capacity"`

	// AccessWindowStart/End bound the compliance window (RFC 3339).
	// Zero values disable the window check.
	AccessWindowStart time.Time `yaml:"access_window_start"`
	AccessWindowEnd   time.Time `yaml:"access_window_end"`
}

// Config holds the configuration for the gateway server.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // debug, info, warn, error (default "info")
	Env        string // "development" (default) or "production"

	// DataDBPath is the DuckDB file holding the de-identified extract.
	// Opened read-only; empty means in-memory (tests, demos).
	DataDBPath string
	// AuditDBPath is the SQLite file for the durable audit sink.
	// Empty disables durable audit persistence.
	AuditDBPath string
	// AuditFlushSchedule is a cron spec for the best-effort audit flush
	// (default "@every 1m").
	AuditFlushSchedule string

	// DictionarySource is a file path or URL for the concept dictionary CSV.
	DictionarySource string

	// PolicyFile optionally points at a YAML file overriding Policy.
	PolicyFile string
	Policy     PolicyConfig

	// HTTP-level rate limiting (per client, token bucket). Distinct from
	// the policy-level sliding window.
	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// DefaultPolicy returns the policy knobs matching the dataset's published
// access conditions.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		MaxQueryRows:           1000,
		MinGroupSize:           5,
		MaxQueriesPerHour:      100,
		MaxQueriesPerMinute:    10,
		DirectIdentifierColumn: "person_id",
		QuasiIdentifiers: []string{
			"year_of_birth", "gender", "race", "ethnicity", "zip", "city",
		},
		SensitiveColumnPatterns: []string{
			"name", "address", "phone", "email", "ssn",
			"social_security", "mrn", "medical_record", "insurance",
		},
		AuditLogCapacity: 1000,
	}
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// AccessWindowConfigured reports whether a compliance window is set.
func (p *PolicyConfig) AccessWindowConfigured() bool {
	return !p.AccessWindowStart.IsZero() && !p.AccessWindowEnd.IsZero()
}

// WithinAccessWindow reports whether t falls inside the compliance window.
// Always true when no window is configured.
func (p *PolicyConfig) WithinAccessWindow(t time.Time) bool {
	if !p.AccessWindowConfigured() {
		return true
	}
	return !t.Before(p.AccessWindowStart) && !t.After(p.AccessWindowEnd)
}

// Validate checks that the policy configuration is internally consistent.
func (p *PolicyConfig) Validate() error {
	if p.MaxQueryRows <= 0 {
		return fmt.Errorf("max_query_rows must be positive, got %d", p.MaxQueryRows)
	}
	if p.MinGroupSize < 2 {
		return fmt.Errorf("min_group_size must be at least 2, got %d", p.MinGroupSize)
	}
	if p.MaxQueriesPerHour <= 0 || p.MaxQueriesPerMinute <= 0 {
		return fmt.Errorf("rate caps must be positive (hour=%d, minute=%d)",
			p.MaxQueriesPerHour, p.MaxQueriesPerMinute)
	}
	if p.MaxQueriesPerMinute > p.MaxQueriesPerHour {
		return fmt.Errorf("per-minute cap (%d) exceeds per-hour cap (%d)",
			p.MaxQueriesPerMinute, p.MaxQueriesPerHour)
	}
	if p.AuditLogCapacity <= 0 {
		return fmt.Errorf("audit_log_capacity must be positive, got %d", p.AuditLogCapacity)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables, then merges
// the optional YAML policy file. Missing values fall back to defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Env:                os.Getenv("ENV"),
		DataDBPath:         os.Getenv("DATA_DB_PATH"),
		AuditDBPath:        os.Getenv("AUDIT_DB_PATH"),
		AuditFlushSchedule: os.Getenv("AUDIT_FLUSH_SCHEDULE"),
		DictionarySource:   os.Getenv("DICTIONARY_SOURCE"),
		PolicyFile:         os.Getenv("POLICY_FILE"),
		Policy:             DefaultPolicy(),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.AuditFlushSchedule == "" {
		cfg.AuditFlushSchedule = "@every 1m"
	}

	cfg.RateLimitRPS = 100
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid RATE_LIMIT_RPS %q, using default", v))
		}
	}
	cfg.RateLimitBurst = 200
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid RATE_LIMIT_BURST %q, using default", v))
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if cfg.PolicyFile != "" {
		if err := cfg.loadPolicyFile(); err != nil {
			// Policy file problems keep the defaults rather than failing
			// startup — the defaults are the strictest published values.
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("policy file %s not loaded: %v", cfg.PolicyFile, err))
		}
	}

	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy configuration: %w", err)
	}

	return cfg, nil
}

// loadPolicyFile merges YAML overrides into the default policy.
func (c *Config) loadPolicyFile() error {
	data, err := os.ReadFile(c.PolicyFile)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, &c.Policy); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}
