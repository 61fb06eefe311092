// Package app provides application-level wiring for the query gateway.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"omopgate/internal/audit"
	"omopgate/internal/catalog"
	"omopgate/internal/config"
	"omopgate/internal/db"
	"omopgate/internal/dictionary"
	"omopgate/internal/engine"
	"omopgate/internal/gateway"
	"omopgate/internal/privacy"
	"omopgate/internal/ratelimit"
	"omopgate/internal/service/query"
	"omopgate/internal/service/report"
	"omopgate/internal/sqlguard"
)

// Deps holds the external dependencies that main() must provide: config,
// the opened DuckDB pool, and the logger.
type Deps struct {
	Cfg    *config.Config
	DuckDB *sql.DB
	Logger *slog.Logger
}

// Services groups the service pointers the API handler needs. Dictionary
// is nil when no dictionary source is configured.
type Services struct {
	Query      *query.Service
	Catalog    *catalog.Service
	Report     *report.Service
	Dictionary *dictionary.Dictionary
}

// App holds the fully-wired application.
type App struct {
	Services Services
	Gateway  *gateway.Gateway
	AuditLog *audit.Log

	auditDB *sql.DB // nil when durable audit is disabled
	flusher *Flusher
}

// New wires the policy components, the executor, and the services from the
// provided deps. The gateway's mutable state (rate window, audit log) is
// constructed here, once, and nowhere else.
func New(deps Deps) (*App, error) {
	cfg := deps.Cfg
	policy := cfg.Policy

	auditLog := audit.NewLog(policy.AuditLogCapacity)
	limiter := ratelimit.New(policy.MaxQueriesPerHour, policy.MaxQueriesPerMinute, nil)
	validator := sqlguard.NewValidator(policy, deps.Logger)
	auditor := privacy.NewAuditor(policy.MinGroupSize, deps.Logger)
	gw := gateway.New(policy, limiter, validator, auditor, auditLog, nil, deps.Logger)

	executor := engine.NewExecutor(deps.DuckDB)
	querySvc := query.NewService(gw, executor, deps.Logger)
	catalogSvc := catalog.NewService(querySvc)
	reportSvc := report.NewService(querySvc, policy.MinGroupSize, policy.MaxQueryRows)

	app := &App{
		Services: Services{
			Query:   querySvc,
			Catalog: catalogSvc,
			Report:  reportSvc,
		},
		Gateway:  gw,
		AuditLog: auditLog,
	}

	// Durable audit sink is optional and best-effort.
	if cfg.AuditDBPath != "" {
		pool, err := db.OpenSQLite(cfg.AuditDBPath)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
		if err := db.RunMigrations(pool); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("migrate audit store: %w", err)
		}
		app.auditDB = pool
		app.flusher = NewFlusher(auditLog, audit.NewSQLiteSink(pool), cfg.AuditFlushSchedule, deps.Logger)
		deps.Logger.Info("durable audit sink enabled", "path", cfg.AuditDBPath)
	}

	// Dictionary load failures degrade the concept endpoints, not startup.
	if cfg.DictionarySource != "" {
		dict, err := dictionary.Load(cfg.DictionarySource)
		if err != nil {
			deps.Logger.Warn("concept dictionary not loaded", "source", cfg.DictionarySource, "error", err)
		} else {
			app.Services.Dictionary = dict
			deps.Logger.Info("concept dictionary loaded", "concepts", dict.Len())
		}
	}

	return app, nil
}

// Start launches background jobs (the audit flusher, when enabled).
func (a *App) Start() error {
	if a.flusher != nil {
		return a.flusher.Start()
	}
	return nil
}

// Close stops background jobs, flushes once more, and closes the audit store.
func (a *App) Close() {
	if a.flusher != nil {
		a.flusher.Stop()
	}
	if a.auditDB != nil {
		_ = a.auditDB.Close()
	}
}
