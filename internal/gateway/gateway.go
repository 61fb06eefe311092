// Package gateway composes the admission policies into one ordered,
// fail-closed enforcement pipeline.
package gateway

import (
	"log/slog"
	"time"

	"omopgate/internal/audit"
	"omopgate/internal/config"
	"omopgate/internal/domain"
	"omopgate/internal/privacy"
	"omopgate/internal/ratelimit"
	"omopgate/internal/sqlguard"
)

// ComplianceState reports the access-window check for the status surface.
type ComplianceState struct {
	WithinAccessWindow bool      `json:"within_access_window"`
	WindowConfigured   bool      `json:"window_configured"`
	WindowStart        time.Time `json:"window_start,omitempty"`
	WindowEnd          time.Time `json:"window_end,omitempty"`
}

// Status aggregates the gateway's observable state.
type Status struct {
	RateLimiter ratelimit.State     `json:"rate_limiter"`
	Audit       domain.AuditSummary `json:"audit_log"`
	Compliance  ComplianceState     `json:"compliance"`
}

// Gateway is the policy orchestrator. It is constructed once at startup
// and holds the only mutable policy state (rate window, audit log), so
// tests get isolated instances instead of package-level singletons.
type Gateway struct {
	limiter   *ratelimit.Limiter
	validator *sqlguard.Validator
	privacy   *privacy.Auditor
	auditLog  *audit.Log
	policy    config.PolicyConfig
	now       domain.Clock
	logger    *slog.Logger
}

// New wires a Gateway from its policy components.
func New(policy config.PolicyConfig, limiter *ratelimit.Limiter, validator *sqlguard.Validator, auditor *privacy.Auditor, auditLog *audit.Log, clock domain.Clock, logger *slog.Logger) *Gateway {
	if clock == nil {
		clock = time.Now
	}
	return &Gateway{
		limiter:   limiter,
		validator: validator,
		privacy:   auditor,
		auditLog:  auditLog,
		policy:    policy,
		now:       clock,
		logger:    logger.With("component", "gateway"),
	}
}

// Enforce runs the ordered admission pipeline over one query submission:
//
//  1. rate-limit check (fail closed)
//  2. access-window compliance (soft-fail: logged, never vetoes)
//  3. statement validation including the re-identification detector
//     (fail closed)
//  4. on success, record the submission against the rate window
//
// The caller consuming the decision writes exactly one audit entry per
// invocation, whatever the outcome.
func (g *Gateway) Enforce(sql string) domain.Decision {
	if ok, reason := g.limiter.Check(); !ok {
		return domain.Deny(reason, nil)
	}

	if !g.policy.WithinAccessWindow(g.now()) {
		g.logger.Warn("query submitted outside the configured access window",
			"window_start", g.policy.AccessWindowStart,
			"window_end", g.policy.AccessWindowEnd)
	}

	decision := g.validator.Validate(sql)
	if !decision.Allowed {
		return decision
	}

	g.limiter.Record()
	return decision
}

// CheckResult applies the result privacy policy after execution, before
// release to the caller.
func (g *Gateway) CheckResult(result *domain.Result, sql string) (bool, string) {
	return g.privacy.Check(result, sql)
}

// AuditLog exposes the shared audit log for the call site that records
// terminal outcomes.
func (g *Gateway) AuditLog() *audit.Log {
	return g.auditLog
}

// AuditSummary returns aggregate audit counts.
func (g *Gateway) AuditSummary() domain.AuditSummary {
	return g.auditLog.Summary()
}

// Status returns the gateway's current observable state.
func (g *Gateway) Status() Status {
	return Status{
		RateLimiter: g.limiter.Snapshot(),
		Audit:       g.auditLog.Summary(),
		Compliance: ComplianceState{
			WithinAccessWindow: g.policy.WithinAccessWindow(g.now()),
			WindowConfigured:   g.policy.AccessWindowConfigured(),
			WindowStart:        g.policy.AccessWindowStart,
			WindowEnd:          g.policy.AccessWindowEnd,
		},
	}
}
