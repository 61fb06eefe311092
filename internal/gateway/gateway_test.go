package gateway

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omopgate/internal/audit"
	"omopgate/internal/config"
	"omopgate/internal/domain"
	"omopgate/internal/privacy"
	"omopgate/internal/ratelimit"
	"omopgate/internal/sqlguard"
)

func newTestGateway(t *testing.T, policy config.PolicyConfig, clock domain.Clock) *Gateway {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := ratelimit.New(policy.MaxQueriesPerHour, policy.MaxQueriesPerMinute, clock)
	validator := sqlguard.NewValidator(policy, logger)
	auditor := privacy.NewAuditor(policy.MinGroupSize, logger)
	auditLog := audit.NewLog(policy.AuditLogCapacity)
	return New(policy, limiter, validator, auditor, auditLog, clock, logger)
}

func TestEnforce_AllowsValidQuery(t *testing.T) {
	g := newTestGateway(t, config.DefaultPolicy(), nil)
	d := g.Enforce("SELECT gender_id, COUNT(*) FROM person GROUP BY 1 LIMIT 100")
	require.True(t, d.Allowed, "reason: %s", d.Reason)
	assert.Equal(t, 1, g.Status().RateLimiter.QueriesInLastHour)
}

func TestEnforce_DeniedQueryNotRecorded(t *testing.T) {
	// A vetoed submission must not consume rate budget.
	g := newTestGateway(t, config.DefaultPolicy(), nil)
	d := g.Enforce("DROP TABLE person")
	require.False(t, d.Allowed)
	assert.Equal(t, 0, g.Status().RateLimiter.QueriesInLastHour)
}

func TestEnforce_RateLimitPrecedesValidation(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.MaxQueriesPerMinute = 1
	g := newTestGateway(t, policy, nil)

	first := g.Enforce("SELECT COUNT(*) FROM person LIMIT 10")
	require.True(t, first.Allowed, "reason: %s", first.Reason)

	// Even a query that would fail validation is answered with the rate
	// limit reason: the limiter runs first.
	second := g.Enforce("DROP TABLE person")
	require.False(t, second.Allowed)
	assert.Contains(t, second.Reason, "rate limit exceeded")
}

func TestEnforce_OutsideAccessWindowStillAllowed(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.AccessWindowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	policy.AccessWindowEnd = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	afterWindow := func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	g := newTestGateway(t, policy, afterWindow)
	d := g.Enforce("SELECT COUNT(*) FROM person LIMIT 10")
	assert.True(t, d.Allowed, "access window breach warns, never vetoes")
}

func TestCheckResult_DelegatesToPrivacyAuditor(t *testing.T) {
	g := newTestGateway(t, config.DefaultPolicy(), nil)
	result := &domain.Result{
		Columns:  []string{"patient_count"},
		Rows:     [][]interface{}{{int64(2)}},
		RowCount: 1,
	}
	ok, reason := g.CheckResult(result, "SELECT COUNT(*) AS patient_count FROM person LIMIT 10")
	require.False(t, ok)
	assert.Contains(t, reason, "smaller than 5")
}

func TestStatus(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.AccessWindowStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	policy.AccessWindowEnd = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	inWindow := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	g := newTestGateway(t, policy, inWindow)
	g.AuditLog().Append(domain.AuditEntry{Success: true, TablesAccessed: []string{"person"}})

	s := g.Status()
	assert.Equal(t, 100, s.RateLimiter.MaxPerHour)
	assert.Equal(t, 1, s.Audit.TotalQueries)
	assert.True(t, s.Compliance.WindowConfigured)
	assert.True(t, s.Compliance.WithinAccessWindow)
}
