package sqlguard

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"omopgate/internal/config"
	"omopgate/internal/domain"
)

var (
	forbiddenVerbRe = regexp.MustCompile(`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|REPLACE|MERGE|EXEC|EXECUTE|GRANT|REVOKE)\b`)
	outputRedirect  = regexp.MustCompile(`(?i)\bINTO\s+(OUTFILE|DUMPFILE)\b`)
	limitClauseRe   = regexp.MustCompile(`(?i)\bLIMIT\s+(\d+)`)
)

// Validator vets a single statement against the query policy. It holds only
// compiled patterns and configuration — no per-call state, so identical
// inputs always yield identical decisions and concurrent use is safe.
type Validator struct {
	policy config.PolicyConfig
	logger *slog.Logger

	directIDRe   *regexp.Regexp
	sensitiveRes []*regexp.Regexp
}

// NewValidator compiles the configurable patterns and returns a Validator.
func NewValidator(policy config.PolicyConfig, logger *slog.Logger) *Validator {
	v := &Validator{
		policy: policy,
		logger: logger.With("component", "sqlguard"),
		directIDRe: regexp.MustCompile(
			`(?i)where\s+` + regexp.QuoteMeta(policy.DirectIdentifierColumn) + `\s*=\s*\d+`),
	}
	for _, p := range policy.SensitiveColumnPatterns {
		v.sensitiveRes = append(v.sensitiveRes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)+`\b`))
	}
	return v
}

// Validate runs the ordered, fail-closed admission checks over one query.
// The first failing check terminates. A panic inside any check is recovered
// into a generic denial — the gate never propagates a fault to the caller.
func (v *Validator) Validate(sql string) (decision domain.Decision) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validator internal fault", "panic", fmt.Sprint(r))
			decision = domain.Deny("security validation failed", nil)
		}
	}()

	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return domain.Deny("empty query", nil)
	}

	tokens := tokenize(trimmed)
	statements := splitStatements(tokens)
	switch {
	case len(statements) == 0:
		return domain.Deny("no parseable SQL statement", nil)
	case len(statements) > 1:
		return domain.Deny("multiple statements not allowed (potential SQL injection)", nil)
	}

	stmtType, verb := classifyStatement(statements[0])
	tables := extractTableNames(statements[0])

	if stmtType != domain.StmtSelect && stmtType != domain.StmtIndeterminate {
		return domain.Deny(fmt.Sprintf("only SELECT queries allowed, got %s", stmtType), tables)
	}
	if strings.EqualFold(verb, "PRAGMA") {
		return domain.Deny("PRAGMA statements not allowed", tables)
	}

	if m := forbiddenVerbRe.FindString(trimmed); m != "" {
		return domain.Deny(fmt.Sprintf("write operation not allowed: %s", strings.ToUpper(m)), tables)
	}
	if m := outputRedirect.FindString(trimmed); m != "" {
		return domain.Deny(fmt.Sprintf("output redirection not allowed: %s", strings.ToUpper(m)), tables)
	}

	if desc := matchInjectionSignature(trimmed); desc != "" {
		return domain.Deny(fmt.Sprintf("injection pattern detected: %s", desc), tables)
	}

	if ok, reason := v.checkReidentification(trimmed); !ok {
		return domain.Deny(reason, tables)
	}

	m := limitClauseRe.FindStringSubmatch(trimmed)
	if m == nil {
		return domain.Deny(fmt.Sprintf("query must include a LIMIT clause (max %d rows)",
			v.policy.MaxQueryRows), tables)
	}
	if limit, err := strconv.Atoi(m[1]); err != nil || limit > v.policy.MaxQueryRows {
		return domain.Deny(fmt.Sprintf("LIMIT exceeds maximum allowed (%d)",
			v.policy.MaxQueryRows), tables)
	}

	// Sensitive column references warn but never veto: the data is already
	// de-identified, this is defense in depth.
	for i, re := range v.sensitiveRes {
		if re.MatchString(trimmed) {
			v.logger.Warn("query references potentially sensitive pattern",
				"pattern", v.policy.SensitiveColumnPatterns[i])
		}
	}

	return domain.Allow("query passed security validation", stmtType, tables)
}
