// Package query composes the admission gateway, the data executor, and the
// result privacy auditor into the synchronous per-call pipeline.
package query

import (
	"context"
	"log/slog"
	"time"

	"omopgate/internal/audit"
	"omopgate/internal/domain"
	"omopgate/internal/gateway"
)

// Service runs one query submission end to end: enforce, execute, audit.
//
// Every call writes exactly one audit entry at its terminal outcome —
// blocked, errored, or succeeded.
type Service struct {
	gateway  *gateway.Gateway
	executor domain.QueryExecutor
	logger   *slog.Logger
}

// NewService creates the query pipeline service.
func NewService(gw *gateway.Gateway, executor domain.QueryExecutor, logger *slog.Logger) *Service {
	return &Service{gateway: gw, executor: executor, logger: logger.With("component", "query")}
}

// Execute runs the full pipeline for one submitted query.
//
// Error taxonomy: a policy veto returns *domain.PolicyViolationError; an
// executor fault returns *domain.ExecutorFailureError carrying only the
// sanitized message. Nothing here is fatal to the host process.
func (s *Service) Execute(ctx context.Context, sqlQuery string) (*domain.Result, error) {
	start := time.Now()

	decision := s.gateway.Enforce(sqlQuery)
	if !decision.Allowed {
		s.record(sqlQuery, decision.Tables, domain.StmtBlocked, false, decision.Reason, start)
		return nil, domain.ErrPolicy(domain.ViolationGeneral, "%s", decision.Reason)
	}

	result, err := s.executor.Submit(ctx, sqlQuery)
	if err != nil {
		// The raw executor error is sanitized before it is surfaced or
		// stored; the original message is discarded.
		sanitized := audit.SanitizeForUser(err.Error())
		s.record(sqlQuery, decision.Tables, decision.StatementType, false, sanitized, start)
		return nil, domain.ErrExecutor(sanitized)
	}

	if ok, reason := s.gateway.CheckResult(result, sqlQuery); !ok {
		s.record(sqlQuery, decision.Tables, decision.StatementType, false, reason, start)
		return nil, domain.ErrPolicy(domain.ViolationResultPrivacy, "%s", reason)
	}

	s.record(sqlQuery, decision.Tables, decision.StatementType, true, "", start)

	if result.RowCount > 0 && result.RowCount < 10 {
		s.logger.Debug("small result set released", "rows", result.RowCount,
			"note", "limited statistical significance")
	}

	return result, nil
}

// record writes the single audit entry for one terminal pipeline outcome.
func (s *Service) record(sqlQuery string, tables []string, stmtType domain.StatementType, success bool, errText string, start time.Time) {
	entry := audit.NewEntry(sqlQuery, tables, stmtType, success, errText, time.Since(start))
	s.gateway.AuditLog().Append(entry)
}
