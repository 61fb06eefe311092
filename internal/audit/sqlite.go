package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"omopgate/internal/domain"
)

// Compile-time check.
var _ domain.AuditSink = (*SQLiteSink)(nil)

// SQLiteSink persists audit entries to SQLite. Persistence is best-effort:
// callers log a sink failure and carry on, they never let it deny a query.
type SQLiteSink struct {
	pool *sql.DB
}

// NewSQLiteSink wraps an already-migrated SQLite pool.
func NewSQLiteSink(pool *sql.DB) *SQLiteSink {
	return &SQLiteSink{pool: pool}
}

// Persist inserts the entries in one transaction.
func (s *SQLiteSink) Persist(ctx context.Context, entries []domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit flush: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_entries
			(id, query_fingerprint, tables_accessed, statement_type, success, error_category, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare audit insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, e := range entries {
		success := 0
		if e.Success {
			success = 1
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.QueryFingerprint, strings.Join(e.TablesAccessed, ","),
			string(e.StatementType), success, e.ErrorCategory, e.DurationMs, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert audit entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}
