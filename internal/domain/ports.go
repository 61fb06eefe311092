package domain

import (
	"context"
	"time"
)

// QueryExecutor is the opaque submit(sql) capability over the read-only
// data store. The gateway treats it as fallible and potentially slow; its
// failures are caught, sanitized, and logged, never surfaced raw.
type QueryExecutor interface {
	Submit(ctx context.Context, sql string) (*Result, error)
}

// AuditSink receives audit entries for optional durable persistence.
// Persistence is best-effort: a sink failure is logged, never escalated
// to deny a request.
type AuditSink interface {
	Persist(ctx context.Context, entries []AuditEntry) error
}

// Clock abstracts now() so rate-window behavior is testable.
type Clock func() time.Time
