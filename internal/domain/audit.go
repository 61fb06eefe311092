package domain

import "time"

// AuditEntry is one immutable admission-decision record. It never contains
// literal query text, literal predicate values, or result data — only a
// truncated fingerprint and sanitized metadata.
type AuditEntry struct {
	ID string
	// QueryFingerprint is the first 16 hex characters of the SHA-256 of
	// the query text. Enough for deduplication, useless for reconstruction.
	QueryFingerprint string
	TablesAccessed   []string
	StatementType    StatementType
	Success          bool
	// ErrorCategory is the sanitized error text for failed admissions.
	// Empty on success.
	ErrorCategory string
	DurationMs    int64
	CreatedAt     time.Time
}

// AuditSummary holds aggregate counts over the retained audit entries.
type AuditSummary struct {
	TotalQueries  int      `json:"total_queries"`
	Successful    int      `json:"successful"`
	Failed        int      `json:"failed"`
	TablesQueried []string `json:"tables_queried"`
}
