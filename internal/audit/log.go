// Package audit provides the privacy-preserving admission audit log.
//
// The log stores query metadata only, never query text, predicate values,
// or result data. Entries are immutable once appended and are purged only
// by capacity eviction, oldest first.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"omopgate/internal/domain"
)

// fingerprintLen is the retained prefix of the hex SHA-256 digest. Long
// enough to deduplicate, far too short to invert.
const fingerprintLen = 16

// Log is a bounded, append-only, mutex-guarded audit log.
type Log struct {
	mu       sync.Mutex
	capacity int
	entries  []domain.AuditEntry
	pending  []domain.AuditEntry // appended but not yet durably flushed
}

// NewLog creates a Log retaining at most capacity entries.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Log{capacity: capacity}
}

// Fingerprint returns the 16-character truncated SHA-256 digest of the
// query text.
func Fingerprint(sql string) string {
	sum := sha256.Sum256([]byte(sql))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// NewEntry builds an audit entry from one terminal pipeline outcome.
// The raw SQL is reduced to its fingerprint and the error to a sanitized
// category before anything is stored.
func NewEntry(sql string, tables []string, stmtType domain.StatementType, success bool, errText string, duration time.Duration) domain.AuditEntry {
	return domain.AuditEntry{
		ID:               uuid.NewString(),
		QueryFingerprint: Fingerprint(sql),
		TablesAccessed:   append([]string(nil), tables...),
		StatementType:    stmtType,
		Success:          success,
		ErrorCategory:    SanitizeError(errText),
		DurationMs:       duration.Milliseconds(),
		CreatedAt:        time.Now().UTC(),
	}
}

// Append stores the entry, evicting the oldest entries once capacity is
// exceeded.
func (l *Log) Append(entry domain.AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}

	l.pending = append(l.pending, entry)
	if len(l.pending) > l.capacity {
		l.pending = l.pending[len(l.pending)-l.capacity:]
	}
}

// Summary returns aggregate counts only: no entry ever leaves this package
// through Summary.
func (l *Log) Summary() domain.AuditSummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := domain.AuditSummary{TotalQueries: len(l.entries)}
	tables := make(map[string]struct{})
	for _, e := range l.entries {
		if e.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		for _, t := range e.TablesAccessed {
			tables[t] = struct{}{}
		}
	}
	for t := range tables {
		summary.TablesQueried = append(summary.TablesQueried, t)
	}
	sort.Strings(summary.TablesQueried)
	return summary
}

// Entries returns a copy of the retained entries, oldest first.
func (l *Log) Entries() []domain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.AuditEntry(nil), l.entries...)
}

// DrainPending removes and returns entries awaiting durable persistence.
// The caller owns flushing; on failure it may Requeue them.
func (l *Log) DrainPending() []domain.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	drained := l.pending
	l.pending = nil
	return drained
}

// Requeue puts unflushed entries back at the head of the pending queue,
// still bounded by capacity.
func (l *Log) Requeue(entries []domain.AuditEntry) {
	if len(entries) == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(append([]domain.AuditEntry(nil), entries...), l.pending...)
	if len(l.pending) > l.capacity {
		l.pending = l.pending[:l.capacity]
	}
}
