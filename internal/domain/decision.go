package domain

// StatementType is the coarse lexical classification of a query's verb.
// There is deliberately no semantic parse behind it.
type StatementType string

// Statement classifications.
const (
	StmtSelect StatementType = "SELECT"
	// StmtIndeterminate marks syntactically ambiguous but non-destructive
	// text. Indeterminate statements still pass through every later check.
	StmtIndeterminate StatementType = "INDETERMINATE"
	StmtBlocked       StatementType = "BLOCKED"
)

// Decision is the outcome of one admission check. It is derived per call
// and never persisted beyond its audit entry.
type Decision struct {
	Allowed bool
	Reason  string
	// Tables referenced by the query, best-effort lexical extraction.
	// Audit use only — extraction failure degrades to an empty list.
	Tables        []string
	StatementType StatementType
}

// Allow returns an allowing decision.
func Allow(reason string, stmtType StatementType, tables []string) Decision {
	return Decision{Allowed: true, Reason: reason, StatementType: stmtType, Tables: tables}
}

// Deny returns a vetoing decision.
func Deny(reason string, tables []string) Decision {
	return Decision{Allowed: false, Reason: reason, StatementType: StmtBlocked, Tables: tables}
}
