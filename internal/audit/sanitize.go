package audit

import "regexp"

// Redaction applied before anything touches the log or the caller:
// long numeric runs look like identifiers, quoted text looks like
// predicate values, and paths leak deployment layout.
var (
	numericIDRe  = regexp.MustCompile(`\b\d{5,}\b`)
	quotedRe     = regexp.MustCompile(`'[^']*'`)
	longQuotedRe = regexp.MustCompile(`'[^']{10,}'`)
	pathRe       = regexp.MustCompile(`/[^\s]+`)
)

const maxErrorLen = 200

// SanitizeError reduces an error message to a storable category: numeric
// tokens of five or more digits and quoted literals are replaced with
// redaction markers and the result is truncated.
func SanitizeError(msg string) string {
	if msg == "" {
		return ""
	}
	s := numericIDRe.ReplaceAllString(msg, "[ID_REDACTED]")
	s = quotedRe.ReplaceAllString(s, "[VALUE_REDACTED]")
	if len(s) > maxErrorLen {
		s = s[:maxErrorLen]
	}
	return s
}

// SanitizeForUser scrubs an executor error before it is surfaced to the
// caller: identifiers, long quoted values, and filesystem paths go.
func SanitizeForUser(msg string) string {
	s := numericIDRe.ReplaceAllString(msg, "[REDACTED]")
	s = longQuotedRe.ReplaceAllString(s, "'[VALUE_REDACTED]'")
	s = pathRe.ReplaceAllString(s, "[PATH_REDACTED]")
	return s
}
