package sqlguard

import "regexp"

// injectionSignature pairs a compiled pattern with a user-facing
// description. The table is fixed: signatures are curated, not
// configurable, so a misconfigured deployment cannot silently disarm them.
type injectionSignature struct {
	pattern     *regexp.Regexp
	description string
}

var injectionSignatures = []injectionSignature{
	{regexp.MustCompile(`;\s*--`), "SQL comment injection"},
	{regexp.MustCompile(`;\s*/\*`), "SQL block comment injection"},
	{regexp.MustCompile(`(?i)union\s+(all\s+)?select`), "UNION injection"},
	{regexp.MustCompile(`(?i)'\s*or\s+'?\d+'?\s*=\s*'?\d+'?`), "OR injection"},
	{regexp.MustCompile(`(?i)'\s*and\s+'?\d+'?\s*=\s*'?\d+'?`), "AND injection"},
	{regexp.MustCompile(`(?i)waitfor\s+delay`), "time-based injection"},
	{regexp.MustCompile(`(?i)benchmark\s*\(`), "benchmark injection"},
	{regexp.MustCompile(`(?i)sleep\s*\(`), "sleep injection"},
	{regexp.MustCompile(`(?i)load_file\s*\(`), "file access injection"},
}

// matchInjectionSignature returns the description of the first signature
// matching the raw query text, or "" when none match.
func matchInjectionSignature(raw string) string {
	for _, sig := range injectionSignatures {
		if sig.pattern.MatchString(raw) {
			return sig.description
		}
	}
	return ""
}
