package sqlguard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Re-identification heuristics. All of them are lexical and deliberately
// conservative: a false positive costs one rejected query, a false
// negative can cost a person's anonymity.

var (
	havingCountOneRe   = regexp.MustCompile(`(?i)having\s+count\s*\(\s*\*\s*\)\s*=\s*1\b`)
	havingCountUnderRe = regexp.MustCompile(`(?i)having\s+count\s*\(\s*\*\s*\)\s*<\s*(\d+)`)
	conceptLookupRe    = regexp.MustCompile(`(?i)where\s+.*concept_id\s*=`)
)

// extremalFields are quasi-identifying numeric columns whose extremes
// (oldest patient, youngest patient) can single out an individual.
var extremalFields = []string{"year_of_birth", "age"}

var extremalPatterns = buildExtremalPatterns()

func buildExtremalPatterns() []injectionSignature {
	var patterns []injectionSignature
	for _, field := range extremalFields {
		patterns = append(patterns,
			injectionSignature{
				regexp.MustCompile(`(?i)order\s+by\s+` + field + `\s+(asc|desc)?\s*limit\s+1\b`),
				fmt.Sprintf("extremal %s", field),
			},
			injectionSignature{
				regexp.MustCompile(`(?i)(min|max)\s*\(\s*` + field + `\s*\)`),
				fmt.Sprintf("extreme %s value", field),
			},
		)
	}
	return patterns
}

// checkReidentification runs the risk heuristics over the raw query text.
// It returns (false, reason) on the first hit.
func (v *Validator) checkReidentification(raw string) (bool, string) {
	lower := strings.ToLower(raw)

	// Equality lookup on the direct identifier column.
	if v.directIDRe.MatchString(raw) {
		return false, fmt.Sprintf("direct %s lookup not allowed, use aggregated queries",
			v.policy.DirectIdentifierColumn)
	}

	// Finding records that appear exactly once.
	if havingCountOneRe.MatchString(raw) {
		return false, "queries finding unique records pose re-identification risk"
	}

	// Group-size floor below the k-anonymity threshold.
	if m := havingCountUnderRe.FindStringSubmatch(raw); m != nil {
		if size, err := strconv.Atoi(m[1]); err == nil && size < v.policy.MinGroupSize {
			return false, fmt.Sprintf("minimum group size is %d for privacy protection",
				v.policy.MinGroupSize)
		}
	}

	// Extremal-value searches identify outliers.
	for _, p := range extremalPatterns {
		if p.pattern.MatchString(raw) {
			return false, fmt.Sprintf("query targets %s, potential re-identification risk", p.description)
		}
	}

	// Cross-referencing several quasi-identifiers without aggregation
	// narrows the population toward an individual.
	if v.countQuasiIdentifiers(lower) >= 3 && !hasAggregation(lower) {
		return false, "selecting multiple quasi-identifiers without aggregation poses re-identification risk"
	}

	// Rare-condition lookups are allowed but should aggregate.
	if conceptLookupRe.MatchString(raw) && !hasAggregation(lower) {
		v.logger.Warn("direct concept lookup without aggregation",
			"hint", "consider aggregated queries")
	}

	return true, ""
}

func (v *Validator) countQuasiIdentifiers(lower string) int {
	n := 0
	for _, qi := range v.policy.QuasiIdentifiers {
		if strings.Contains(lower, strings.ToLower(qi)) {
			n++
		}
	}
	return n
}

func hasAggregation(lower string) bool {
	return strings.Contains(lower, "group by") || strings.Contains(lower, "count(")
}
