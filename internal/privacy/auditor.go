// Package privacy checks query results for re-identification risk before
// they are released to the caller. This is defense in depth: a query that
// passed validation can still produce a result that narrows to individuals.
package privacy

import (
	"fmt"
	"log/slog"
	"strings"

	"omopgate/internal/domain"
)

// Auditor inspects result shape only: column names and count-column
// values. Other cell values are never examined or retained.
type Auditor struct {
	minGroupSize int
	logger       *slog.Logger
}

// NewAuditor creates an Auditor enforcing the given minimum group size.
func NewAuditor(minGroupSize int, logger *slog.Logger) *Auditor {
	return &Auditor{minGroupSize: minGroupSize, logger: logger.With("component", "privacy")}
}

// Check decides whether a result may be released. On an internal
// evaluation error it fails OPEN with a logged error — availability over
// strictness, the deliberate asymmetry with the fail-closed validator.
func (a *Auditor) Check(result *domain.Result, sql string) (allowed bool, reason string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("result privacy check fault", "panic", fmt.Sprint(r))
			allowed, reason = true, ""
		}
	}()

	if result.Empty() {
		return true, ""
	}

	// A single row out of a grouped, non-counting query is one individual's
	// group surfacing on its own.
	upper := strings.ToUpper(sql)
	if result.RowCount == 1 &&
		strings.Contains(upper, "GROUP BY") && !strings.Contains(upper, "COUNT") {
		return false, "query returned single record, potential privacy risk"
	}

	// Any count-like column whose minimum falls under the k-anonymity
	// threshold reveals a small cohort.
	for i, col := range result.Columns {
		if !strings.Contains(strings.ToLower(col), "count") {
			continue
		}
		if minVal, ok := columnMin(result.Rows, i); ok && minVal < float64(a.minGroupSize) {
			return false, fmt.Sprintf("results contain groups smaller than %d, suppressed for privacy",
				a.minGroupSize)
		}
	}

	return true, ""
}

// columnMin returns the minimum numeric value in column idx. Non-numeric
// cells are skipped; ok is false when no numeric cell was seen.
func columnMin(rows [][]interface{}, idx int) (float64, bool) {
	var minVal float64
	found := false
	for _, row := range rows {
		if idx >= len(row) {
			continue
		}
		v, ok := asFloat(row[idx])
		if !ok {
			continue
		}
		if !found || v < minVal {
			minVal = v
			found = true
		}
	}
	return minVal, found
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
