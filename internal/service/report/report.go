// Package report provides canned privacy-safe aggregate reports. Each
// report builds SQL that already respects the k-anonymity floor and then
// runs through the same gated pipeline as free-text queries — the canned
// reports get no policy shortcut.
package report

import (
	"context"
	"fmt"

	"omopgate/internal/domain"
)

type queryRunner interface {
	Execute(ctx context.Context, sqlQuery string) (*domain.Result, error)
}

// Service answers canned report requests.
type Service struct {
	runner       queryRunner
	minGroupSize int
	maxRows      int
}

// NewService creates a report Service enforcing the given group-size floor.
func NewService(runner queryRunner, minGroupSize, maxRows int) *Service {
	return &Service{runner: runner, minGroupSize: minGroupSize, maxRows: maxRows}
}

func (s *Service) clampLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, domain.ErrValidation("limit must be positive, got %d", limit)
	}
	if limit > s.maxRows {
		return 0, domain.ErrValidation("limit must be between 1 and %d", s.maxRows)
	}
	return limit, nil
}

// Demographics returns patient counts and mean age grouped by gender.
// Groups under the k-anonymity floor are suppressed in the SQL itself.
func (s *Service) Demographics(ctx context.Context, limit int) (*domain.Result, error) {
	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT gender_concept_id,
       COUNT(*) AS patient_count,
       AVG(EXTRACT(YEAR FROM CURRENT_DATE) - year_of_birth) AS avg_age
FROM person
GROUP BY gender_concept_id
HAVING COUNT(*) >= %d
ORDER BY patient_count DESC
LIMIT %d`, s.minGroupSize, limit)

	return s.runner.Execute(ctx, query)
}

// ConditionPrevalence returns occurrence and patient counts per condition
// concept, suppressing conditions affecting fewer than k patients.
func (s *Service) ConditionPrevalence(ctx context.Context, limit int) (*domain.Result, error) {
	limit, err := s.clampLimit(limit)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT condition_concept_id,
       COUNT(*) AS n_occurrences,
       COUNT(DISTINCT person_id) AS n_patients
FROM condition_occurrence
GROUP BY condition_concept_id
HAVING COUNT(DISTINCT person_id) >= %d
ORDER BY n_patients DESC
LIMIT %d`, s.minGroupSize, limit)

	return s.runner.Execute(ctx, query)
}

// Mortality returns aggregated mortality rates by gender.
func (s *Service) Mortality(ctx context.Context) (*domain.Result, error) {
	query := fmt.Sprintf(`WITH mortality AS (
    SELECT p.person_id,
           p.gender_concept_id,
           CASE WHEN d.person_id IS NOT NULL THEN 1 ELSE 0 END AS died
    FROM person p
    LEFT JOIN death d ON p.person_id = d.person_id
)
SELECT gender_concept_id,
       COUNT(*) AS total_patients,
       SUM(died) AS deaths,
       ROUND(100.0 * SUM(died) / COUNT(*), 2) AS mortality_rate_pct
FROM mortality
GROUP BY gender_concept_id
HAVING COUNT(*) >= %d
ORDER BY total_patients DESC
LIMIT 100`, s.minGroupSize)

	return s.runner.Execute(ctx, query)
}
