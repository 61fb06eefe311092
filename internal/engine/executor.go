package engine

import (
	"context"
	"database/sql"

	"omopgate/internal/domain"
)

// Compile-time check.
var _ domain.QueryExecutor = (*Executor)(nil)

// Executor wraps a *sql.DB to implement domain.QueryExecutor. It performs
// no policy checks of its own — admission is the gateway's job; by the
// time a statement reaches Submit it has already been vetted.
type Executor struct {
	pool *sql.DB
}

// NewExecutor creates an Executor over an opened pool.
func NewExecutor(pool *sql.DB) *Executor {
	return &Executor{pool: pool}
}

// Submit executes the SQL and scans the full result into memory. Result
// size is bounded upstream by the mandatory LIMIT cap.
func (e *Executor) Submit(ctx context.Context, query string) (*domain.Result, error) {
	rows, err := e.pool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return ScanRows(rows)
}

// ScanRows drains *sql.Rows into a domain.Result.
func ScanRows(rows *sql.Rows) (*domain.Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Convert byte slices to strings for JSON serialization
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.Result{
		Columns:  cols,
		Rows:     resultRows,
		RowCount: len(resultRows),
	}, nil
}
