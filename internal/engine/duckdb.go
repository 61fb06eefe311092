// Package engine provides the DuckDB-backed query executor for the
// de-identified analytic extract. The store is opened read-only: the
// gateway's write-operation denial is policy, this is belt.
package engine

import (
	"database/sql"
	"fmt"
)

// OpenReadOnly opens the DuckDB file at path with access_mode=read_only.
// An empty path opens an in-memory database (tests, demos).
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := ""
	if path != "" {
		dsn = path + "?access_mode=read_only"
	}
	pool, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := pool.Ping(); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return pool, nil
}
