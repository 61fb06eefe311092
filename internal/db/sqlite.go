// Package db provides SQLite connectivity and migration support for the
// durable audit sink.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

// SQLite DSN parameters for production hardening.
const (
	defaultBusyTimeout = "5000" // 5 seconds
	defaultSynchronous = "NORMAL"
	defaultJournalMode = "WAL"
)

// OpenSQLite opens a single-writer *sql.DB pool for the given SQLite file.
// The audit sink is append-only from one flusher, so one connection is all
// it ever needs.
func OpenSQLite(path string) (*sql.DB, error) {
	q := url.Values{}
	q.Set("_busy_timeout", defaultBusyTimeout)
	q.Set("_journal_mode", defaultJournalMode)
	q.Set("_synchronous", defaultSynchronous)
	q.Set("_foreign_keys", "on")
	q.Set("_txlock", "immediate")
	dsn := fmt.Sprintf("file:%s?%s", path, q.Encode())

	pool, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pool.SetMaxOpenConns(1)
	pool.SetMaxIdleConns(1)
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return pool, nil
}
