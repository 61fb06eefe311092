package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omopgate/internal/audit"
	"omopgate/internal/domain"
)

// memorySink captures persisted batches, optionally failing.
type memorySink struct {
	persisted [][]domain.AuditEntry
	err       error
}

func (m *memorySink) Persist(_ context.Context, entries []domain.AuditEntry) error {
	if m.err != nil {
		return m.err
	}
	m.persisted = append(m.persisted, entries)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFlush_PersistsPending(t *testing.T) {
	log := audit.NewLog(100)
	log.Append(domain.AuditEntry{ID: "a"})
	log.Append(domain.AuditEntry{ID: "b"})
	sink := &memorySink{}

	f := NewFlusher(log, sink, "@every 1m", discardLogger())
	f.Flush()

	require.Len(t, sink.persisted, 1)
	assert.Len(t, sink.persisted[0], 2)
	assert.Empty(t, log.DrainPending(), "flushed entries must leave the pending queue")
}

func TestFlush_NothingPending(t *testing.T) {
	sink := &memorySink{}
	f := NewFlusher(audit.NewLog(100), sink, "@every 1m", discardLogger())
	f.Flush()
	assert.Empty(t, sink.persisted)
}

func TestFlush_RequeuesOnFailure(t *testing.T) {
	log := audit.NewLog(100)
	log.Append(domain.AuditEntry{ID: "a"})
	sink := &memorySink{err: errors.New("database locked")}

	f := NewFlusher(log, sink, "@every 1m", discardLogger())
	f.Flush()

	// The failed batch is back in the queue and a recovered sink gets it.
	sink.err = nil
	f.Flush()
	require.Len(t, sink.persisted, 1)
	assert.Equal(t, "a", sink.persisted[0][0].ID)
}

func TestFlusher_StartStop(t *testing.T) {
	log := audit.NewLog(100)
	log.Append(domain.AuditEntry{ID: "a"})
	sink := &memorySink{}

	f := NewFlusher(log, sink, "@every 1h", discardLogger())
	require.NoError(t, f.Start())
	f.Stop()

	// Stop performs a final flush.
	require.Len(t, sink.persisted, 1)
}

func TestFlusher_BadSchedule(t *testing.T) {
	f := NewFlusher(audit.NewLog(100), &memorySink{}, "not a schedule", discardLogger())
	assert.Error(t, f.Start())
}
