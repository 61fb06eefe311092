package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"omopgate/internal/audit"
	"omopgate/internal/domain"
)

// Flusher periodically drains pending audit entries into the durable sink.
// Flushing is best-effort: a failed batch is logged and requeued, and can
// never deny a request.
type Flusher struct {
	log      *audit.Log
	sink     domain.AuditSink
	schedule string
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewFlusher creates a Flusher on the given cron schedule (e.g. "@every 1m").
func NewFlusher(log *audit.Log, sink domain.AuditSink, schedule string, logger *slog.Logger) *Flusher {
	return &Flusher{
		log:      log,
		sink:     sink,
		schedule: schedule,
		logger:   logger.With("component", "audit-flusher"),
	}
}

// Start schedules the periodic flush.
func (f *Flusher) Start() error {
	f.cron = cron.New()
	if _, err := f.cron.AddFunc(f.schedule, f.Flush); err != nil {
		return fmt.Errorf("schedule audit flush %q: %w", f.schedule, err)
	}
	f.cron.Start()
	return nil
}

// Stop halts the schedule and flushes one final time.
func (f *Flusher) Stop() {
	if f.cron != nil {
		<-f.cron.Stop().Done()
	}
	f.Flush()
}

// Flush drains pending entries and persists them. On failure the batch is
// requeued for the next run.
func (f *Flusher) Flush() {
	entries := f.log.DrainPending()
	if len(entries) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.sink.Persist(ctx, entries); err != nil {
		f.logger.Warn("audit flush failed, requeueing batch", "entries", len(entries), "error", err)
		f.log.Requeue(entries)
		return
	}
	f.logger.Debug("audit entries flushed", "entries", len(entries))
}
