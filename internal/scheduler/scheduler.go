// Package scheduler runs periodic portfolio jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// jobTimeout bounds a single job run.
const jobTimeout = 2 * time.Minute

// SnapshotRecorder records the current portfolio valuation.
type SnapshotRecorder interface {
	RecordSnapshot(ctx context.Context) (model.PortfolioSnapshot, error)
}

// Scheduler wraps a cron runner with the portfolio jobs registered on it.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a Scheduler that records a portfolio snapshot on the given
// standard five-field cron schedule. Jobs run in UTC.
func New(schedule string, recorder SnapshotRecorder, log zerolog.Logger) (*Scheduler, error) {
	cronLog := cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	s := &Scheduler{cron: c, log: log}
	if _, err := c.AddFunc(schedule, func() { s.recordSnapshot(recorder) }); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.log.Info().Time("next_run", e.Next).Msg("scheduler started")
	}
}

// Stop halts the scheduler and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) recordSnapshot(recorder SnapshotRecorder) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	snapshot, err := recorder.RecordSnapshot(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled snapshot failed")
		return
	}
	s.log.Info().
		Str("date", snapshot.Date.Format(model.DateLayout)).
		Float64("total_value", snapshot.TotalValue).
		Int("holdings", snapshot.HoldingsCount).
		Msg("scheduled snapshot recorded")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
