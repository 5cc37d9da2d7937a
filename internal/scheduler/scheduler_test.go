package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

type fakeRecorder struct {
	mu    sync.Mutex
	calls int
	err   error
	panic bool
}

func (f *fakeRecorder) RecordSnapshot(_ context.Context) (model.PortfolioSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panic {
		panic("boom")
	}
	return model.PortfolioSnapshot{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), TotalValue: 26887.1, HoldingsCount: 5}, f.err
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNew(t *testing.T) {
	t.Run("accepts a weekday schedule", func(t *testing.T) {
		s, err := New("0 22 * * 1-5", &fakeRecorder{}, zerolog.Nop())
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}
		if len(s.cron.Entries()) != 1 {
			t.Errorf("Expected 1 registered job, got %d", len(s.cron.Entries()))
		}
	})

	t.Run("rejects malformed schedule", func(t *testing.T) {
		_, err := New("every evening", &fakeRecorder{}, zerolog.Nop())
		if err == nil {
			t.Fatal("Expected error for malformed schedule")
		}
		if !strings.Contains(err.Error(), "every evening") {
			t.Errorf("Expected error to name the schedule, got %v", err)
		}
	})
}

func TestScheduler_RecordSnapshot(t *testing.T) {
	t.Run("logs the recorded snapshot", func(t *testing.T) {
		var buf bytes.Buffer
		rec := &fakeRecorder{}
		s, err := New("@every 1h", rec, zerolog.New(&buf))
		if err != nil {
			t.Fatalf("New() returned unexpected error: %v", err)
		}

		s.recordSnapshot(rec)

		if rec.count() != 1 {
			t.Errorf("Expected 1 call, got %d", rec.count())
		}
		if !strings.Contains(buf.String(), `"total_value":26887.1`) {
			t.Errorf("Expected total value in log, got %s", buf.String())
		}
	})

	t.Run("logs failures", func(t *testing.T) {
		var buf bytes.Buffer
		rec := &fakeRecorder{err: errors.New("database is locked")}
		s, _ := New("@every 1h", rec, zerolog.New(&buf)) //nolint:errcheck

		s.recordSnapshot(rec)

		if !strings.Contains(buf.String(), "scheduled snapshot failed") {
			t.Errorf("Expected failure log, got %s", buf.String())
		}
	})
}

func TestScheduler_StartStop(t *testing.T) {
	rec := &fakeRecorder{}
	s, err := New("@every 1s", rec, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(5 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if rec.count() == 0 {
		t.Error("Expected the job to run at least once")
	}
}

func TestScheduler_RecoversPanics(t *testing.T) {
	rec := &fakeRecorder{panic: true}
	s, err := New("@every 1s", rec, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() returned unexpected error: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(5 * time.Second)
	for rec.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	if rec.count() < 2 {
		t.Errorf("Expected the job to keep running after a panic, got %d runs", rec.count())
	}
}
