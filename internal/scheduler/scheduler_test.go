package scheduler

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/etl"
	"github.com/calldeskhq/reportetl/internal/runner"
	"github.com/calldeskhq/reportetl/internal/storage"
	"github.com/calldeskhq/reportetl/internal/types"
	"github.com/calldeskhq/reportetl/internal/websocket"
)

func newTestScheduler(interval time.Duration) (*Scheduler, *cache.PayloadStage, *cache.ResultCache) {
	logger := zerolog.New(&bytes.Buffer{})
	stage := cache.NewPayloadStage()
	results := cache.NewResultCache()
	hub := websocket.NewHub(logger)
	go hub.Run()

	run := runner.NewRunner(stage, results, storage.NewNoopStore(), hub, etl.DefaultThresholds(), logger)
	return NewScheduler(stage, run, interval, logger), stage, results
}

func TestNewScheduler(t *testing.T) {
	s, stage, _ := newTestScheduler(time.Second)

	if s == nil {
		t.Fatal("expected scheduler to be created")
	}
	if s.stage != stage {
		t.Error("scheduler stage not set correctly")
	}
	if s.interval != time.Second {
		t.Errorf("expected interval 1s, got %v", s.interval)
	}
}

func TestSchedulerProcessesStagedDates(t *testing.T) {
	s, stage, results := newTestScheduler(50 * time.Millisecond)

	stage.Add(types.ReportPayload{
		Date:              "2026-08-28",
		AgentSummaryScope: types.ScopeGlobal,
		AgentSummary: []types.AgentSummaryRow{
			{Rep: "Jane Doe", HoursWorked: 8, Dialed: 100, Connected: 40, Transferred: 5},
		},
	})
	stage.Add(types.ReportPayload{
		Date:              "2026-08-29",
		AgentSummaryScope: types.ScopeGlobal,
		AgentSummary: []types.AgentSummaryRow{
			{Rep: "John Smith", HoursWorked: 6, Dialed: 80, Connected: 30, Transferred: 3},
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan bool)
	go func() {
		s.Start(ctx)
		done <- true
	}()
	<-done

	if stage.Size() != 0 {
		t.Errorf("expected stage drained, got %d payloads", stage.Size())
	}
	if results.Get("2026-08-28") == nil {
		t.Error("expected 2026-08-28 to be processed")
	}
	if results.Get("2026-08-29") == nil {
		t.Error("expected 2026-08-29 to be processed")
	}
}

func TestSchedulerFailedDateDoesNotStopSweep(t *testing.T) {
	s, stage, results := newTestScheduler(50 * time.Millisecond)

	// First date has nothing computable, second is fine
	stage.Add(types.ReportPayload{
		Date:      "2026-08-28",
		PauseTime: []types.PauseRow{{Agent: "Jane Doe", BreakCode: "Lunch", TimePaused: "00:30:00"}},
	})
	stage.Add(types.ReportPayload{
		Date:              "2026-08-29",
		AgentSummaryScope: types.ScopeGlobal,
		AgentSummary: []types.AgentSummaryRow{
			{Rep: "John Smith", HoursWorked: 6, Dialed: 80, Connected: 30, Transferred: 3},
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan bool)
	go func() {
		s.Start(ctx)
		done <- true
	}()
	<-done

	if results.Get("2026-08-29") == nil {
		t.Error("expected 2026-08-29 to be processed despite earlier failure")
	}
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	s, _, _ := newTestScheduler(100 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool)
	go func() {
		s.Start(ctx)
		done <- true
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("scheduler did not stop within timeout after context cancel")
	}
}
