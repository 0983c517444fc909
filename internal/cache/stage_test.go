package cache

import (
	"testing"

	"github.com/calldeskhq/reportetl/internal/types"
)

func TestPayloadStageAddDrain(t *testing.T) {
	stage := NewPayloadStage()

	stage.Add(types.ReportPayload{Date: "2026-08-20"})
	stage.Add(types.ReportPayload{Date: "2026-08-21"})
	stage.Add(types.ReportPayload{Date: "2026-08-21"})

	if stage.Size() != 3 {
		t.Errorf("size = %d, want 3", stage.Size())
	}

	dates := stage.Dates()
	if len(dates) != 2 || dates[0] != "2026-08-20" || dates[1] != "2026-08-21" {
		t.Errorf("dates = %v, want ascending two dates", dates)
	}

	drained := stage.Drain("2026-08-21")
	if len(drained) != 2 {
		t.Errorf("drained %d payloads, want 2", len(drained))
	}

	// drain is destructive
	if stage.Size() != 1 {
		t.Errorf("size after drain = %d, want 1", stage.Size())
	}
	if again := stage.Drain("2026-08-21"); len(again) != 0 {
		t.Errorf("second drain returned %d payloads, want 0", len(again))
	}
}

func TestResultCache(t *testing.T) {
	c := NewResultCache()

	if c.Latest() != nil {
		t.Error("empty cache should have no latest result")
	}

	c.Put(&types.ETLResult{Date: "2026-08-20", RunID: "run-1"})
	c.Put(&types.ETLResult{Date: "2026-08-21", RunID: "run-2"})

	if got := c.Get("2026-08-20"); got == nil || got.RunID != "run-1" {
		t.Errorf("Get(2026-08-20) = %+v, want run-1", got)
	}
	if got := c.Latest(); got == nil || got.Date != "2026-08-21" {
		t.Errorf("Latest() = %+v, want 2026-08-21", got)
	}

	// reprocessing a day replaces the earlier run
	c.Put(&types.ETLResult{Date: "2026-08-20", RunID: "run-3"})
	if got := c.Get("2026-08-20"); got.RunID != "run-3" {
		t.Errorf("Get after replace = %s, want run-3", got.RunID)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}
