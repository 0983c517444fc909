package etl

import (
	"testing"

	"github.com/calldeskhq/reportetl/internal/types"
)

func TestRawDataRowCounts(t *testing.T) {
	payloads := []types.ReportPayload{{
		AgentSummary: []types.AgentSummaryRow{{Rep: "A", HoursWorked: 4}, {Rep: "B", HoursWorked: 4}},
		Production:   []types.ProductionRow{{Agent: "A", Skill: "Medicare"}},
		CallsPerHour: []types.HourlyRow{{Hour: "9am", Calls: 10}},
	}}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := res.Raw.RowCounts
	if counts["agent_summary_global"] != 2 {
		t.Errorf("agent_summary_global = %d, want 2", counts["agent_summary_global"])
	}
	if counts["production"] != 1 {
		t.Errorf("production = %d, want 1", counts["production"])
	}
	if counts["total"] != 4 {
		t.Errorf("total = %d, want 4", counts["total"])
	}
}

func TestHourlyDistributionSkipsSentinelAndZero(t *testing.T) {
	in := dayInput{callsPerHour: []types.HourlyRow{
		{Hour: "9am", Calls: 12},
		{Hour: "10am", Calls: 0},
		{Hour: "TOTAL", Calls: 12},
	}}

	raw := buildRawData(in, nil)
	if len(raw.HourlyDistribution) != 1 || raw.HourlyDistribution[0].Hour != "9am" {
		t.Errorf("hourly distribution = %+v, want only 9am", raw.HourlyDistribution)
	}
}

func TestAgentRankingsSplitsTopAndBottom(t *testing.T) {
	th := DefaultThresholds()
	th.MinHoursQualified = 1

	var summary []types.AgentSummaryRow
	for i := 0; i < 40; i++ {
		summary = append(summary, types.AgentSummaryRow{
			Rep:         "Agent" + string(rune('A'+i%26)) + string(rune('0'+i/26)),
			Transferred: i,
			HoursWorked: 8,
		})
	}
	agents := ComputeAgentPerformance("2026-08-21", summary, nil, th)

	top, bottom := agentRankings(agents)
	if len(top) != 15 || len(bottom) != 15 {
		t.Fatalf("top/bottom sizes = %d/%d, want 15/15", len(top), len(bottom))
	}
	if top[0].TransfersPerHour < top[14].TransfersPerHour {
		t.Error("top list not descending")
	}
	// bottom list reads worst-first
	if bottom[0].TransfersPerHour > bottom[14].TransfersPerHour {
		t.Error("bottom list not ascending from worst")
	}
	if top[0].TransfersPerHour <= bottom[0].TransfersPerHour {
		t.Error("top should outperform bottom")
	}
}

func TestProductionSubDetailKeepsZeroConnectSales(t *testing.T) {
	in := dayInput{productionSubs: []types.ProductionSubcampaignRow{
		{Subcampaign: "S1", Connects: 10, Sales: 1},
		{Subcampaign: "S2", Connects: 0, Sales: 2}, // carry-over close, keep
		{Subcampaign: "S3", Connects: 0, Sales: 0}, // drop
	}}

	raw := buildRawData(in, nil)
	if len(raw.ProductionSubs) != 2 {
		t.Fatalf("production subs = %d, want 2", len(raw.ProductionSubs))
	}
	if raw.ProductionSubs[0].Subcampaign != "S1" {
		t.Errorf("first sub = %s, want S1 (sorted by connects)", raw.ProductionSubs[0].Subcampaign)
	}
}

func TestAgentCampaignAllocationSetSemantics(t *testing.T) {
	in := dayInput{agentSubs: []types.AgentSubcampaignRow{
		{Rep: "Jane", Subcampaign: "S1", Transferred: 2},
		{Rep: "Jane", Subcampaign: "S1", Transferred: 3}, // same campaign again
		{Rep: "Jane", Subcampaign: "S2", Transferred: 1},
	}}

	raw := buildRawData(in, nil)
	if len(raw.AgentCampaigns) != 1 {
		t.Fatalf("agent campaigns = %d, want 1", len(raw.AgentCampaigns))
	}
	jane := raw.AgentCampaigns[0]
	if len(jane.Campaigns) != 2 {
		t.Errorf("campaign set size = %d, want 2 (membership, not row count)", len(jane.Campaigns))
	}
	if jane.Transferred != 6 {
		t.Errorf("transferred = %d, want 6", jane.Transferred)
	}
}

func TestPauseAnalytics(t *testing.T) {
	in := dayInput{pauseTime: []types.PauseRow{
		{Agent: "Jane", BreakCode: "Lunch", TimePaused: "00:30:00"},
		{Agent: "Jane", BreakCode: "Break", TimePaused: "00:15:00"},
		{Agent: "Bob", BreakCode: "Lunch", TimePaused: "01:00:00"},
		{Agent: "Bob", BreakCode: "Bad", TimePaused: "oops"},
	}}

	raw := buildRawData(in, nil)
	p := raw.Pauses
	if p == nil {
		t.Fatal("expected pause analytics")
	}
	if p.TotalSessions != 4 {
		t.Errorf("sessions = %d, want 4", p.TotalSessions)
	}
	if p.TotalMinutes != 105 {
		t.Errorf("total minutes = %v, want 105 (malformed row contributes 0)", p.TotalMinutes)
	}
	if p.ByBreakCode["Lunch"] != 2 {
		t.Errorf("lunch sessions = %d, want 2", p.ByBreakCode["Lunch"])
	}
	if p.ByAgent["Bob"] != 60 {
		t.Errorf("bob minutes = %v, want 60", p.ByAgent["Bob"])
	}
	if len(p.TopPausers) == 0 || p.TopPausers[0].Agent != "Bob" {
		t.Errorf("top pauser = %+v, want Bob", p.TopPausers)
	}
}

func TestCallLogSummaryFiltersAndSorts(t *testing.T) {
	in := dayInput{callLog: []types.CallLogRow{
		{Status: "Busy", Calls: 3},
		{Status: "No Answer", Calls: 90},
		{Status: "Fax", Calls: 0}, // dropped
	}}

	raw := buildRawData(in, nil)
	if len(raw.CallLog) != 2 {
		t.Fatalf("call log = %d rows, want 2", len(raw.CallLog))
	}
	if raw.CallLog[0].Status != "No Answer" {
		t.Errorf("first row = %s, want No Answer (sorted by calls desc)", raw.CallLog[0].Status)
	}
}

func TestShiftBreakdownsIndependentOfKPIMerge(t *testing.T) {
	in := dayInput{shiftReport: []types.ShiftReportRow{
		{Campaign: "C1", Dispositions: map[string]int{"Transfer": 5, "Dead Air": 2}},
		{Campaign: "C2", Dispositions: map[string]int{"Transfer": 1}},
	}}

	raw := buildRawData(in, nil)
	if raw.ShiftDispositions["transfer"] != 6 {
		t.Errorf("system-wide transfer = %d, want 6", raw.ShiftDispositions["transfer"])
	}
	if len(raw.CampaignDispositions) != 2 {
		t.Fatalf("campaigns = %d, want 2", len(raw.CampaignDispositions))
	}
	if raw.CampaignDispositions[0].Campaign != "C1" {
		t.Errorf("first campaign = %s, want C1 (largest total first)", raw.CampaignDispositions[0].Campaign)
	}
}
