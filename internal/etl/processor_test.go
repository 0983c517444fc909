package etl

import (
	"errors"
	"testing"

	"github.com/calldeskhq/reportetl/internal/types"
)

func TestProcessDayNoParseableData(t *testing.T) {
	payloads := []types.ReportPayload{
		// pause and call-log rows alone are not enough to proceed
		{Date: "2026-08-21", PauseTime: []types.PauseRow{{Agent: "A", BreakCode: "Lunch", TimePaused: "00:30:00"}}},
		{Date: "2026-08-21", CallLog: []types.CallLogRow{{Status: "Busy", Calls: 3}}},
	}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if !errors.Is(err, ErrNoParseableData) {
		t.Fatalf("expected ErrNoParseableData, got %v", err)
	}
	if res != nil {
		t.Error("no result should be produced on the fatal path")
	}
}

func TestProcessDayAnyPrimarySourceSuffices(t *testing.T) {
	tests := []struct {
		name    string
		payload types.ReportPayload
	}{
		{"agent summary", types.ReportPayload{AgentSummary: []types.AgentSummaryRow{{Rep: "A", HoursWorked: 1}}}},
		{"production", types.ReportPayload{Production: []types.ProductionRow{{Agent: "A", Skill: "Medicare", Transfers: 1}}}},
		{"subcampaign", types.ReportPayload{Subcampaigns: []types.SubcampaignRow{{Subcampaign: "S1", Dialed: 10}}}},
		{"campaign summary", types.ReportPayload{CampaignSummary: []types.CampaignSummaryRow{{Campaign: "C1", Dialed: 10}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ProcessDay("2026-08-21", []types.ReportPayload{tt.payload}, DefaultThresholds())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res == nil {
				t.Fatal("expected a result")
			}
		})
	}
}

func TestProcessDayGlobalSummaryWins(t *testing.T) {
	payloads := []types.ReportPayload{
		{
			AgentSummaryScope: types.ScopeCampaign,
			AgentSummary:      []types.AgentSummaryRow{{Rep: "Campaign Only", Dialed: 10, HoursWorked: 2}},
		},
		{
			AgentSummaryScope: types.ScopeGlobal,
			AgentSummary:      []types.AgentSummaryRow{{Rep: "Global A", Dialed: 100, HoursWorked: 8}},
		},
	}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SummarySource != types.ScopeGlobal {
		t.Errorf("summary source = %s, want global", res.SummarySource)
	}
	if res.KPIs.TotalDialed != 100 {
		t.Errorf("total dialed = %d, want 100 (campaign rows must not leak in)", res.KPIs.TotalDialed)
	}
	if len(res.Agents) != 1 || res.Agents[0].Agent != "Global A" {
		t.Errorf("agents built from wrong source: %+v", res.Agents)
	}
}

func TestProcessDayCampaignFallback(t *testing.T) {
	payloads := []types.ReportPayload{
		{
			AgentSummaryScope: types.ScopeCampaign,
			AgentSummary:      []types.AgentSummaryRow{{Rep: "Campaign Only", Dialed: 10, HoursWorked: 2}},
		},
	}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SummarySource != types.ScopeCampaign {
		t.Errorf("summary source = %s, want campaign", res.SummarySource)
	}
}

func TestShiftMergeDisjointKeys(t *testing.T) {
	payloads := []types.ReportPayload{{
		AgentSummary: []types.AgentSummaryRow{{Rep: "A", Connected: 100, HoursWorked: 8}},
		Production: []types.ProductionRow{
			{Agent: "A", Skill: "Medicare", Dispositions: map[string]int{"Transfer": 5}},
		},
		ShiftReport: []types.ShiftReportRow{
			{Campaign: "C1", Dispositions: map[string]int{"Voicemail": 12}},
		},
	}}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// disjoint keys: union with counts unchanged
	if res.KPIs.Dispositions["transfer"] != 5 {
		t.Errorf("transfer = %d, want 5", res.KPIs.Dispositions["transfer"])
	}
	if res.KPIs.Dispositions["voicemail"] != 12 {
		t.Errorf("voicemail = %d, want 12", res.KPIs.Dispositions["voicemail"])
	}
}

func TestShiftMergeProductionWinsOnOverlap(t *testing.T) {
	payloads := []types.ReportPayload{{
		AgentSummary: []types.AgentSummaryRow{{Rep: "A", Connected: 100, HoursWorked: 8}},
		Production: []types.ProductionRow{
			{Agent: "A", Skill: "Medicare", Dispositions: map[string]int{"Transfer": 5}},
		},
		ShiftReport: []types.ShiftReportRow{
			{Campaign: "C1", Dispositions: map[string]int{"Transfer": 99}},
		},
	}}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.KPIs.Dispositions["transfer"] != 5 {
		t.Errorf("transfer = %d, want production's 5 on overlap", res.KPIs.Dispositions["transfer"])
	}
}

func TestShiftMergeRecomputesRates(t *testing.T) {
	payloads := []types.ReportPayload{{
		AgentSummary: []types.AgentSummaryRow{{Rep: "A", Connected: 100, HoursWorked: 8}},
		Production: []types.ProductionRow{
			{Agent: "A", Skill: "Medicare", Dispositions: map[string]int{"Transfer": 5}},
		},
		ShiftReport: []types.ShiftReportRow{
			{Campaign: "C1", Dispositions: map[string]int{"Dead Air": 10}},
		},
	}}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// dead air arrived only via shift report; the ratio must reflect it
	if res.KPIs.DeadAirRatio != 10.00 {
		t.Errorf("dead air ratio = %v, want 10.00 after merge recompute", res.KPIs.DeadAirRatio)
	}
}

func TestProcessDaySubcampaignFallbackKPIs(t *testing.T) {
	payloads := []types.ReportPayload{{
		Subcampaigns: []types.SubcampaignRow{
			{Subcampaign: "S1", Dialed: 100, Connected: 40, Contacted: 20, Transferred: 5},
			{Subcampaign: "S2", Dialed: 100, Connected: 60, Contacted: 30, Transferred: 10},
		},
	}}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	kpis := res.KPIs
	if kpis.TotalDialed != 200 || kpis.TotalConnected != 100 || kpis.TotalTransferred != 15 {
		t.Errorf("totals wrong: %+v", kpis)
	}
	if kpis.ConnectRate != 50.00 {
		t.Errorf("connect rate = %v, want 50.00", kpis.ConnectRate)
	}
	// no agent-level detail on this path
	if kpis.Distribution != nil {
		t.Error("distribution must be absent on the subcampaign path")
	}
	if kpis.DeadAirRatio != 0 || kpis.HungUpRatio != 0 || kpis.WasteRate != 0 || kpis.TransferSuccessRate != 0 {
		t.Error("disposition rates must be zero on the subcampaign path")
	}
	if len(res.Agents) != 0 {
		t.Error("no agent records expected on the subcampaign path")
	}
}

func TestProcessDaySkillsComputedOnFallbackPath(t *testing.T) {
	// production present without any agent summary: skills still computed
	payloads := []types.ReportPayload{{
		Production: []types.ProductionRow{
			{Agent: "A", Skill: "Medicare", Transfers: 3, ManHours: 2},
		},
	}}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Skills) != 1 || res.Skills[0].Skill != "Medicare" {
		t.Errorf("skills = %+v, want Medicare", res.Skills)
	}
}

func TestProcessDayConcatenatesPayloads(t *testing.T) {
	payloads := []types.ReportPayload{
		{AgentSummary: []types.AgentSummaryRow{{Rep: "A", Dialed: 50, HoursWorked: 4}}},
		{AgentSummary: []types.AgentSummaryRow{{Rep: "B", Dialed: 70, HoursWorked: 4}}},
	}

	res, err := ProcessDay("2026-08-21", payloads, DefaultThresholds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.KPIs.TotalDialed != 120 {
		t.Errorf("total dialed = %d, want 120 across payloads", res.KPIs.TotalDialed)
	}
	if len(res.Agents) != 2 {
		t.Errorf("agents = %d, want 2", len(res.Agents))
	}
}
