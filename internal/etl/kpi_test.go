package etl

import (
	"testing"

	"github.com/calldeskhq/reportetl/internal/types"
)

func TestComputeDailyKPIsSingleAgent(t *testing.T) {
	summary := []types.AgentSummaryRow{
		{Rep: "Jane Doe", Dialed: 100, Connected: 40, Contacted: 20, Transferred: 5, HoursWorked: 8},
	}

	kpis := ComputeDailyKPIs("2026-08-21", summary, nil, DefaultThresholds())

	if kpis.ConnectRate != 40.00 {
		t.Errorf("connect rate = %v, want 40.00", kpis.ConnectRate)
	}
	if kpis.ContactRate != 50.00 {
		t.Errorf("contact rate = %v, want 50.00", kpis.ContactRate)
	}
	if kpis.ConversionRate != 25.00 {
		t.Errorf("conversion rate = %v, want 25.00", kpis.ConversionRate)
	}
	if kpis.TransfersPerHour != 0.63 {
		t.Errorf("transfers per hour = %v, want 0.63", kpis.TransfersPerHour)
	}
	if kpis.DialsPerHour != 12.5 {
		t.Errorf("dials per hour = %v, want 12.5", kpis.DialsPerHour)
	}
}

func TestComputeDailyKPIsNoProduction(t *testing.T) {
	summary := []types.AgentSummaryRow{
		{Rep: "Jane Doe", Dialed: 50, Connected: 20, Contacted: 10, Transferred: 2, HoursWorked: 5},
	}

	kpis := ComputeDailyKPIs("2026-08-21", summary, nil, DefaultThresholds())

	if kpis.DeadAirRatio != 0 || kpis.HungUpRatio != 0 || kpis.WasteRate != 0 || kpis.TransferSuccessRate != 0 {
		t.Errorf("disposition-derived rates should all be 0 without production data, got %v %v %v %v",
			kpis.DeadAirRatio, kpis.HungUpRatio, kpis.WasteRate, kpis.TransferSuccessRate)
	}
	if len(kpis.Dispositions) != 0 {
		t.Errorf("dispositions should be empty, got %v", kpis.Dispositions)
	}
}

func TestComputeDailyKPIsDispositionRates(t *testing.T) {
	summary := []types.AgentSummaryRow{
		{Rep: "Jane Doe", Dialed: 200, Connected: 100, Contacted: 60, Transferred: 20, HoursWorked: 8},
	}
	production := []types.ProductionRow{
		{Agent: "Jane Doe", Skill: "Medicare", Connects: 100, Contacts: 60, Transfers: 20, ManHours: 8,
			Dispositions: map[string]int{"Transfer": 18, "Dead Air": 10, "Hung Up Transfer": 2}},
	}

	kpis := ComputeDailyKPIs("2026-08-21", summary, production, DefaultThresholds())

	if kpis.Dispositions["transfer"] != 18 {
		t.Errorf("transfer disposition = %d, want 18", kpis.Dispositions["transfer"])
	}
	if kpis.DeadAirRatio != 10.00 {
		t.Errorf("dead air ratio = %v, want 10.00", kpis.DeadAirRatio)
	}
	if kpis.HungUpRatio != 2.00 {
		t.Errorf("hung up ratio = %v, want 2.00", kpis.HungUpRatio)
	}
	// transfer success = 18/(18+2) = 90.0
	if kpis.TransferSuccessRate != 90.0 {
		t.Errorf("transfer success rate = %v, want 90.0", kpis.TransferSuccessRate)
	}
	// waste = dead_air(10) + hung_up_transfer(2) = 12 over 100 connects
	if kpis.WasteRate != 12.0 {
		t.Errorf("waste rate = %v, want 12.0", kpis.WasteRate)
	}
}

func TestTPHDistributionQualificationGate(t *testing.T) {
	th := DefaultThresholds()
	th.MinHoursQualified = 4

	summary := []types.AgentSummaryRow{
		{Rep: "A", Transferred: 8, HoursWorked: 8},
		{Rep: "B", Transferred: 4, HoursWorked: 4},
		{Rep: "C", Transferred: 10, HoursWorked: 2}, // below threshold, excluded
	}

	kpis := ComputeDailyKPIs("2026-08-21", summary, nil, th)

	if kpis.Distribution == nil {
		t.Fatal("expected a distribution")
	}
	if kpis.Distribution.Count != 2 {
		t.Errorf("distribution count = %d, want 2", kpis.Distribution.Count)
	}
	// both qualified agents run at exactly 1.0 TPH
	if kpis.Distribution.Mean != 1.00 {
		t.Errorf("distribution mean = %v, want 1.00", kpis.Distribution.Mean)
	}
	if kpis.Distribution.Std != 0 {
		t.Errorf("distribution std = %v, want 0", kpis.Distribution.Std)
	}
}

func TestTPHDistributionAbsentWhenNobodyQualifies(t *testing.T) {
	th := DefaultThresholds()
	th.MinHoursQualified = 6

	summary := []types.AgentSummaryRow{
		{Rep: "A", Transferred: 2, HoursWorked: 3},
	}

	kpis := ComputeDailyKPIs("2026-08-21", summary, nil, th)
	if kpis.Distribution != nil {
		t.Errorf("expected nil distribution, got %+v", kpis.Distribution)
	}
}

func TestTPHDistributionMeanMatchesRoundedMean(t *testing.T) {
	th := DefaultThresholds()
	th.MinHoursQualified = 1

	summary := []types.AgentSummaryRow{
		{Rep: "A", Transferred: 5, HoursWorked: 8},
		{Rep: "B", Transferred: 3, HoursWorked: 7},
		{Rep: "C", Transferred: 9, HoursWorked: 6},
	}

	var tph []float64
	for _, row := range summary {
		tph = append(tph, SafeDiv(float64(row.Transferred), row.HoursWorked))
	}
	want := Round(Mean(tph), 2)

	kpis := ComputeDailyKPIs("2026-08-21", summary, nil, th)
	if kpis.Distribution == nil {
		t.Fatal("expected a distribution")
	}
	if kpis.Distribution.Mean != want {
		t.Errorf("distribution mean = %v, want %v", kpis.Distribution.Mean, want)
	}
}

func TestComputeDailyKPIsPrevDayFieldsNil(t *testing.T) {
	kpis := ComputeDailyKPIs("2026-08-21", []types.AgentSummaryRow{{Rep: "A", HoursWorked: 1}}, nil, DefaultThresholds())
	if kpis.PrevDayTransfers != nil || kpis.PrevDayTPH != nil || kpis.TransferDelta != nil || kpis.TPHDelta != nil {
		t.Error("previous-day comparison fields must start nil")
	}
}
