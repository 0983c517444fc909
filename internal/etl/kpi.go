package etl

import (
	"sort"

	"github.com/calldeskhq/reportetl/internal/types"
)

// ComputeDailyKPIs reduces one day's agent-summary rows (required) and
// production rows (optional) into system-wide totals and rates. When no
// production rows exist the disposition map stays empty and every
// disposition-derived rate is 0.
func ComputeDailyKPIs(date string, summary []types.AgentSummaryRow, production []types.ProductionRow, th Thresholds) types.DailyKPIs {
	kpis := types.DailyKPIs{
		Date:         date,
		Dispositions: make(map[string]int),
	}

	for _, row := range summary {
		kpis.TotalDialed += row.Dialed
		kpis.TotalConnected += row.Connected
		kpis.TotalContacted += row.Contacted
		kpis.TotalTransferred += row.Transferred
		kpis.TotalHours += row.HoursWorked
		kpis.TotalTalkMin += row.TalkMin
		kpis.TotalWaitMin += row.WaitMin
		kpis.TotalWrapMin += row.WrapMin
	}

	for _, row := range production {
		mergeDispositions(kpis.Dispositions, row.Dispositions)
	}

	kpis.ConnectRate = Round(SafeDiv(float64(kpis.TotalConnected), float64(kpis.TotalDialed))*100, 2)
	kpis.ContactRate = Round(SafeDiv(float64(kpis.TotalContacted), float64(kpis.TotalConnected))*100, 2)
	kpis.ConversionRate = Round(SafeDiv(float64(kpis.TotalTransferred), float64(kpis.TotalContacted))*100, 2)
	kpis.DialsPerHour = Round(SafeDiv(float64(kpis.TotalDialed), kpis.TotalHours), 1)
	kpis.TransfersPerHour = Round(SafeDiv(float64(kpis.TotalTransferred), kpis.TotalHours), 2)

	RecomputeDispositionRates(&kpis, th)

	kpis.Distribution = computeTPHDistribution(summary, th)

	return kpis
}

// RecomputeDispositionRates rederives every rate that depends on the
// disposition map. Called again by the day processor after shift-report
// dispositions are merged in.
func RecomputeDispositionRates(kpis *types.DailyKPIs, th Thresholds) {
	connects := float64(kpis.TotalConnected)
	deadAir := float64(kpis.Dispositions[types.DispDeadAir])
	hungUp := float64(kpis.Dispositions[types.DispHungUpTransfer])
	transfers := float64(kpis.Dispositions[types.DispTransfer])

	kpis.DeadAirRatio = Round(SafeDiv(deadAir, connects)*100, 2)
	kpis.HungUpRatio = Round(SafeDiv(hungUp, connects)*100, 2)
	kpis.WasteRate = Round(SafeDiv(float64(th.wasteCount(kpis.Dispositions)), connects)*100, 1)
	kpis.TransferSuccessRate = Round(SafeDiv(transfers, transfers+hungUp)*100, 1)
}

// computeTPHDistribution builds the transfers-per-hour spread over agents
// with enough hours to be statistically meaningful. Returns nil (not a
// zero-filled record) when nobody qualifies.
func computeTPHDistribution(summary []types.AgentSummaryRow, th Thresholds) *types.TPHDistribution {
	var tph []float64
	for _, row := range summary {
		if row.HoursWorked >= th.MinHoursQualified {
			tph = append(tph, SafeDiv(float64(row.Transferred), row.HoursWorked))
		}
	}
	if len(tph) == 0 {
		return nil
	}
	sort.Float64s(tph)

	return &types.TPHDistribution{
		Count: len(tph),
		P10:   Round(Quantile(tph, 0.10), 2),
		P25:   Round(Quantile(tph, 0.25), 2),
		P50:   Round(Quantile(tph, 0.50), 2),
		P75:   Round(Quantile(tph, 0.75), 2),
		P90:   Round(Quantile(tph, 0.90), 2),
		Mean:  Round(Mean(tph), 2),
		Std:   Round(Std(tph), 2),
	}
}
