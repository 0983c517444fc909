package etl

import (
	"regexp"
	"sort"

	"github.com/calldeskhq/reportetl/internal/types"
	"github.com/google/uuid"
)

// Anomaly detection needs a minimum sample before the z-score pass is
// statistically worth running.
const minZScoreSample = 6

// Cap per ratio-based pass so one bad report day doesn't flood the output
const maxRatioFlags = 10

// QA and HR staff log in to the dialer but don't sell; their zero-transfer
// days are expected, not anomalous.
var nonSalesRole = regexp.MustCompile(`(?i)\b(qa|hr)\b`)

// DetectAnomalies runs the four independent detection passes and pools
// the results. Passes never deduplicate across each other: one agent can
// legitimately carry several flags of different types for the same day.
// Detection is read-only over the source rows.
func DetectAnomalies(date string, summary []types.AgentSummaryRow, production []types.ProductionRow, th Thresholds) []types.Anomaly {
	var anomalies []types.Anomaly
	anomalies = append(anomalies, detectZeroTransfers(date, summary, th)...)
	anomalies = append(anomalies, detectHighDeadAir(date, production, th)...)
	anomalies = append(anomalies, detectHighHungUp(date, production, th)...)
	anomalies = append(anomalies, detectLowTPH(date, summary, th)...)
	return anomalies
}

func newAnomaly(date string, typ types.AnomalyType, sev types.AnomalySeverity) types.Anomaly {
	return types.Anomaly{
		ID:       uuid.New().String(),
		Date:     date,
		Type:     typ,
		Severity: sev,
	}
}

func detectZeroTransfers(date string, summary []types.AgentSummaryRow, th Thresholds) []types.Anomaly {
	var out []types.Anomaly
	for _, row := range summary {
		if row.HoursWorked < th.ZeroTransferMinHours || row.Transferred != 0 {
			continue
		}
		if nonSalesRole.MatchString(row.Rep) {
			continue
		}
		a := newAnomaly(date, types.AnomalyZeroTransfers, types.SeverityWarning)
		a.Agent = row.Rep
		a.Metric = "transfers"
		a.Value = 0
		a.Threshold = th.ZeroTransferMinHours
		a.Details = map[string]interface{}{
			"hours_worked": row.HoursWorked,
			"dialed":       row.Dialed,
			"connected":    row.Connected,
		}
		out = append(out, a)
	}
	return out
}

type ratioFlag struct {
	row   types.ProductionRow
	count int
	ratio float64
}

func detectHighDeadAir(date string, production []types.ProductionRow, th Thresholds) []types.Anomaly {
	var flags []ratioFlag
	for _, row := range production {
		if row.Connects < th.MinConnectsAnomaly {
			continue
		}
		count := dispositionCount(row.Dispositions, types.DispDeadAir)
		ratio := Round(SafeDiv(float64(count), float64(row.Connects))*100, 2)
		if ratio >= th.DeadAirRatioWarning {
			flags = append(flags, ratioFlag{row: row, count: count, ratio: ratio})
		}
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].ratio > flags[j].ratio })
	if len(flags) > maxRatioFlags {
		flags = flags[:maxRatioFlags]
	}

	out := make([]types.Anomaly, 0, len(flags))
	for _, f := range flags {
		sev := types.SeverityWarning
		if f.ratio >= th.DeadAirRatioCritical {
			sev = types.SeverityCritical
		}
		a := newAnomaly(date, types.AnomalyHighDeadAir, sev)
		a.Agent = f.row.Agent
		a.Skill = f.row.Skill
		a.Metric = "dead_air_ratio"
		a.Value = f.ratio
		a.Threshold = th.DeadAirRatioWarning
		a.Details = map[string]interface{}{
			"dead_air": f.count,
			"connects": f.row.Connects,
		}
		out = append(out, a)
	}
	return out
}

func detectHighHungUp(date string, production []types.ProductionRow, th Thresholds) []types.Anomaly {
	var flags []ratioFlag
	for _, row := range production {
		if row.Connects < th.MinConnectsAnomaly {
			continue
		}
		count := dispositionCount(row.Dispositions, types.DispHungUpTransfer)
		// a present-but-zero count should never trip the ratio boundary
		if count == 0 {
			continue
		}
		ratio := Round(SafeDiv(float64(count), float64(row.Connects))*100, 2)
		if ratio >= th.HungUpRatioWarning {
			flags = append(flags, ratioFlag{row: row, count: count, ratio: ratio})
		}
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].ratio > flags[j].ratio })
	if len(flags) > maxRatioFlags {
		flags = flags[:maxRatioFlags]
	}

	out := make([]types.Anomaly, 0, len(flags))
	for _, f := range flags {
		sev := types.SeverityWarning
		if f.ratio >= th.HungUpRatioCritical {
			sev = types.SeverityCritical
		}
		a := newAnomaly(date, types.AnomalyHighHungUp, sev)
		a.Agent = f.row.Agent
		a.Skill = f.row.Skill
		a.Metric = "hung_up_ratio"
		a.Value = f.ratio
		a.Threshold = th.HungUpRatioWarning
		a.Details = map[string]interface{}{
			"hung_up_transfers": f.count,
			"connects":          f.row.Connects,
		}
		out = append(out, a)
	}
	return out
}

// detectLowTPH flags statistical low outliers on transfers-per-hour among
// agents past the coaching-hours bar. Skipped outright below
// minZScoreSample agents or when the distribution is degenerate.
func detectLowTPH(date string, summary []types.AgentSummaryRow, th Thresholds) []types.Anomaly {
	type agentTPH struct {
		row types.AgentSummaryRow
		tph float64
	}
	var eligible []agentTPH
	var tphs []float64
	for _, row := range summary {
		if row.HoursWorked < th.MinHoursCoaching {
			continue
		}
		tph := SafeDiv(float64(row.Transferred), row.HoursWorked)
		eligible = append(eligible, agentTPH{row: row, tph: tph})
		tphs = append(tphs, tph)
	}
	if len(eligible) < minZScoreSample {
		return nil
	}

	m := Mean(tphs)
	sd := Std(tphs)
	if sd == 0 {
		return nil
	}

	var out []types.Anomaly
	for _, e := range eligible {
		z := (e.tph - m) / sd
		if z >= -2 {
			continue
		}
		sev := types.SeverityWarning
		if z < -3 {
			sev = types.SeverityCritical
		}
		a := newAnomaly(date, types.AnomalyLowTPH, sev)
		a.Agent = e.row.Rep
		a.Metric = "transfers_per_hour"
		a.Value = Round(e.tph, 2)
		a.Threshold = Round(m-2*sd, 2)
		a.Details = map[string]interface{}{
			"z_score":      Round(z, 2),
			"mean_tph":     Round(m, 2),
			"std_tph":      Round(sd, 2),
			"hours_worked": e.row.HoursWorked,
			"transferred":  e.row.Transferred,
			"sample_size":  len(eligible),
		}
		out = append(out, a)
	}
	return out
}
