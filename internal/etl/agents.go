package etl

import (
	"sort"
	"strings"

	"github.com/calldeskhq/reportetl/internal/types"
)

// ComputeAgentPerformance produces one performance record per summary row.
// Rows are not deduplicated: if an agent name appears twice in the input,
// two records come out — disambiguation belongs upstream.
//
// Production rows are joined by lower-cased agent name. This silently
// merges distinct agents who share a display name; known limitation of
// the source reports, which carry no agent IDs.
func ComputeAgentPerformance(date string, summary []types.AgentSummaryRow, production []types.ProductionRow, th Thresholds) []types.AgentPerformance {
	prodByAgent := make(map[string][]types.ProductionRow)
	for _, row := range production {
		key := strings.ToLower(strings.TrimSpace(row.Agent))
		prodByAgent[key] = append(prodByAgent[key], row)
	}

	perf := make([]types.AgentPerformance, 0, len(summary))
	for _, row := range summary {
		p := types.AgentPerformance{
			Date:         date,
			Agent:        row.Rep,
			HoursWorked:  row.HoursWorked,
			Dialed:       row.Dialed,
			Connected:    row.Connected,
			Contacted:    row.Contacted,
			Transferred:  row.Transferred,
			Dispositions: make(map[string]int),
		}

		matches := prodByAgent[strings.ToLower(strings.TrimSpace(row.Rep))]
		for i, prod := range matches {
			if i == 0 {
				// first-seen skill wins when an agent worked several
				p.Skill = prod.Skill
			}
			mergeDispositions(p.Dispositions, prod.Dispositions)
		}
		p.DeadAir = p.Dispositions[types.DispDeadAir]

		p.TransfersPerHour = Round(SafeDiv(float64(row.Transferred), row.HoursWorked), 2)
		p.ConnectsPerHour = row.CallsPerHr
		p.ConnectRate = Round(SafeDiv(float64(row.Connected), float64(row.Dialed))*100, 2)
		p.ConversionRate = Round(SafeDiv(float64(row.Transferred), float64(row.Contacted))*100, 2)
		p.DeadAirRatio = Round(SafeDiv(float64(p.DeadAir), float64(row.Connected))*100, 2)

		perf = append(perf, p)
	}

	rankAgents(perf, th)
	return perf
}

// rankAgents assigns three independent 1-based rank orderings over the
// qualified subset. Agents below the hours threshold keep nil ranks.
func rankAgents(perf []types.AgentPerformance, th Thresholds) {
	var qualified []int
	for i := range perf {
		if perf[i].HoursWorked >= th.MinHoursQualified {
			qualified = append(qualified, i)
		}
	}

	assign := func(less func(a, b int) bool, set func(p *types.AgentPerformance, rank int)) {
		order := make([]int, len(qualified))
		copy(order, qualified)
		sort.SliceStable(order, func(x, y int) bool {
			return less(order[x], order[y])
		})
		for pos, idx := range order {
			rank := pos + 1
			set(&perf[idx], rank)
		}
	}

	assign(func(a, b int) bool {
		return perf[a].TransfersPerHour > perf[b].TransfersPerHour
	}, func(p *types.AgentPerformance, rank int) {
		r := rank
		p.RankTPH = &r
	})

	assign(func(a, b int) bool {
		return perf[a].ConversionRate > perf[b].ConversionRate
	}, func(p *types.AgentPerformance, rank int) {
		r := rank
		p.RankConversion = &r
	})

	assign(func(a, b int) bool {
		return perf[a].Dialed > perf[b].Dialed
	}, func(p *types.AgentPerformance, rank int) {
		r := rank
		p.RankVolume = &r
	})
}
