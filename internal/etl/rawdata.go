package etl

import (
	"sort"
	"strings"

	"github.com/calldeskhq/reportetl/internal/types"
)

// Caps on the supplementary raw-data lists. Dashboards page nothing here,
// so the ETL bounds each view itself.
const (
	rankingSize        = 15
	topSubcampaigns    = 30
	topProductionSubs  = 20
	topCampaignDisps   = 10
	topAgentCampaigns  = 50
	topAnalysis        = 20
	topPausers         = 10
)

// buildRawData assembles the supplementary derived views. Every section
// is independent: a missing source report leaves its section nil and
// never blocks the others.
func buildRawData(in dayInput, agents []types.AgentPerformance) types.RawData {
	raw := types.RawData{
		RowCounts: rowCounts(in),
	}

	raw.TopAgents, raw.BottomAgents = agentRankings(agents)

	if len(in.campaignSummaryRows) > 0 {
		raw.CampaignTotals, raw.CampaignDetail = campaignAggregates(in.campaignSummaryRows)
	}
	if len(in.callsPerHour) > 0 {
		raw.HourlyDistribution = hourlyDistribution(in.callsPerHour)
	}
	if len(in.subcampaigns) > 0 {
		raw.TopSubcampaigns = topSubcampaignRows(in.subcampaigns)
	}
	if len(in.shiftReport) > 0 {
		raw.ShiftDispositions, raw.CampaignDispositions = shiftBreakdowns(in.shiftReport)
	}
	if len(in.productionSubs) > 0 {
		raw.ProductionSubs = productionSubDetail(in.productionSubs)
	}
	if len(in.agentSubs) > 0 {
		raw.AgentCampaigns = agentCampaignAllocation(in.agentSubs)
	}
	if len(in.agentAnalysis) > 0 {
		raw.CampaignAnalysis = campaignAnalysis(in.agentAnalysis)
	}
	if len(in.pauseTime) > 0 {
		raw.Pauses = pauseAnalytics(in.pauseTime)
	}
	if len(in.callLog) > 0 {
		raw.CallLog = callLogSummary(in.callLog)
	}

	return raw
}

// rowCounts manifests how many rows each report type contributed, plus
// their sum, for downstream completeness auditing.
func rowCounts(in dayInput) map[string]int {
	counts := map[string]int{
		"agent_summary_global":   len(in.globalSummary),
		"agent_summary_campaign": len(in.campaignSummary),
		"production":             len(in.production),
		"subcampaigns":           len(in.subcampaigns),
		"shift_report":           len(in.shiftReport),
		"campaign_summary":       len(in.campaignSummaryRows),
		"calls_per_hour":         len(in.callsPerHour),
		"production_subs":        len(in.productionSubs),
		"agent_subcampaigns":     len(in.agentSubs),
		"agent_analysis":         len(in.agentAnalysis),
		"pause_time":             len(in.pauseTime),
		"call_log":               len(in.callLog),
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	counts["total"] = total
	return counts
}

// agentRankings returns the top and bottom qualified agents by TPH.
// Qualification already happened during ranking, so RankTPH is the gate.
func agentRankings(agents []types.AgentPerformance) (top, bottom []types.AgentRanking) {
	var qualified []types.AgentRanking
	for _, a := range agents {
		if a.RankTPH == nil {
			continue
		}
		qualified = append(qualified, types.AgentRanking{
			Agent:            a.Agent,
			TransfersPerHour: a.TransfersPerHour,
			Transferred:      a.Transferred,
			HoursWorked:      a.HoursWorked,
		})
	}
	if len(qualified) == 0 {
		return nil, nil
	}
	sort.Slice(qualified, func(i, j int) bool {
		return qualified[i].TransfersPerHour > qualified[j].TransfersPerHour
	})

	n := len(qualified)
	topN := rankingSize
	if topN > n {
		topN = n
	}
	top = append(top, qualified[:topN]...)

	botN := rankingSize
	if botN > n {
		botN = n
	}
	bottomSlice := qualified[n-botN:]
	// bottom list reads worst-first
	for i := len(bottomSlice) - 1; i >= 0; i-- {
		bottom = append(bottom, bottomSlice[i])
	}
	return top, bottom
}

func campaignAggregates(rows []types.CampaignSummaryRow) (*types.CampaignAggregate, []types.CampaignSummaryRow) {
	agg := &types.CampaignAggregate{Campaigns: len(rows)}
	detail := make([]types.CampaignSummaryRow, len(rows))
	copy(detail, rows)
	for _, row := range rows {
		agg.TotalDialed += row.Dialed
		agg.TotalConnected += row.Connected
		agg.TotalContacted += row.Contacted
		agg.TotalTransferred += row.Transferred
	}
	sort.Slice(detail, func(i, j int) bool {
		return detail[i].Connected > detail[j].Connected
	})
	return agg, detail
}

func hourlyDistribution(rows []types.HourlyRow) []types.HourlyRow {
	var out []types.HourlyRow
	for _, row := range rows {
		if strings.EqualFold(strings.TrimSpace(row.Hour), "TOTAL") || row.Calls == 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

func topSubcampaignRows(rows []types.SubcampaignRow) []types.SubcampaignRow {
	out := make([]types.SubcampaignRow, len(rows))
	copy(out, rows)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Connected > out[j].Connected
	})
	if len(out) > topSubcampaigns {
		out = out[:topSubcampaigns]
	}
	return out
}

// shiftBreakdowns builds system-wide and per-campaign disposition views
// straight from the shift report, independent of the fill-only merge the
// KPI path does.
func shiftBreakdowns(rows []types.ShiftReportRow) (map[string]int, []types.CampaignDispositions) {
	system := make(map[string]int)
	byCampaign := make(map[string]map[string]int)

	for _, row := range rows {
		mergeDispositions(system, row.Dispositions)
		if byCampaign[row.Campaign] == nil {
			byCampaign[row.Campaign] = make(map[string]int)
		}
		mergeDispositions(byCampaign[row.Campaign], row.Dispositions)
	}

	campaigns := make([]types.CampaignDispositions, 0, len(byCampaign))
	for name, disps := range byCampaign {
		total := 0
		for _, c := range disps {
			total += c
		}
		campaigns = append(campaigns, types.CampaignDispositions{
			Campaign:     name,
			Total:        total,
			Dispositions: disps,
		})
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].Total > campaigns[j].Total
	})
	if len(campaigns) > topCampaignDisps {
		campaigns = campaigns[:topCampaignDisps]
	}
	return system, campaigns
}

// productionSubDetail keeps rows with either connects or sales: a
// zero-connect row with positive sales is a carry-over close worth seeing.
func productionSubDetail(rows []types.ProductionSubcampaignRow) []types.ProductionSubcampaignRow {
	var out []types.ProductionSubcampaignRow
	for _, row := range rows {
		if row.Connects > 0 || row.Sales > 0 {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Connects > out[j].Connects
	})
	if len(out) > topProductionSubs {
		out = out[:topProductionSubs]
	}
	return out
}

// agentCampaignAllocation groups agent-subcampaign rows per agent with
// campaign membership kept as a set, not a row count.
func agentCampaignAllocation(rows []types.AgentSubcampaignRow) []types.AgentCampaigns {
	type accum struct {
		campaigns map[string]struct{}
		entry     types.AgentCampaigns
	}
	byAgent := make(map[string]*accum)
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Rep))
		acc, ok := byAgent[key]
		if !ok {
			acc = &accum{
				campaigns: make(map[string]struct{}),
				entry:     types.AgentCampaigns{Agent: row.Rep},
			}
			byAgent[key] = acc
		}
		acc.campaigns[row.Subcampaign] = struct{}{}
		acc.entry.Dialed += row.Dialed
		acc.entry.Connected += row.Connected
		acc.entry.Transferred += row.Transferred
	}

	out := make([]types.AgentCampaigns, 0, len(byAgent))
	for _, acc := range byAgent {
		names := make([]string, 0, len(acc.campaigns))
		for name := range acc.campaigns {
			names = append(names, name)
		}
		sort.Strings(names)
		acc.entry.Campaigns = names
		out = append(out, acc.entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Transferred > out[j].Transferred
	})
	if len(out) > topAgentCampaigns {
		out = out[:topAgentCampaigns]
	}
	return out
}

func campaignAnalysis(rows []types.AgentAnalysisRow) []types.CampaignAnalysis {
	type accum struct {
		agents map[string]struct{}
		entry  types.CampaignAnalysis
	}
	byCampaign := make(map[string]*accum)
	for _, row := range rows {
		acc, ok := byCampaign[row.Campaign]
		if !ok {
			acc = &accum{
				agents: make(map[string]struct{}),
				entry:  types.CampaignAnalysis{Campaign: row.Campaign},
			}
			byCampaign[row.Campaign] = acc
		}
		acc.agents[strings.ToLower(strings.TrimSpace(row.Agent))] = struct{}{}
		acc.entry.Connects += row.Connects
		acc.entry.Transfers += row.Transfers
	}

	out := make([]types.CampaignAnalysis, 0, len(byCampaign))
	for _, acc := range byCampaign {
		acc.entry.Agents = len(acc.agents)
		out = append(out, acc.entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Transfers > out[j].Transfers
	})
	if len(out) > topAnalysis {
		out = out[:topAnalysis]
	}
	return out
}

func pauseAnalytics(rows []types.PauseRow) *types.PauseAnalytics {
	p := &types.PauseAnalytics{
		TotalSessions: len(rows),
		ByBreakCode:   make(map[string]int),
		ByAgent:       make(map[string]float64),
	}
	sessions := make(map[string]int)
	for _, row := range rows {
		minutes := ParseDurationToMinutes(row.TimePaused)
		p.TotalMinutes += minutes
		p.ByBreakCode[row.BreakCode]++
		p.ByAgent[row.Agent] += minutes
		sessions[row.Agent]++
	}
	p.TotalMinutes = Round(p.TotalMinutes, 2)

	pausers := make([]types.AgentPause, 0, len(p.ByAgent))
	for agent, minutes := range p.ByAgent {
		p.ByAgent[agent] = Round(minutes, 2)
		pausers = append(pausers, types.AgentPause{
			Agent:    agent,
			Sessions: sessions[agent],
			Minutes:  Round(minutes, 2),
		})
	}
	sort.Slice(pausers, func(i, j int) bool {
		return pausers[i].Minutes > pausers[j].Minutes
	})
	if len(pausers) > topPausers {
		pausers = pausers[:topPausers]
	}
	p.TopPausers = pausers
	return p
}

func callLogSummary(rows []types.CallLogRow) []types.CallLogRow {
	var out []types.CallLogRow
	for _, row := range rows {
		if row.Calls > 0 {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Calls > out[j].Calls
	})
	return out
}
