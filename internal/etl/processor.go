package etl

import (
	"errors"
	"time"

	"github.com/calldeskhq/reportetl/internal/types"
	"github.com/google/uuid"
)

// ErrNoParseableData is the single fatal condition: all four primary
// report types were empty for the day.
var ErrNoParseableData = errors.New("no parseable data found")

// dayInput is the day's rows after concatenating every uploaded payload
type dayInput struct {
	globalSummary       []types.AgentSummaryRow
	campaignSummary     []types.AgentSummaryRow
	production          []types.ProductionRow
	subcampaigns        []types.SubcampaignRow
	shiftReport         []types.ShiftReportRow
	campaignSummaryRows []types.CampaignSummaryRow
	callsPerHour        []types.HourlyRow
	productionSubs      []types.ProductionSubcampaignRow
	agentSubs           []types.AgentSubcampaignRow
	agentAnalysis       []types.AgentAnalysisRow
	pauseTime           []types.PauseRow
	callLog             []types.CallLogRow
}

func mergePayloads(payloads []types.ReportPayload) dayInput {
	var in dayInput
	for _, p := range payloads {
		if p.AgentSummaryScope == types.ScopeCampaign {
			in.campaignSummary = append(in.campaignSummary, p.AgentSummary...)
		} else {
			in.globalSummary = append(in.globalSummary, p.AgentSummary...)
		}
		in.production = append(in.production, p.Production...)
		in.subcampaigns = append(in.subcampaigns, p.Subcampaigns...)
		in.shiftReport = append(in.shiftReport, p.ShiftReport...)
		in.campaignSummaryRows = append(in.campaignSummaryRows, p.CampaignSummary...)
		in.callsPerHour = append(in.callsPerHour, p.CallsPerHour...)
		in.productionSubs = append(in.productionSubs, p.ProductionSubs...)
		in.agentSubs = append(in.agentSubs, p.AgentSubcampaigns...)
		in.agentAnalysis = append(in.agentAnalysis, p.AgentAnalysis...)
		in.pauseTime = append(in.pauseTime, p.PauseTime...)
		in.callLog = append(in.callLog, p.CallLog...)
	}
	return in
}

// summarySource picks the authoritative agent-summary rows for the day:
// a global summary covers idle agents too, so it wins over campaign-scoped
// rows whenever both were uploaded.
func (in dayInput) summarySource() ([]types.AgentSummaryRow, types.SummaryScope) {
	if len(in.globalSummary) > 0 {
		return in.globalSummary, types.ScopeGlobal
	}
	if len(in.campaignSummary) > 0 {
		return in.campaignSummary, types.ScopeCampaign
	}
	return nil, ""
}

// ProcessDay turns one calendar day's uploaded report payloads into a
// complete ETLResult. Pure over its inputs: no I/O, no retained state,
// safe to call concurrently for different days. Serializing concurrent
// calls for the same day is the caller's job.
func ProcessDay(date string, payloads []types.ReportPayload, th Thresholds) (*types.ETLResult, error) {
	in := mergePayloads(payloads)

	summary, scope := in.summarySource()
	if len(summary) == 0 && len(in.production) == 0 &&
		len(in.subcampaigns) == 0 && len(in.campaignSummaryRows) == 0 {
		return nil, ErrNoParseableData
	}

	result := &types.ETLResult{
		RunID:         uuid.New().String(),
		Date:          date,
		SummarySource: scope,
		ProcessedAt:   time.Now().UTC(),
	}

	switch {
	case len(summary) > 0:
		result.KPIs = ComputeDailyKPIs(date, summary, in.production, th)
		if len(in.shiftReport) > 0 {
			mergeShiftDispositions(&result.KPIs, in.shiftReport)
			RecomputeDispositionRates(&result.KPIs, th)
		}
		result.Agents = ComputeAgentPerformance(date, summary, in.production, th)
		result.Anomalies = DetectAnomalies(date, summary, in.production, th)
	case len(in.subcampaigns) > 0:
		// no agent-level detail on this path: no distribution, no
		// rankings, no disposition-derived rates
		result.KPIs = computeKPIsFromSubcampaigns(date, in.subcampaigns)
	default:
		result.KPIs = types.DailyKPIs{Date: date, Dispositions: make(map[string]int)}
	}

	if len(in.production) > 0 {
		result.Skills = ComputeSkillSummaries(in.production)
	}

	result.Raw = buildRawData(in, result.Agents)

	return result, nil
}

// mergeShiftDispositions folds shift-report disposition counts into the
// KPI map with fill-only semantics: where production already reported a
// key, production stays authoritative.
func mergeShiftDispositions(kpis *types.DailyKPIs, shift []types.ShiftReportRow) {
	incoming := make(map[string]int)
	for _, row := range shift {
		mergeDispositions(incoming, row.Dispositions)
	}
	for key, count := range incoming {
		if _, exists := kpis.Dispositions[key]; !exists {
			kpis.Dispositions[key] = count
		}
	}
}

// computeKPIsFromSubcampaigns is the reduced fallback path for days that
// shipped only campaign-level exports.
func computeKPIsFromSubcampaigns(date string, rows []types.SubcampaignRow) types.DailyKPIs {
	kpis := types.DailyKPIs{
		Date:         date,
		Dispositions: make(map[string]int),
	}
	for _, row := range rows {
		kpis.TotalDialed += row.Dialed
		kpis.TotalConnected += row.Connected
		kpis.TotalContacted += row.Contacted
		kpis.TotalTransferred += row.Transferred
	}
	kpis.ConnectRate = Round(SafeDiv(float64(kpis.TotalConnected), float64(kpis.TotalDialed))*100, 2)
	kpis.ContactRate = Round(SafeDiv(float64(kpis.TotalContacted), float64(kpis.TotalConnected))*100, 2)
	kpis.ConversionRate = Round(SafeDiv(float64(kpis.TotalTransferred), float64(kpis.TotalContacted))*100, 2)
	return kpis
}
