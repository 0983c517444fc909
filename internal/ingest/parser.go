package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/calldeskhq/reportetl/internal/etl"
	"github.com/calldeskhq/reportetl/internal/types"
)

// Report type identifiers accepted by the upload endpoint
const (
	TypeAgentSummary          = "agent_summary"
	TypeProduction            = "production"
	TypeSubcampaign           = "subcampaign"
	TypeShiftReport           = "shift_report"
	TypeCampaignSummary       = "campaign_summary"
	TypeCallsPerHour          = "calls_per_hour"
	TypeProductionSubcampaign = "production_subcampaign"
	TypeAgentSubcampaign      = "agent_summary_subcampaign"
	TypeAgentAnalysis         = "agent_analysis"
	TypePauseTime             = "pause_time"
	TypeCallLog               = "call_log"
)

// header maps normalized column names to their position in the CSV.
// Normalization happens exactly once here, at the ingestion boundary;
// the aggregators never see vendor column spellings.
type header map[string]int

func (h header) str(record []string, keys ...string) string {
	for _, key := range keys {
		if idx, ok := h[key]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
	}
	return ""
}

func (h header) intval(record []string, keys ...string) int {
	raw := h.str(record, keys...)
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func (h header) floatval(record []string, keys ...string) float64 {
	raw := h.str(record, keys...)
	raw = strings.ReplaceAll(raw, ",", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// used returns the set of column positions claimed by the fixed columns,
// so disposition parsing can sweep up the remainder
func (h header) used(keys ...string) map[int]bool {
	set := make(map[int]bool)
	for _, key := range keys {
		if idx, ok := h[key]; ok {
			set[idx] = true
		}
	}
	return set
}

func readCSV(r io.Reader) (header, [][]string, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // vendor exports pad unevenly
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil, fmt.Errorf("empty report file")
	}

	h := make(header, len(rows[0]))
	labels := make([]string, len(rows[0]))
	for i, label := range rows[0] {
		key := etl.NormalizeKey(label)
		labels[i] = label
		if _, exists := h[key]; !exists {
			h[key] = i
		}
	}
	return h, rows[1:], labels, nil
}

// ParseReport parses one CSV report file of the given type into a
// payload for the given reporting date.
func ParseReport(reportType, date string, scope types.SummaryScope, r io.Reader) (*types.ReportPayload, error) {
	h, records, labels, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	payload := &types.ReportPayload{Date: date}

	switch reportType {
	case TypeAgentSummary:
		payload.AgentSummaryScope = scope
		payload.AgentSummary = parseAgentSummary(h, records)
	case TypeProduction:
		payload.Production = parseProduction(h, records, labels)
	case TypeSubcampaign:
		payload.Subcampaigns = parseSubcampaigns(h, records)
	case TypeShiftReport:
		payload.ShiftReport = parseShiftReport(h, records, labels)
	case TypeCampaignSummary:
		payload.CampaignSummary = parseCampaignSummary(h, records)
	case TypeCallsPerHour:
		payload.CallsPerHour = parseCallsPerHour(h, records)
	case TypeProductionSubcampaign:
		payload.ProductionSubs = parseProductionSubs(h, records)
	case TypeAgentSubcampaign:
		payload.AgentSubcampaigns = parseAgentSubcampaigns(h, records)
	case TypeAgentAnalysis:
		payload.AgentAnalysis = parseAgentAnalysis(h, records)
	case TypePauseTime:
		payload.PauseTime = parsePauseTime(h, records)
	case TypeCallLog:
		payload.CallLog = parseCallLog(h, records)
	default:
		return nil, fmt.Errorf("unknown report type: %s", reportType)
	}

	return payload, nil
}

func parseAgentSummary(h header, records [][]string) []types.AgentSummaryRow {
	var rows []types.AgentSummaryRow
	for _, rec := range records {
		rep := h.str(rec, "rep", "agent", "agent_name")
		if rep == "" {
			continue
		}
		rows = append(rows, types.AgentSummaryRow{
			Rep:         rep,
			HoursWorked: h.floatval(rec, "hours_worked", "hours"),
			Dialed:      h.intval(rec, "dialed", "dials"),
			Connected:   h.intval(rec, "connected", "connects"),
			Contacted:   h.intval(rec, "contacted", "contacts"),
			Transferred: h.intval(rec, "transferred", "transfers"),
			TalkMin:     h.floatval(rec, "talk_min", "talk_time"),
			WaitMin:     h.floatval(rec, "wait_min", "wait_time"),
			WrapMin:     h.floatval(rec, "wrap_min", "wrap_time"),
			CallsPerHr:  h.floatval(rec, "calls_per_hr", "connects_per_hour"),
		})
	}
	return rows
}

// production fixed columns; everything else on the row is a disposition
var productionFixed = []string{
	"agent", "rep", "agent_name", "skill", "queue",
	"dialed", "dials", "connects", "connected", "contacts", "contacted",
	"transfers", "transferred", "man_hours", "hours",
}

func parseProduction(h header, records [][]string, labels []string) []types.ProductionRow {
	used := h.used(productionFixed...)

	var rows []types.ProductionRow
	for _, rec := range records {
		agent := h.str(rec, "agent", "rep", "agent_name")
		if agent == "" {
			continue
		}
		row := types.ProductionRow{
			Agent:        agent,
			Skill:        h.str(rec, "skill", "queue"),
			Dialed:       h.intval(rec, "dialed", "dials"),
			Connects:     h.intval(rec, "connects", "connected"),
			Contacts:     h.intval(rec, "contacts", "contacted"),
			Transfers:    h.intval(rec, "transfers", "transferred"),
			ManHours:     h.floatval(rec, "man_hours", "hours"),
			Dispositions: collectDispositions(rec, labels, used),
		}
		rows = append(rows, row)
	}
	return rows
}

var shiftFixed = []string{"campaign", "subcampaign"}

func parseShiftReport(h header, records [][]string, labels []string) []types.ShiftReportRow {
	used := h.used(shiftFixed...)

	var rows []types.ShiftReportRow
	for _, rec := range records {
		campaign := h.str(rec, "campaign", "subcampaign")
		if campaign == "" {
			continue
		}
		rows = append(rows, types.ShiftReportRow{
			Campaign:     campaign,
			Dispositions: collectDispositions(rec, labels, used),
		})
	}
	return rows
}

// collectDispositions turns every unclaimed numeric column into a
// normalized disposition count
func collectDispositions(rec []string, labels []string, used map[int]bool) map[string]int {
	disps := make(map[string]int)
	for i, label := range labels {
		if used[i] || i >= len(rec) {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(rec[i]), ",", "")
		if raw == "" {
			continue
		}
		count, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if key := etl.NormalizeKey(label); key != "" {
			disps[key] += count
		}
	}
	return disps
}

func parseSubcampaigns(h header, records [][]string) []types.SubcampaignRow {
	var rows []types.SubcampaignRow
	for _, rec := range records {
		sub := h.str(rec, "subcampaign", "sub_campaign")
		if sub == "" {
			continue
		}
		rows = append(rows, types.SubcampaignRow{
			Subcampaign: sub,
			Campaign:    h.str(rec, "campaign"),
			Dialed:      h.intval(rec, "dialed", "dials"),
			Connected:   h.intval(rec, "connected", "connects"),
			Contacted:   h.intval(rec, "contacted", "contacts"),
			Transferred: h.intval(rec, "transferred", "transfers"),
		})
	}
	return rows
}

func parseCampaignSummary(h header, records [][]string) []types.CampaignSummaryRow {
	var rows []types.CampaignSummaryRow
	for _, rec := range records {
		campaign := h.str(rec, "campaign")
		if campaign == "" {
			continue
		}
		rows = append(rows, types.CampaignSummaryRow{
			Campaign:    campaign,
			Dialed:      h.intval(rec, "dialed", "dials"),
			Connected:   h.intval(rec, "connected", "connects"),
			Contacted:   h.intval(rec, "contacted", "contacts"),
			Transferred: h.intval(rec, "transferred", "transfers"),
		})
	}
	return rows
}

func parseCallsPerHour(h header, records [][]string) []types.HourlyRow {
	var rows []types.HourlyRow
	for _, rec := range records {
		hour := h.str(rec, "hour", "time")
		if hour == "" {
			continue
		}
		rows = append(rows, types.HourlyRow{
			Hour:  hour,
			Calls: h.intval(rec, "calls", "count"),
		})
	}
	return rows
}

func parseProductionSubs(h header, records [][]string) []types.ProductionSubcampaignRow {
	var rows []types.ProductionSubcampaignRow
	for _, rec := range records {
		sub := h.str(rec, "subcampaign", "sub_campaign")
		if sub == "" {
			continue
		}
		rows = append(rows, types.ProductionSubcampaignRow{
			Subcampaign: sub,
			Connects:    h.intval(rec, "connects", "connected"),
			Contacts:    h.intval(rec, "contacts", "contacted"),
			Sales:       h.intval(rec, "sales", "transfers"),
		})
	}
	return rows
}

func parseAgentSubcampaigns(h header, records [][]string) []types.AgentSubcampaignRow {
	var rows []types.AgentSubcampaignRow
	for _, rec := range records {
		rep := h.str(rec, "rep", "agent", "agent_name")
		sub := h.str(rec, "subcampaign", "sub_campaign")
		if rep == "" || sub == "" {
			continue
		}
		rows = append(rows, types.AgentSubcampaignRow{
			Rep:         rep,
			Subcampaign: sub,
			Dialed:      h.intval(rec, "dialed", "dials"),
			Connected:   h.intval(rec, "connected", "connects"),
			Transferred: h.intval(rec, "transferred", "transfers"),
			HoursWorked: h.floatval(rec, "hours_worked", "hours"),
		})
	}
	return rows
}

func parseAgentAnalysis(h header, records [][]string) []types.AgentAnalysisRow {
	var rows []types.AgentAnalysisRow
	for _, rec := range records {
		agent := h.str(rec, "agent", "rep", "agent_name")
		if agent == "" {
			continue
		}
		rows = append(rows, types.AgentAnalysisRow{
			Agent:     agent,
			Campaign:  h.str(rec, "campaign", "subcampaign"),
			Connects:  h.intval(rec, "connects", "connected"),
			Transfers: h.intval(rec, "transfers", "transferred"),
		})
	}
	return rows
}

func parsePauseTime(h header, records [][]string) []types.PauseRow {
	var rows []types.PauseRow
	for _, rec := range records {
		agent := h.str(rec, "agent", "rep", "agent_name")
		if agent == "" {
			continue
		}
		rows = append(rows, types.PauseRow{
			Agent:      agent,
			BreakCode:  h.str(rec, "break_code", "pause_code", "code"),
			TimePaused: h.str(rec, "time_paused", "duration"),
		})
	}
	return rows
}

func parseCallLog(h header, records [][]string) []types.CallLogRow {
	var rows []types.CallLogRow
	for _, rec := range records {
		status := h.str(rec, "status", "disposition")
		if status == "" {
			continue
		}
		rows = append(rows, types.CallLogRow{
			Status:  status,
			Calls:   h.intval(rec, "calls", "count"),
			Percent: h.floatval(rec, "percent", "pct"),
		})
	}
	return rows
}
