package types

// SummaryScope tags where an agent-summary report came from
type SummaryScope string

const (
	// ScopeGlobal covers every agent on the dialer, including idle ones
	ScopeGlobal SummaryScope = "global"
	// ScopeCampaign covers only agents active on a single campaign
	ScopeCampaign SummaryScope = "campaign"
)

// AgentSummaryRow is one agent's line from an agent-summary export
type AgentSummaryRow struct {
	Rep         string  `json:"rep"`
	HoursWorked float64 `json:"hoursWorked"`
	Dialed      int     `json:"dialed"`
	Connected   int     `json:"connected"`
	Contacted   int     `json:"contacted"`
	Transferred int     `json:"transferred"`
	TalkMin     float64 `json:"talkMin"`
	WaitMin     float64 `json:"waitMin"`
	WrapMin     float64 `json:"wrapMin"`
	CallsPerHr  float64 `json:"callsPerHr"`
}

// ProductionRow is one agent/skill line from a production export.
// Dispositions is keyed by normalized column name (see etl.NormalizeKey);
// Dialed may be absent (zero) depending on the report vendor.
type ProductionRow struct {
	Agent        string         `json:"agent"`
	Skill        string         `json:"skill"`
	Dialed       int            `json:"dialed"`
	Connects     int            `json:"connects"`
	Contacts     int            `json:"contacts"`
	Transfers    int            `json:"transfers"`
	ManHours     float64        `json:"manHours"`
	Dispositions map[string]int `json:"dispositions"`
}

// SubcampaignRow is one subcampaign line from a subcampaign export
type SubcampaignRow struct {
	Subcampaign string `json:"subcampaign"`
	Campaign    string `json:"campaign"`
	Dialed      int    `json:"dialed"`
	Connected   int    `json:"connected"`
	Contacted   int    `json:"contacted"`
	Transferred int    `json:"transferred"`
}

// ShiftReportRow carries per-campaign disposition counts from a shift report
type ShiftReportRow struct {
	Campaign     string         `json:"campaign"`
	Dispositions map[string]int `json:"dispositions"`
}

// CampaignSummaryRow is one campaign's aggregate line
type CampaignSummaryRow struct {
	Campaign    string `json:"campaign"`
	Dialed      int    `json:"dialed"`
	Connected   int    `json:"connected"`
	Contacted   int    `json:"contacted"`
	Transferred int    `json:"transferred"`
}

// HourlyRow buckets calls by hour label; exports include a literal
// "TOTAL" sentinel row that downstream processing must skip
type HourlyRow struct {
	Hour  string `json:"hour"`
	Calls int    `json:"calls"`
}

// ProductionSubcampaignRow is one subcampaign line from the production
// breakdown export; Sales can be positive even when Connects is zero
// (carry-over closes)
type ProductionSubcampaignRow struct {
	Subcampaign string `json:"subcampaign"`
	Connects    int    `json:"connects"`
	Contacts    int    `json:"contacts"`
	Sales       int    `json:"sales"`
}

// AgentSubcampaignRow joins an agent to a subcampaign they worked
type AgentSubcampaignRow struct {
	Rep         string  `json:"rep"`
	Subcampaign string  `json:"subcampaign"`
	Dialed      int     `json:"dialed"`
	Connected   int     `json:"connected"`
	Transferred int     `json:"transferred"`
	HoursWorked float64 `json:"hoursWorked"`
}

// AgentAnalysisRow is one agent/campaign line from an agent-analysis export
type AgentAnalysisRow struct {
	Agent     string `json:"agent"`
	Campaign  string `json:"campaign"`
	Connects  int    `json:"connects"`
	Transfers int    `json:"transfers"`
}

// PauseRow is one pause session; TimePaused is an HH:MM:SS duration string
type PauseRow struct {
	Agent      string `json:"agent"`
	BreakCode  string `json:"breakCode"`
	TimePaused string `json:"timePaused"`
}

// CallLogRow is one status line of the campaign call log
type CallLogRow struct {
	Status  string  `json:"status"`
	Calls   int     `json:"calls"`
	Percent float64 `json:"percent"`
}

// ReportPayload is one uploaded report file parsed into typed rows.
// A single day may be split across several payloads; the day processor
// concatenates same-typed rows before aggregating.
type ReportPayload struct {
	Date              string                     `json:"date"` // YYYY-MM-DD
	AgentSummaryScope SummaryScope               `json:"agentSummaryScope,omitempty"`
	AgentSummary      []AgentSummaryRow          `json:"agentSummary,omitempty"`
	Production        []ProductionRow            `json:"production,omitempty"`
	Subcampaigns      []SubcampaignRow           `json:"subcampaigns,omitempty"`
	ShiftReport       []ShiftReportRow           `json:"shiftReport,omitempty"`
	CampaignSummary   []CampaignSummaryRow       `json:"campaignSummary,omitempty"`
	CallsPerHour      []HourlyRow                `json:"callsPerHour,omitempty"`
	ProductionSubs    []ProductionSubcampaignRow `json:"productionSubs,omitempty"`
	AgentSubcampaigns []AgentSubcampaignRow      `json:"agentSubcampaigns,omitempty"`
	AgentAnalysis     []AgentAnalysisRow         `json:"agentAnalysis,omitempty"`
	PauseTime         []PauseRow                 `json:"pauseTime,omitempty"`
	CallLog           []CallLogRow               `json:"callLog,omitempty"`
}
