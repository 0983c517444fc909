package types

import "time"

// Canonical disposition keys produced by etl.NormalizeKey
const (
	DispTransfer       = "transfer"
	DispDeadAir        = "dead_air"
	DispHungUpTransfer = "hung_up_transfer"
)

// TPHDistribution describes the transfers-per-hour spread across
// qualified agents for one day
type TPHDistribution struct {
	Count int     `json:"count" dynamodbav:"Count"`
	P10   float64 `json:"p10" dynamodbav:"P10"`
	P25   float64 `json:"p25" dynamodbav:"P25"`
	P50   float64 `json:"p50" dynamodbav:"P50"`
	P75   float64 `json:"p75" dynamodbav:"P75"`
	P90   float64 `json:"p90" dynamodbav:"P90"`
	Mean  float64 `json:"mean" dynamodbav:"Mean"`
	Std   float64 `json:"std" dynamodbav:"Std"`
}

// DailyKPIs holds one day's system-wide totals and rates.
// Percentage rates are rounded to 2 decimals (waste and transfer-success
// to 1); per-hour metrics are plain rates, not percentages.
// Prev-day fields are filled by an external comparison step, never here.
type DailyKPIs struct {
	Date             string  `json:"date" dynamodbav:"Date"` // YYYY-MM-DD (partition key)
	TotalDialed      int     `json:"totalDialed" dynamodbav:"TotalDialed"`
	TotalConnected   int     `json:"totalConnected" dynamodbav:"TotalConnected"`
	TotalContacted   int     `json:"totalContacted" dynamodbav:"TotalContacted"`
	TotalTransferred int     `json:"totalTransferred" dynamodbav:"TotalTransferred"`
	TotalHours       float64 `json:"totalHours" dynamodbav:"TotalHours"`
	TotalTalkMin     float64 `json:"totalTalkMin" dynamodbav:"TotalTalkMin"`
	TotalWaitMin     float64 `json:"totalWaitMin" dynamodbav:"TotalWaitMin"`
	TotalWrapMin     float64 `json:"totalWrapMin" dynamodbav:"TotalWrapMin"`

	ConnectRate         float64 `json:"connectRate" dynamodbav:"ConnectRate"`       // %
	ContactRate         float64 `json:"contactRate" dynamodbav:"ContactRate"`       // %
	ConversionRate      float64 `json:"conversionRate" dynamodbav:"ConversionRate"` // %
	DialsPerHour        float64 `json:"dialsPerHour" dynamodbav:"DialsPerHour"`
	TransfersPerHour    float64 `json:"transfersPerHour" dynamodbav:"TransfersPerHour"`
	DeadAirRatio        float64 `json:"deadAirRatio" dynamodbav:"DeadAirRatio"`               // %
	HungUpRatio         float64 `json:"hungUpRatio" dynamodbav:"HungUpRatio"`                 // %
	WasteRate           float64 `json:"wasteRate" dynamodbav:"WasteRate"`                     // %
	TransferSuccessRate float64 `json:"transferSuccessRate" dynamodbav:"TransferSuccessRate"` // %

	Dispositions map[string]int   `json:"dispositions" dynamodbav:"Dispositions"`
	Distribution *TPHDistribution `json:"tphDistribution,omitempty" dynamodbav:"TPHDistribution,omitempty"`

	PrevDayTransfers *int     `json:"prevDayTransfers,omitempty" dynamodbav:"PrevDayTransfers,omitempty"`
	PrevDayTPH       *float64 `json:"prevDayTph,omitempty" dynamodbav:"PrevDayTPH,omitempty"`
	TransferDelta    *int     `json:"transferDelta,omitempty" dynamodbav:"TransferDelta,omitempty"`
	TPHDelta         *float64 `json:"tphDelta,omitempty" dynamodbav:"TPHDelta,omitempty"`
}

// AgentPerformance is one agent's metrics for one day. Rank fields stay
// nil when the agent did not meet the qualifying-hours threshold, which
// keeps "not ranked" distinct from "ranked last".
type AgentPerformance struct {
	Date        string  `json:"date" dynamodbav:"Date"`  // partition key
	Agent       string  `json:"agent" dynamodbav:"Agent"` // sort key
	Skill       string  `json:"skill,omitempty" dynamodbav:"Skill"`
	HoursWorked float64 `json:"hoursWorked" dynamodbav:"HoursWorked"`
	Dialed      int     `json:"dialed" dynamodbav:"Dialed"`
	Connected   int     `json:"connected" dynamodbav:"Connected"`
	Contacted   int     `json:"contacted" dynamodbav:"Contacted"`
	Transferred int     `json:"transferred" dynamodbav:"Transferred"`
	DeadAir     int     `json:"deadAir" dynamodbav:"DeadAir"`

	TransfersPerHour float64 `json:"transfersPerHour" dynamodbav:"TransfersPerHour"`
	ConnectsPerHour  float64 `json:"connectsPerHour" dynamodbav:"ConnectsPerHour"`
	ConnectRate      float64 `json:"connectRate" dynamodbav:"ConnectRate"`       // %
	ConversionRate   float64 `json:"conversionRate" dynamodbav:"ConversionRate"` // %
	DeadAirRatio     float64 `json:"deadAirRatio" dynamodbav:"DeadAirRatio"`     // %

	Dispositions map[string]int `json:"dispositions" dynamodbav:"Dispositions"`

	RankTPH        *int `json:"rankTph,omitempty" dynamodbav:"RankTPH,omitempty"`
	RankConversion *int `json:"rankConversion,omitempty" dynamodbav:"RankConversion,omitempty"`
	RankVolume     *int `json:"rankVolume,omitempty" dynamodbav:"RankVolume,omitempty"`
}

// SkillSummary aggregates production rows for one skill/queue for one day.
// Skill is a property of call handling, not agent identity, so one agent
// can contribute to several skills in a day.
type SkillSummary struct {
	Skill          string         `json:"skill"`
	AgentCount     int            `json:"agentCount"`
	Dialed         int            `json:"dialed"`
	Connects       int            `json:"connects"`
	Contacts       int            `json:"contacts"`
	Transfers      int            `json:"transfers"`
	ManHours       float64        `json:"manHours"`
	AvgTPH         float64        `json:"avgTph"`
	ConnectRate    float64        `json:"connectRate"`    // %
	ConversionRate float64        `json:"conversionRate"` // %
	Dispositions   map[string]int `json:"dispositions"`
}

// AnomalySeverity grades how actionable a detected anomaly is
type AnomalySeverity string

const (
	SeverityWarning  AnomalySeverity = "warning"
	SeverityCritical AnomalySeverity = "critical"
)

// AnomalyType identifies the detection pass that produced an anomaly
type AnomalyType string

const (
	AnomalyZeroTransfers AnomalyType = "zero_transfers"
	AnomalyHighDeadAir   AnomalyType = "high_dead_air"
	AnomalyHighHungUp    AnomalyType = "high_hung_up"
	AnomalyLowTPH        AnomalyType = "low_tph"
)

// Anomaly is one detected condition. It is a derived fact, never a
// correction: detection does not touch source rows. Details carries the
// supporting raw counts so the flag is auditable without recomputation.
type Anomaly struct {
	ID        string                 `json:"id" dynamodbav:"AnomalyID"` // sort key under Date
	Date      string                 `json:"date" dynamodbav:"Date"`    // partition key
	Type      AnomalyType            `json:"type" dynamodbav:"Type"`
	Severity  AnomalySeverity        `json:"severity" dynamodbav:"Severity"`
	Agent     string                 `json:"agent,omitempty" dynamodbav:"Agent,omitempty"`
	Skill     string                 `json:"skill,omitempty" dynamodbav:"Skill,omitempty"`
	Metric    string                 `json:"metric" dynamodbav:"Metric"`
	Value     float64                `json:"value" dynamodbav:"Value"`
	Threshold float64                `json:"threshold" dynamodbav:"Threshold"`
	Details   map[string]interface{} `json:"details,omitempty" dynamodbav:"Details,omitempty"`
}

// AgentRanking is one line of the top/bottom agent lists in RawData
type AgentRanking struct {
	Agent            string  `json:"agent"`
	TransfersPerHour float64 `json:"transfersPerHour"`
	Transferred      int     `json:"transferred"`
	HoursWorked      float64 `json:"hoursWorked"`
}

// CampaignAggregate sums campaign-summary rows system-wide
type CampaignAggregate struct {
	Campaigns        int `json:"campaigns"`
	TotalDialed      int `json:"totalDialed"`
	TotalConnected   int `json:"totalConnected"`
	TotalContacted   int `json:"totalContacted"`
	TotalTransferred int `json:"totalTransferred"`
}

// CampaignDispositions is one campaign's disposition breakdown
type CampaignDispositions struct {
	Campaign     string         `json:"campaign"`
	Total        int            `json:"total"`
	Dispositions map[string]int `json:"dispositions"`
}

// AgentCampaigns maps an agent to the set of subcampaigns they worked
type AgentCampaigns struct {
	Agent       string   `json:"agent"`
	Campaigns   []string `json:"campaigns"`
	Dialed      int      `json:"dialed"`
	Connected   int      `json:"connected"`
	Transferred int      `json:"transferred"`
}

// CampaignAnalysis aggregates agent-analysis rows per campaign
type CampaignAnalysis struct {
	Campaign  string `json:"campaign"`
	Agents    int    `json:"agents"`
	Connects  int    `json:"connects"`
	Transfers int    `json:"transfers"`
}

// AgentPause is one agent's pause totals
type AgentPause struct {
	Agent    string  `json:"agent"`
	Sessions int     `json:"sessions"`
	Minutes  float64 `json:"minutes"`
}

// PauseAnalytics summarizes the pause-time report
type PauseAnalytics struct {
	TotalSessions int                `json:"totalSessions"`
	TotalMinutes  float64            `json:"totalMinutes"`
	ByBreakCode   map[string]int     `json:"byBreakCode"`
	ByAgent       map[string]float64 `json:"byAgent"`
	TopPausers    []AgentPause       `json:"topPausers"`
}

// RawData is the supplementary bag of derived views attached to an
// ETLResult. Every section is best-effort: a nil section just means its
// source report was missing for the day.
type RawData struct {
	TopAgents            []AgentRanking             `json:"topAgents,omitempty"`
	BottomAgents         []AgentRanking             `json:"bottomAgents,omitempty"`
	CampaignTotals       *CampaignAggregate         `json:"campaignTotals,omitempty"`
	CampaignDetail       []CampaignSummaryRow       `json:"campaignDetail,omitempty"`
	HourlyDistribution   []HourlyRow                `json:"hourlyDistribution,omitempty"`
	TopSubcampaigns      []SubcampaignRow           `json:"topSubcampaigns,omitempty"`
	ShiftDispositions    map[string]int             `json:"shiftDispositions,omitempty"`
	CampaignDispositions []CampaignDispositions     `json:"campaignDispositions,omitempty"`
	ProductionSubs       []ProductionSubcampaignRow `json:"productionSubs,omitempty"`
	AgentCampaigns       []AgentCampaigns           `json:"agentCampaigns,omitempty"`
	CampaignAnalysis     []CampaignAnalysis         `json:"campaignAnalysis,omitempty"`
	Pauses               *PauseAnalytics            `json:"pauses,omitempty"`
	CallLog              []CallLogRow               `json:"callLog,omitempty"`
	RowCounts            map[string]int             `json:"rowCounts"`
}

// ETLResult is the complete output for one processed day. It is built
// once per run, handed to persistence, and discarded; the ETL holds no
// state across days.
type ETLResult struct {
	RunID         string             `json:"runId"`
	Date          string             `json:"date"`
	SummarySource SummaryScope       `json:"summarySource,omitempty"`
	KPIs          DailyKPIs          `json:"kpis"`
	Agents        []AgentPerformance `json:"agents"`
	Skills        []SkillSummary     `json:"skills"`
	Anomalies     []Anomaly          `json:"anomalies"`
	Raw           RawData            `json:"raw"`
	ProcessedAt   time.Time          `json:"processedAt"`
}
