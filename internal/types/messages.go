package types

import "time"

// ResultMessage is pushed to websocket dashboard clients after a day is
// processed. It carries the headline numbers, not the full result; clients
// fetch detail over REST.
type ResultMessage struct {
	Type             string    `json:"type"` // always "etl_result"
	RunID            string    `json:"runId"`
	Date             string    `json:"date"`
	TotalTransferred int       `json:"totalTransferred"`
	TransfersPerHour float64   `json:"transfersPerHour"`
	ConversionRate   float64   `json:"conversionRate"`
	AgentCount       int       `json:"agentCount"`
	SkillCount       int       `json:"skillCount"`
	Warnings         int       `json:"warnings"`
	Criticals        int       `json:"criticals"`
	ProcessedAt      time.Time `json:"processedAt"`
}

// NewResultMessage builds a ResultMessage from a full ETLResult
func NewResultMessage(res *ETLResult) ResultMessage {
	msg := ResultMessage{
		Type:             "etl_result",
		RunID:            res.RunID,
		Date:             res.Date,
		TotalTransferred: res.KPIs.TotalTransferred,
		TransfersPerHour: res.KPIs.TransfersPerHour,
		ConversionRate:   res.KPIs.ConversionRate,
		AgentCount:       len(res.Agents),
		SkillCount:       len(res.Skills),
		ProcessedAt:      res.ProcessedAt,
	}
	for _, a := range res.Anomalies {
		switch a.Severity {
		case SeverityCritical:
			msg.Criticals++
		default:
			msg.Warnings++
		}
	}
	return msg
}
