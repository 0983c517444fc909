package ingest

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/metrics"
	"github.com/calldeskhq/reportetl/internal/types"
	"github.com/rs/zerolog"
)

// Receiver handles report file uploads from the export fetcher
type Receiver struct {
	stage            *cache.PayloadStage
	logger           zerolog.Logger
	payloadsReceived int64
	lastReceived     time.Time
	mu               sync.RWMutex
}

// NewReceiver creates a new report receiver
func NewReceiver(stage *cache.PayloadStage, logger zerolog.Logger) *Receiver {
	return &Receiver{
		stage:  stage,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// HandleUpload receives one CSV report file and stages its parsed rows.
// POST /internal/reports?date=YYYY-MM-DD&type=<report type>[&scope=campaign]
func (rc *Receiver) HandleUpload(w http.ResponseWriter, req *http.Request) {
	m := metrics.Get()

	date := req.URL.Query().Get("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	reportType := req.URL.Query().Get("type")
	if reportType == "" {
		http.Error(w, "type query parameter is required", http.StatusBadRequest)
		return
	}

	scope := types.ScopeGlobal
	if req.URL.Query().Get("scope") == string(types.ScopeCampaign) {
		scope = types.ScopeCampaign
	}

	payload, err := ParseReport(reportType, date, scope, req.Body)
	if err != nil {
		rc.logger.Error().Err(err).
			Str("report_type", reportType).
			Str("date", date).
			Msg("failed to parse report")
		m.RecordIngestError()
		http.Error(w, "invalid report: "+err.Error(), http.StatusBadRequest)
		return
	}

	rows := payloadRowCount(payload)
	rc.stage.Add(*payload)
	m.RecordPayloadReceived(reportType, rows)

	atomic.AddInt64(&rc.payloadsReceived, 1)
	rc.mu.Lock()
	rc.lastReceived = time.Now()
	rc.mu.Unlock()

	rc.logger.Info().
		Str("report_type", reportType).
		Str("date", date).
		Int("rows", rows).
		Msg("report staged")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"date":   date,
		"type":   reportType,
		"rows":   rows,
		"staged": rc.stage.Size(),
	})
}

// GetStats returns receiver statistics
func (rc *Receiver) GetStats(w http.ResponseWriter, req *http.Request) {
	rc.mu.RLock()
	lastReceived := rc.lastReceived
	rc.mu.RUnlock()

	stats := map[string]interface{}{
		"payloads_received": atomic.LoadInt64(&rc.payloadsReceived),
		"last_received":     lastReceived,
		"staged_payloads":   rc.stage.Size(),
		"staged_dates":      rc.stage.Dates(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func payloadRowCount(p *types.ReportPayload) int {
	return len(p.AgentSummary) + len(p.Production) + len(p.Subcampaigns) +
		len(p.ShiftReport) + len(p.CampaignSummary) + len(p.CallsPerHour) +
		len(p.ProductionSubs) + len(p.AgentSubcampaigns) + len(p.AgentAnalysis) +
		len(p.PauseTime) + len(p.CallLog)
}
