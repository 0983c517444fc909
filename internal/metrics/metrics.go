package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/calldeskhq/reportetl/internal/types"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Ingestion metrics
	PayloadsReceivedTotal int64
	RowsIngestedTotal     int64
	IngestErrorsTotal     int64
	rowsByReportType      map[string]int64

	// Processing metrics
	DaysProcessedTotal     int64
	ProcessingErrorsTotal  int64
	lastProcessingDuration time.Duration
	anomaliesBySeverity    map[types.AnomalySeverity]int64
	anomaliesByType        map[types.AnomalyType]int64

	// WebSocket metrics
	WebSocketConnectionsTotal    int64
	WebSocketDisconnectionsTotal int64
	activeConnections            int64

	// HTTP metrics
	httpRequestsTotal map[string]map[int]int64 // endpoint -> status -> count

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			rowsByReportType:    make(map[string]int64),
			anomaliesBySeverity: make(map[types.AnomalySeverity]int64),
			anomaliesByType:     make(map[types.AnomalyType]int64),
			httpRequestsTotal:   make(map[string]map[int]int64),
			startTime:           time.Now(),
		}
	})
	return instance
}

// RecordPayloadReceived counts one staged payload and its rows
func (m *Metrics) RecordPayloadReceived(reportType string, rows int) {
	m.mu.Lock()
	m.PayloadsReceivedTotal++
	m.RowsIngestedTotal += int64(rows)
	m.rowsByReportType[reportType] += int64(rows)
	m.mu.Unlock()
}

// RecordIngestError counts a rejected upload
func (m *Metrics) RecordIngestError() {
	m.mu.Lock()
	m.IngestErrorsTotal++
	m.mu.Unlock()
}

// RecordDayProcessed records one completed ETL run
func (m *Metrics) RecordDayProcessed(result *types.ETLResult, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DaysProcessedTotal++
	m.lastProcessingDuration = duration
	for _, a := range result.Anomalies {
		m.anomaliesBySeverity[a.Severity]++
		m.anomaliesByType[a.Type]++
	}
}

// RecordProcessingError counts a failed ETL run
func (m *Metrics) RecordProcessingError() {
	m.mu.Lock()
	m.ProcessingErrorsTotal++
	m.mu.Unlock()
}

// RecordWebSocketConnect increments connection counters
func (m *Metrics) RecordWebSocketConnect() {
	m.mu.Lock()
	m.WebSocketConnectionsTotal++
	m.activeConnections++
	m.mu.Unlock()
}

// RecordWebSocketDisconnect increments disconnection counter
func (m *Metrics) RecordWebSocketDisconnect() {
	m.mu.Lock()
	m.WebSocketDisconnectionsTotal++
	m.activeConnections--
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[endpoint] == nil {
		m.httpRequestsTotal[endpoint] = make(map[int]int64)
	}
	m.httpRequestsTotal[endpoint][statusCode]++
}

// GetActiveConnections returns current WebSocket connections
func (m *Metrics) GetActiveConnections() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeConnections
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int64:
				fmt.Fprintf(w, "%s%s %s\n", name, labelStr, strconv.FormatInt(v, 10))
			case float64:
				fmt.Fprintf(w, "%s%s %g\n", name, labelStr, v)
			}
		}

		write("reportetl_payloads_received_total", m.PayloadsReceivedTotal)
		write("reportetl_rows_ingested_total", m.RowsIngestedTotal)
		write("reportetl_ingest_errors_total", m.IngestErrorsTotal)

		reportTypes := make([]string, 0, len(m.rowsByReportType))
		for rt := range m.rowsByReportType {
			reportTypes = append(reportTypes, rt)
		}
		sort.Strings(reportTypes)
		for _, rt := range reportTypes {
			write("reportetl_rows_by_report_type", m.rowsByReportType[rt], "report_type", rt)
		}

		write("reportetl_days_processed_total", m.DaysProcessedTotal)
		write("reportetl_processing_errors_total", m.ProcessingErrorsTotal)
		write("reportetl_last_processing_duration_seconds", m.lastProcessingDuration.Seconds())

		for sev, count := range m.anomaliesBySeverity {
			write("reportetl_anomalies_total", count, "severity", string(sev))
		}
		for typ, count := range m.anomaliesByType {
			write("reportetl_anomalies_by_type_total", count, "type", string(typ))
		}

		write("reportetl_websocket_connections_total", m.WebSocketConnectionsTotal)
		write("reportetl_websocket_disconnections_total", m.WebSocketDisconnectionsTotal)
		write("reportetl_websocket_active_connections", m.activeConnections)

		for endpoint, statuses := range m.httpRequestsTotal {
			for status, count := range statuses {
				write("reportetl_http_requests_total", count,
					"endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}

		write("reportetl_uptime_seconds", time.Since(m.startTime).Seconds())
	}
}
