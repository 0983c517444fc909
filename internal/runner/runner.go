package runner

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/etl"
	"github.com/calldeskhq/reportetl/internal/metrics"
	"github.com/calldeskhq/reportetl/internal/storage"
	"github.com/calldeskhq/reportetl/internal/types"
	"github.com/calldeskhq/reportetl/internal/websocket"
)

// ErrNoStagedData is returned when no report payloads are staged for the
// requested date.
var ErrNoStagedData = errors.New("no staged payloads for date")

// Runner drains staged report payloads through the ETL pipeline, persists
// the result and notifies dashboard clients.
type Runner struct {
	stage      *cache.PayloadStage
	results    *cache.ResultCache
	store      storage.Store
	hub        *websocket.Hub
	thresholds etl.Thresholds
	logger     zerolog.Logger

	// serializes runs so two triggers for the same day cannot interleave
	mu sync.Mutex
}

// NewRunner creates a new Runner
func NewRunner(stage *cache.PayloadStage, results *cache.ResultCache, store storage.Store, hub *websocket.Hub, thresholds etl.Thresholds, logger zerolog.Logger) *Runner {
	return &Runner{
		stage:      stage,
		results:    results,
		store:      store,
		hub:        hub,
		thresholds: thresholds,
		logger:     logger.With().Str("component", "runner").Logger(),
	}
}

// ProcessDate drains every payload staged for the date and runs the full
// pipeline over them. The drained payloads are consumed even when
// processing fails; callers re-upload to retry.
func (r *Runner) ProcessDate(date string) (*types.ETLResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payloads := r.stage.Drain(date)
	if len(payloads) == 0 {
		return nil, ErrNoStagedData
	}

	started := time.Now()
	m := metrics.Get()

	result, err := etl.ProcessDay(date, payloads, r.thresholds)
	if err != nil {
		m.RecordProcessingError()
		r.logger.Error().Err(err).Str("date", date).Int("payloads", len(payloads)).Msg("day processing failed")
		return nil, fmt.Errorf("failed to process %s: %w", date, err)
	}

	r.persist(result)
	r.results.Put(result)
	r.hub.BroadcastResult(types.NewResultMessage(result))

	duration := time.Since(started)
	m.RecordDayProcessed(result, duration)

	r.logger.Info().
		Str("date", date).
		Str("run_id", result.RunID).
		Str("summary_source", string(result.SummarySource)).
		Int("payloads", len(payloads)).
		Int("agents", len(result.Agents)).
		Int("skills", len(result.Skills)).
		Int("anomalies", len(result.Anomalies)).
		Dur("duration", duration).
		Msg("day processed")

	return result, nil
}

// persist writes the result to the store. Storage failures are logged,
// not returned; the in-memory result stays available to the API.
func (r *Runner) persist(result *types.ETLResult) {
	if err := r.store.SaveDailyKPIs(result.KPIs); err != nil {
		r.logger.Error().Err(err).Str("date", result.Date).Msg("failed to save daily kpis")
	}
	if err := r.store.SaveAgentPerformance(result.Agents); err != nil {
		r.logger.Error().Err(err).Str("date", result.Date).Msg("failed to save agent performance")
	}
	if err := r.store.SaveAnomalies(result.Anomalies); err != nil {
		r.logger.Error().Err(err).Str("date", result.Date).Msg("failed to save anomalies")
	}
}
