package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/cache"
	"github.com/calldeskhq/reportetl/internal/storage"
	"github.com/calldeskhq/reportetl/internal/types"
)

// HistoryHandler serves processed results, from cache when the day was
// processed in this process lifetime, falling back to the store.
type HistoryHandler struct {
	results *cache.ResultCache
	store   storage.Store
	logger  zerolog.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(results *cache.ResultCache, store storage.Store, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		results: results,
		store:   store,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// GetDay returns the full in-memory result for a date when available
// GET /api/days/{date}
func (h *HistoryHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	if result := h.results.Get(date); result != nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	// Cache miss: rebuild a partial view from the store
	kpis, err := h.store.GetDailyKPIs(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to get daily kpis")
		http.Error(w, "failed to retrieve day", http.StatusInternalServerError)
		return
	}
	if kpis == nil {
		http.Error(w, "day not found", http.StatusNotFound)
		return
	}

	agents, err := h.store.GetAgentPerformanceByDate(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to get agent performance")
		http.Error(w, "failed to retrieve day", http.StatusInternalServerError)
		return
	}

	anomalies, err := h.store.GetAnomaliesByDate(date)
	if err != nil {
		h.logger.Error().Err(err).Str("date", date).Msg("failed to get anomalies")
		http.Error(w, "failed to retrieve day", http.StatusInternalServerError)
		return
	}

	if agents == nil {
		agents = []types.AgentPerformance{}
	}
	if anomalies == nil {
		anomalies = []types.Anomaly{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"date":      date,
		"kpis":      kpis,
		"agents":    agents,
		"anomalies": anomalies,
	})
}

// GetLatest returns the most recently processed day
// GET /api/days/latest
func (h *HistoryHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	result := h.results.Latest()
	if result == nil {
		http.Error(w, "no days processed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetAgentHistory returns per-day performance rows for one agent
// GET /api/agents/{agentId}/history
func (h *HistoryHandler) GetAgentHistory(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if agentID == "" {
		http.Error(w, "agentId is required", http.StatusBadRequest)
		return
	}

	history, err := h.store.GetAgentHistory(agentID)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to get agent history")
		http.Error(w, "failed to retrieve history", http.StatusInternalServerError)
		return
	}

	if history == nil {
		history = []types.AgentPerformance{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}
