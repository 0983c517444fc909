package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/calldeskhq/reportetl/internal/etl"
	"github.com/calldeskhq/reportetl/internal/runner"
)

// ProcessHandler triggers ETL runs on demand
type ProcessHandler struct {
	runner *runner.Runner
	logger zerolog.Logger
}

// NewProcessHandler creates a new ProcessHandler
func NewProcessHandler(run *runner.Runner, logger zerolog.Logger) *ProcessHandler {
	return &ProcessHandler{
		runner: run,
		logger: logger.With().Str("component", "process_handler").Logger(),
	}
}

// ProcessDay runs the pipeline over everything staged for a date
// POST /api/days/{date}/process
func (h *ProcessHandler) ProcessDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := h.runner.ProcessDate(date)
	switch {
	case errors.Is(err, runner.ErrNoStagedData):
		http.Error(w, "no reports staged for date", http.StatusNotFound)
		return
	case errors.Is(err, etl.ErrNoParseableData):
		http.Error(w, "staged reports contain no computable data", http.StatusUnprocessableEntity)
		return
	case err != nil:
		h.logger.Error().Err(err).Str("date", date).Msg("processing failed")
		http.Error(w, "processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
