package cache

import (
	"sort"
	"sync"

	"github.com/calldeskhq/reportetl/internal/types"
)

// PayloadStage accumulates parsed report payloads per reporting day until
// something (the scheduler or an on-demand request) drains and processes
// them. A day may be split across many uploaded files, so the stage keeps
// a slice per date rather than merging eagerly.
type PayloadStage struct {
	byDate map[string][]types.ReportPayload
	mu     sync.RWMutex
}

// NewPayloadStage creates a new payload stage
func NewPayloadStage() *PayloadStage {
	return &PayloadStage{
		byDate: make(map[string][]types.ReportPayload),
	}
}

// Add stages one payload under its reporting date
func (s *PayloadStage) Add(payload types.ReportPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byDate[payload.Date] = append(s.byDate[payload.Date], payload)
}

// Drain removes and returns everything staged for a date
func (s *PayloadStage) Drain(date string) []types.ReportPayload {
	s.mu.Lock()
	defer s.mu.Unlock()

	payloads := s.byDate[date]
	delete(s.byDate, date)
	return payloads
}

// Dates returns the staged dates in ascending order
func (s *PayloadStage) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dates := make([]string, 0, len(s.byDate))
	for date := range s.byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Size returns the total number of staged payloads across all dates
func (s *PayloadStage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, payloads := range s.byDate {
		total += len(payloads)
	}
	return total
}
