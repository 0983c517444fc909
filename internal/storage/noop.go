package storage

import "github.com/calldeskhq/reportetl/internal/types"

// Store defines the storage interface
type Store interface {
	SaveDailyKPIs(kpis types.DailyKPIs) error
	SaveAgentPerformance(agents []types.AgentPerformance) error
	SaveAnomalies(anomalies []types.Anomaly) error
	GetDailyKPIs(date string) (*types.DailyKPIs, error)
	GetAgentPerformanceByDate(date string) ([]types.AgentPerformance, error)
	GetAnomaliesByDate(date string) ([]types.Anomaly, error)
	GetAgentHistory(agent string) ([]types.AgentPerformance, error)
	TruncateAll() error
}

// NoopStore is a no-op implementation when DynamoDB is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveDailyKPIs(_ types.DailyKPIs) error                { return nil }
func (s *NoopStore) SaveAgentPerformance(_ []types.AgentPerformance) error { return nil }
func (s *NoopStore) SaveAnomalies(_ []types.Anomaly) error                { return nil }
func (s *NoopStore) GetDailyKPIs(_ string) (*types.DailyKPIs, error)      { return nil, nil }
func (s *NoopStore) GetAgentPerformanceByDate(_ string) ([]types.AgentPerformance, error) {
	return nil, nil
}
func (s *NoopStore) GetAnomaliesByDate(_ string) ([]types.Anomaly, error) { return nil, nil }
func (s *NoopStore) GetAgentHistory(_ string) ([]types.AgentPerformance, error) {
	return nil, nil
}
func (s *NoopStore) TruncateAll() error { return nil }
