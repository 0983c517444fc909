package etl

import "github.com/calldeskhq/reportetl/internal/types"

// Thresholds is the static numeric configuration every aggregator and
// detector takes explicitly. Threading it through keeps the functions
// pure and independently testable; there is no package-level config.
type Thresholds struct {
	// MinHoursQualified gates ranking and TPH-distribution eligibility
	MinHoursQualified float64
	// MinHoursCoaching gates the low-TPH z-score pass (lower bar than
	// ranking so coaches see borderline agents)
	MinHoursCoaching float64
	// ZeroTransferMinHours gates the zero-transfers pass
	ZeroTransferMinHours float64
	// MinConnectsAnomaly gates the dead-air and hung-up passes
	MinConnectsAnomaly int

	// Severity cutoffs, in percent
	DeadAirRatioWarning  float64
	DeadAirRatioCritical float64
	HungUpRatioWarning   float64
	HungUpRatioCritical  float64

	// WasteDispositions lists the normalized disposition keys that count
	// toward the waste rate
	WasteDispositions []string
}

// DefaultThresholds returns the production defaults. Env overrides are
// applied by the config package.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinHoursQualified:    4,
		MinHoursCoaching:     2,
		ZeroTransferMinHours: 4,
		MinConnectsAnomaly:   20,
		DeadAirRatioWarning:  15,
		DeadAirRatioCritical: 25,
		HungUpRatioWarning:   10,
		HungUpRatioCritical:  20,
		WasteDispositions: []string{
			types.DispDeadAir,
			types.DispHungUpTransfer,
			"do_not_call",
			"not_interested",
			"wrong_number",
			"language_barrier",
		},
	}
}

// wasteCount sums the counts of all waste dispositions present in disps
func (t Thresholds) wasteCount(disps map[string]int) int {
	total := 0
	for _, key := range t.WasteDispositions {
		total += disps[key]
	}
	return total
}
