package etl

import (
	"sort"
	"strings"

	"github.com/calldeskhq/reportetl/internal/types"
)

// ComputeSkillSummaries groups production rows by skill/queue. Rows with
// an empty or "Unknown" skill are skipped. The result is sorted by total
// transfers descending; dashboards rely on that order.
//
// Connect and conversion rates use a denominator floor of 1 instead of
// the SafeDiv zero convention: skill rows may lack a dial count entirely,
// and 0% reads better than an undefined rate when the denominator is
// structurally absent rather than genuinely zero.
func ComputeSkillSummaries(production []types.ProductionRow) []types.SkillSummary {
	type accum struct {
		summary types.SkillSummary
		agents  map[string]struct{}
	}

	bySkill := make(map[string]*accum)
	for _, row := range production {
		skill := strings.TrimSpace(row.Skill)
		if skill == "" || strings.EqualFold(skill, "Unknown") {
			continue
		}

		acc, ok := bySkill[skill]
		if !ok {
			acc = &accum{
				summary: types.SkillSummary{
					Skill:        skill,
					Dispositions: make(map[string]int),
				},
				agents: make(map[string]struct{}),
			}
			bySkill[skill] = acc
		}

		acc.agents[strings.ToLower(strings.TrimSpace(row.Agent))] = struct{}{}
		acc.summary.Dialed += row.Dialed
		acc.summary.Connects += row.Connects
		acc.summary.Contacts += row.Contacts
		acc.summary.Transfers += row.Transfers
		acc.summary.ManHours += row.ManHours
		mergeDispositions(acc.summary.Dispositions, row.Dispositions)
	}

	summaries := make([]types.SkillSummary, 0, len(bySkill))
	for _, acc := range bySkill {
		s := acc.summary
		s.AgentCount = len(acc.agents)
		s.AvgTPH = Round(SafeDiv(float64(s.Transfers), s.ManHours), 2)
		s.ConnectRate = Round(float64(s.Connects)/float64(orOne(s.Dialed))*100, 2)
		s.ConversionRate = Round(float64(s.Transfers)/float64(orOne(s.Contacts))*100, 2)
		summaries = append(summaries, s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Transfers > summaries[j].Transfers
	})
	return summaries
}

func orOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}
