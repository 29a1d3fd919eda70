package engine

import (
	"fmt"

	"github.com/piwi3910/boardcut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string         `json:"name"`
	Settings model.Settings `json:"settings"`
}

// ComparisonResult holds the solution and summary figures for one scenario.
// Skipped is set when an exact strategy was not run because the input is
// over the limit.
type ComparisonResult struct {
	Scenario    ComparisonScenario `json:"scenario"`
	Solution    model.Solution     `json:"solution"`
	Skipped     bool               `json:"skipped"`
	Reason      string             `json:"reason,omitempty"`
	BoardsUsed  int                `json:"boards_used"`
	TotalCost   model.Cost         `json:"total_cost"`
	CuttingCost model.Cost         `json:"cutting_cost"`
	Efficiency  float64            `json:"efficiency"`
	Explored    int                `json:"explored"`
	Pruned      int                `json:"pruned"`
}

// CompareScenarios solves the pieces once per scenario, in scenario order.
// Scenarios whose exact strategy would exceed ExhaustiveLimit are reported as
// skipped instead of failing the comparison. Any other error aborts it.
func CompareScenarios(scenarios []ComparisonScenario, pieces []model.Piece) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		s := scenario.Settings
		if s.Strategy.Exact() && s.ExhaustiveLimit > 0 && len(pieces) > s.ExhaustiveLimit {
			results = append(results, ComparisonResult{
				Scenario: scenario,
				Skipped:  true,
				Reason:   fmt.Sprintf("too many pieces (%d > %d)", len(pieces), s.ExhaustiveLimit),
			})
			continue
		}

		sol, err := New(s).Optimize(pieces)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		results = append(results, ComparisonResult{
			Scenario:    scenario,
			Solution:    sol,
			BoardsUsed:  sol.BoardCount(),
			TotalCost:   sol.TotalCost,
			CuttingCost: sol.CuttingCost(),
			Efficiency:  sol.TotalEfficiency(),
			Explored:    sol.Stats.Explored,
			Pruned:      sol.Stats.Pruned,
		})
	}

	return results, nil
}

// BuildDefaultScenarios returns one scenario per strategy, all sharing the
// base settings.
func BuildDefaultScenarios(baseSettings model.Settings) []ComparisonScenario {
	names := map[model.Strategy]string{
		model.StrategyExhaustive:     "Exhaustive",
		model.StrategyBranchAndBound: "Branch and Bound",
		model.StrategyGreedy:         "Greedy",
	}

	scenarios := make([]ComparisonScenario, 0, len(model.Strategies))
	for _, strategy := range model.Strategies {
		s := baseSettings
		s.Strategy = strategy
		scenarios = append(scenarios, ComparisonScenario{Name: names[strategy], Settings: s})
	}
	return scenarios
}

// CompareStrategies runs every strategy on the pieces with the given settings.
func CompareStrategies(settings model.Settings, pieces []model.Piece) ([]ComparisonResult, error) {
	return CompareScenarios(BuildDefaultScenarios(settings), pieces)
}

// Cheapest returns the index of the cheapest result that was not skipped, or
// -1 when every scenario was skipped. Ties go to the earlier scenario.
func Cheapest(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if r.Skipped {
			continue
		}
		if best < 0 || r.TotalCost < results[best].TotalCost {
			best = i
		}
	}
	return best
}
