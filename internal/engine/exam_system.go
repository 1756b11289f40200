package engine

import (
	"github.com/algotycoon/server/internal/domain/exam"
	"github.com/algotycoon/server/internal/domain/rules"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/random"
)

// ExamReport is the scored exam plus everything its settlement changed.
type ExamReport struct {
	Result          exam.Result `json:"result"`
	Credited        int         `json:"credited"`
	BudgetPenalty   int         `json:"budget_penalty,omitempty"`
	ReputationDelta int         `json:"reputation_delta,omitempty"`
	Payroll         Payroll     `json:"payroll"`
	LevelUps        []LevelUp   `json:"level_ups,omitempty"`
}

// ExamSystem scores market tests and settles their rewards.
type ExamSystem struct {
	failReputation int
}

// NewExamSystem creates the exam system. failReputation is the flat
// reputation loss on a failed exam.
func NewExamSystem(failReputation int) *ExamSystem {
	return &ExamSystem{failReputation: failReputation}
}

// Score draws a scenario and scores s against it.
func (xs *ExamSystem) Score(s state.GameState, rng random.Source) exam.Result {
	sc := exam.Scenarios[random.Intn(rng, len(exam.Scenarios))]
	return xs.ScoreScenario(s, sc)
}

// ScoreScenario scores s against a fixed scenario.
func (xs *ExamSystem) ScoreScenario(s state.GameState, sc exam.Scenario) exam.Result {
	passed := s.Progress.ExamsPassed
	diff, ok := state.DifficultyConfigFor(s.Difficulty)
	if !ok {
		diff, _ = state.DifficultyConfigFor(state.DifficultyNormal)
	}

	focus := sc.Focus(passed)
	values := make([]int, len(focus))
	for i, k := range focus {
		values[i] = s.Dimensions.Get(k)
	}

	r := exam.Result{
		Scenario:             sc.Name,
		AdjustedTraffic:      rules.AdjustedTraffic(sc.BaseTraffic, diff.TrafficGrowthRate, passed),
		FitScoreMultiplier:   float64(s.Metrics.FitScore) / 100,
		StabilityCoefficient: rules.StabilityCoefficient(s.Risks.ServerMeltdown, s.Metrics.Entropy),
		DimensionBonus:       rules.DimensionBonus(values, passed),
		FocusDimensions:      focus,
		Difficulty:           s.Difficulty,
		RewardMultiplier:     rules.RewardMultiplier(passed),
		ReputationBonus:      rules.ReputationBonus(s.Reputation),
	}

	count, value := diff.Gate.Requirement(passed)
	r.Threshold = exam.ThresholdInfo{
		RequiredCount: count,
		RequiredValue: value,
		ActualCount:   s.Dimensions.CountAbove(value),
	}
	r.MeetsThreshold = r.Threshold.Met()

	if r.MeetsThreshold {
		r.FinalReward = rules.Floor(float64(r.AdjustedTraffic) *
			r.FitScoreMultiplier *
			r.StabilityCoefficient *
			r.DimensionBonus *
			r.RewardMultiplier *
			r.ReputationBonus)
	}
	r.Passed = r.FinalReward > 0 && r.MeetsThreshold
	return r
}

// Settle credits the reward, scaled by the archetype multiplier, or applies
// the difficulty penalties. Payroll, exam count and experience are left to
// the orchestrator.
func (xs *ExamSystem) Settle(s state.GameState, r exam.Result) (state.GameState, ExamReport) {
	out := s.Clone()
	report := ExamReport{Result: r}

	if r.Passed {
		mult := 1.0
		if cfg, ok := state.ArchetypeConfigFor(s.Archetype); ok {
			mult = cfg.RewardMultiplier
		}
		report.Credited = rules.Floor(float64(r.FinalReward) * mult)
		out.Resources.Budget += report.Credited
		return out.Normalize(), report
	}

	diff, ok := state.DifficultyConfigFor(s.Difficulty)
	if !ok {
		diff, _ = state.DifficultyConfigFor(state.DifficultyNormal)
	}
	report.BudgetPenalty = diff.FailBudgetPenalty
	report.ReputationDelta = -(diff.FailReputationPenalty + xs.failReputation)
	out.Resources.Budget -= report.BudgetPenalty
	out.Reputation += report.ReputationDelta
	return out.Normalize(), report
}
