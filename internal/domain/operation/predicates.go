package operation

import (
	"github.com/algotycoon/server/internal/domain/state"
)

// PredicateName addresses a gate in the Predicates registry.
type PredicateName string

const (
	PredicateAlways           PredicateName = "always"
	PredicateSideJobAvailable PredicateName = "side_job_available"
	PredicateReputation30     PredicateName = "reputation_30"
	PredicateReputation50     PredicateName = "reputation_50"
	PredicateTeam2            PredicateName = "team_2"
	PredicateTeam3            PredicateName = "team_3"
	PredicateEntropy60        PredicateName = "entropy_60"
	PredicateCapBelowMax      PredicateName = "cap_below_max"
	PredicateLegalRisk20      PredicateName = "legal_risk_20"
	PredicateAlgorithm40      PredicateName = "algorithm_40"

	PredicateSideJobReputation30 PredicateName = "side_job_reputation_30"
	PredicateSideJobReputation50 PredicateName = "side_job_reputation_50"
)

// Predicate gates an operation on the current state.
type Predicate func(s state.GameState) bool

// Predicates maps every name used by the catalog to its gate.
var Predicates = map[PredicateName]Predicate{
	PredicateAlways:           func(state.GameState) bool { return true },
	PredicateSideJobAvailable: sideJobAvailable,
	PredicateReputation30:     func(s state.GameState) bool { return s.Reputation >= 30 },
	PredicateReputation50:     func(s state.GameState) bool { return s.Reputation >= 50 },
	PredicateTeam2:            func(s state.GameState) bool { return len(s.Team) >= 2 },
	PredicateTeam3:            func(s state.GameState) bool { return len(s.Team) >= 3 },
	PredicateEntropy60:        func(s state.GameState) bool { return s.Metrics.Entropy >= 60 },
	PredicateCapBelowMax:      func(s state.GameState) bool { return s.Metrics.FitScoreCap < 100 },
	PredicateLegalRisk20:      func(s state.GameState) bool { return s.Risks.LegalRisk >= 20 },
	PredicateAlgorithm40:      func(s state.GameState) bool { return s.Dimensions.Algorithm >= 40 },

	PredicateSideJobReputation30: func(s state.GameState) bool {
		return sideJobAvailable(s) && s.Reputation >= 30
	},
	PredicateSideJobReputation50: func(s state.GameState) bool {
		return sideJobAvailable(s) && s.Reputation >= 50
	},
}

func sideJobAvailable(s state.GameState) bool {
	return s.Progress.SideJobsThisTurn < state.MaxSideJobsPerTurn
}
