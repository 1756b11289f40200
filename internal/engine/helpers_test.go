package engine

import (
	"testing"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/domain/team"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/platform/config"
	"github.com/algotycoon/server/internal/platform/logger"
)

func newTestEngine(t *testing.T) (*Engine, *events.EventLog) {
	t.Helper()
	el := events.NewEventLog(nil)
	return NewEngine(el, logger.NewNop(), config.DefaultBalance()).ForGame("test-game"), el
}

// startupState mirrors a fresh startup game without a hiring pool.
func startupState() state.GameState {
	return state.GameState{
		Resources: state.Resources{Budget: 12000, ComputePoints: 5, ComputeMax: 5, DataCapacity: 1000},
		Metrics: state.Metrics{
			Accuracy: 10, Speed: 15, Creativity: 15, Robustness: 10,
			Entropy: 20, FitScoreCap: 60,
		},
		Dimensions: dimension.Values{Algorithm: 30, DataProcessing: 20, Stability: 25, UserExperience: 30},
		Equipment:  equipment.Default(),
		Progress:   state.Progress{Turn: 1, TurnsUntilExam: 4},
		Reputation: 30,
		Archetype:  state.ArchetypeStartup,
		Difficulty: state.DifficultyNormal,
		GameStatus: state.StatusPlaying,
	}.RecalculateFitScore()
}

func member(id string, r team.Rarity, traits ...team.TraitType) team.Member {
	cfg := team.RarityConfigFor(r)
	return team.Member{
		ID:         id,
		Name:       id,
		Rarity:     r,
		Traits:     traits,
		Level:      1,
		HiringCost: cfg.HiringCost,
		Salary:     team.Salary(r, 1),
	}
}

// assertInvariants checks the global invariants that must hold after every
// transition.
func assertInvariants(t *testing.T, s state.GameState) {
	t.Helper()
	m := s.Metrics
	if m.FitScoreCap < 0 || m.FitScoreCap > 100 {
		t.Fatalf("fitScoreCap out of range: %d", m.FitScoreCap)
	}
	for name, v := range map[string]int{
		"accuracy": m.Accuracy, "speed": m.Speed,
		"creativity": m.Creativity, "robustness": m.Robustness,
	} {
		if v < 0 || v > m.FitScoreCap {
			t.Fatalf("%s=%d outside [0,%d]", name, v, m.FitScoreCap)
		}
	}
	if m.FitScore > m.FitScoreCap {
		t.Fatalf("fitScore %d above cap %d", m.FitScore, m.FitScoreCap)
	}
	if m.Entropy < 0 || m.Entropy > 100 {
		t.Fatalf("entropy out of range: %d", m.Entropy)
	}
	for _, k := range dimension.All {
		if v := s.Dimensions.Get(k); v < 0 || v > dimension.Max {
			t.Fatalf("dimension %s=%d out of range", k, v)
		}
	}
	if s.Reputation < 0 || s.Reputation > 100 || s.Risks.LegalRisk < 0 || s.Risks.LegalRisk > 100 {
		t.Fatalf("reputation/legal risk out of range: %d/%d", s.Reputation, s.Risks.LegalRisk)
	}
	if s.Resources.DirtyData < 0 || s.Resources.DirtyData > s.Resources.DataCapacity {
		t.Fatalf("dirty data %d outside capacity %d", s.Resources.DirtyData, s.Resources.DataCapacity)
	}
	if s.Resources.ComputeMax > equipment.MaxCompute {
		t.Fatalf("computeMax %d above %d", s.Resources.ComputeMax, equipment.MaxCompute)
	}
	if len(s.Team) > team.MaxSize {
		t.Fatalf("team size %d", len(s.Team))
	}
	if s.Progress.SideJobsThisTurn > state.MaxSideJobsPerTurn {
		t.Fatalf("side jobs %d", s.Progress.SideJobsThisTurn)
	}
	for _, mem := range s.Team {
		if len(mem.Traits) > mem.TraitCap() {
			t.Fatalf("%s has %d traits", mem.ID, len(mem.Traits))
		}
		seen := map[team.TraitType]bool{}
		for _, tr := range mem.Traits {
			if seen[tr] {
				t.Fatalf("%s has duplicate trait %s", mem.ID, tr)
			}
			seen[tr] = true
		}
	}
}
