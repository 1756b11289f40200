package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/platform/config"
	"github.com/algotycoon/server/internal/random"
)

// playSeeded drives a game with a fixed seed, choosing actions from the same
// stream, and returns every intermediate state.
func playSeeded(t *testing.T, seed int64, turns int) []state.GameState {
	t.Helper()
	e := NewEngine(nil, nil, config.DefaultBalance())
	rng := random.NewSeeded(seed)

	s, err := e.InitializeGame(state.ArchetypeStartup, state.DifficultyHard, rng)
	require.NoError(t, err)
	history := []state.GameState{s}

	for i := 0; i < turns && !s.IsTerminal(); i++ {
		for step := 0; step < 4; step++ {
			ops := e.AvailableOperations(s)
			if len(ops) == 0 {
				break
			}
			op := ops[random.Intn(rng, len(ops))]
			k := dimension.All[random.Intn(rng, len(dimension.All))]
			s, _, err = e.ExecuteOperation(s, op.ID, rng, WithDimension(k))
			require.NoError(t, err)
			history = append(history, s)
		}
		if tr := equipment.Types[random.Intn(rng, len(equipment.Types))]; e.CanUpgradeEquipment(s, tr) {
			s, _ = e.UpgradeEquipment(s, tr)
			history = append(history, s)
		}
		if len(s.HiringPool) > 0 && random.Chance(rng, 0.3) {
			if hired, err := e.HireMember(s, s.HiringPool[0].ID); err == nil {
				s = hired
				history = append(history, s)
			}
		}
		s, _ = e.AdvanceTurn(s, rng)
		history = append(history, s)
	}
	return history
}

func TestSeededRunsAreIdentical(t *testing.T) {
	a := playSeeded(t, 42, 40)
	b := playSeeded(t, 42, 40)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("seeded runs diverged (-first +second):\n%s", diff)
	}
}

func TestInvariantsHoldAcrossSeededRuns(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		for _, s := range playSeeded(t, seed, 60) {
			assertInvariants(t, s)
		}
	}
}
