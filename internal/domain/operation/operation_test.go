package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/effect"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/domain/team"
)

func TestCatalogShape(t *testing.T) {
	ops := All()
	require.Len(t, ops, 27)

	seen := map[string]bool{}
	for _, op := range ops {
		assert.False(t, seen[op.ID], "duplicate id %s", op.ID)
		seen[op.ID] = true

		if op.Predicate != "" {
			_, ok := Predicates[op.Predicate]
			assert.True(t, ok, "%s uses unregistered predicate %s", op.ID, op.Predicate)
		}
		if op.IsSideJob {
			assert.Equal(t, CategorySideJob, op.Category, op.ID)
		}
		if op.RequiresDimensionChoice {
			assert.NotZero(t, op.Effects.ChosenDimension, op.ID)
		}
		assert.Positive(t, op.Cost.ComputePoints, "%s should cost compute", op.ID)
	}

	total := 0
	for _, c := range Categories {
		total += len(ByCategory(c))
	}
	assert.Equal(t, len(ops), total)
}

func assertValidDimensions(t *testing.T, id string, b effect.Bundle) {
	t.Helper()
	for k, v := range b.Dimensions {
		assert.True(t, dimension.Valid(k), "%s touches unknown dimension %q", id, k)
		assert.NotZero(t, v, "%s has an empty %s delta", id, k)
	}
}

func TestCatalogDimensionDeltasAreValid(t *testing.T) {
	touched := 0
	for _, op := range All() {
		assertValidDimensions(t, op.ID, op.Effects)
		touched += len(op.Effects.Dimensions)
		if op.IsGamble() {
			assertValidDimensions(t, op.ID+"/success", op.Gamble.Success)
			assertValidDimensions(t, op.ID+"/failure", op.Gamble.Failure)
			touched += len(op.Gamble.Success.Dimensions) + len(op.Gamble.Failure.Dimensions)
		}
	}
	assert.Positive(t, touched)
}

func TestWebCrawl(t *testing.T) {
	op, ok := ByID("web_crawl")
	require.True(t, ok)

	assert.Equal(t, Cost{Budget: 150, ComputePoints: 1}, op.Cost)
	assert.Equal(t, 350, op.Effects.DirtyData)
	assert.Equal(t, 8, op.Effects.Entropy)
	assert.Equal(t, 5, op.Effects.LegalRisk)
	assert.False(t, op.IsGamble())
}

func TestByIDUnknown(t *testing.T) {
	_, ok := ByID("time_travel")
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	ops := All()
	ops[0].ID = "mutated"

	_, ok := ByID("mutated")
	assert.False(t, ok)
}

func TestSideJobThrottle(t *testing.T) {
	op, ok := ByID("outsourcing_project")
	require.True(t, ok)

	s := state.GameState{}
	assert.True(t, op.Allowed(s))

	s.Progress.SideJobsThisTurn = state.MaxSideJobsPerTurn
	assert.False(t, op.Allowed(s))
}

func TestCompositeSideJobPredicate(t *testing.T) {
	op, ok := ByID("consulting")
	require.True(t, ok)

	s := state.GameState{Reputation: 10}
	assert.False(t, op.Allowed(s), "low reputation")

	s.Reputation = 30
	assert.True(t, op.Allowed(s))

	s.Progress.SideJobsThisTurn = state.MaxSideJobsPerTurn
	assert.False(t, op.Allowed(s), "throttled")
}

func TestTeamPredicates(t *testing.T) {
	op, ok := ByID("hackathon")
	require.True(t, ok)

	s := state.GameState{Team: []team.Member{{ID: "a"}}}
	assert.False(t, op.Allowed(s))

	s.Team = append(s.Team, team.Member{ID: "b"})
	assert.True(t, op.Allowed(s))
}

func TestUnknownPredicateDenies(t *testing.T) {
	op := Operation{ID: "x", Predicate: "no_such_gate"}
	assert.False(t, op.Allowed(state.GameState{}))
}
