package sim

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/engine"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/platform/config"
)

func newAutopilot() *Autopilot {
	return New(engine.NewEngine(nil, nil, config.DefaultBalance()), nil)
}

func TestRunIsDeterministic(t *testing.T) {
	ap := newAutopilot()
	plan := Plan{Seed: 99, Archetype: state.ArchetypeStartup, Difficulty: state.DifficultyNormal, MaxTurns: 40}

	a, err := ap.Run(context.Background(), plan)
	require.NoError(t, err)
	b, err := ap.Run(context.Background(), plan)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("runs diverged (-first +second):\n%s", diff)
	}
	assert.Positive(t, a.Operations)
	assert.LessOrEqual(t, a.Turns, 41)
}

func TestRunStopsAtTurnLimit(t *testing.T) {
	res, err := newAutopilot().Run(context.Background(), Plan{
		Seed: 5, Archetype: state.ArchetypeBigTech, Difficulty: state.DifficultyEasy, MaxTurns: 3,
	})
	require.NoError(t, err)
	if res.Status == state.StatusPlaying {
		assert.Equal(t, 4, res.Turns)
	}
}

func TestRunRejectsBadPlan(t *testing.T) {
	_, err := newAutopilot().Run(context.Background(), Plan{Seed: 1, Archetype: "garage", Difficulty: state.DifficultyNormal})
	assert.ErrorIs(t, err, engine.ErrUnknownArchetype)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newAutopilot().Run(ctx, Plan{Seed: 1, Archetype: state.ArchetypeStartup, Difficulty: state.DifficultyNormal})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWritesLedgerUnderSimID(t *testing.T) {
	log := events.NewEventLog(nil)
	ap := New(engine.NewEngine(log, nil, config.DefaultBalance()), nil)
	_, err := ap.Run(context.Background(), Plan{Seed: 12, Archetype: state.ArchetypeAcademic, Difficulty: state.DifficultyNormal, MaxTurns: 6})
	require.NoError(t, err)

	entries := log.GetByGame("sim-12")
	require.NotEmpty(t, entries)
	assert.Equal(t, events.EventTypeGameStarted, entries[0].Type)
}

func TestRunBatchMatchesSequentialRuns(t *testing.T) {
	ap := newAutopilot()
	plans := Plans(100, 8, state.ArchetypeStartup, state.DifficultyHard, 30)

	batch, err := ap.RunBatch(context.Background(), plans, 3)
	require.NoError(t, err)
	require.Len(t, batch, len(plans))

	for i, plan := range plans {
		want, err := ap.Run(context.Background(), plan)
		require.NoError(t, err)
		assert.Equal(t, want, batch[i], "seed %d", plan.Seed)
	}
}

func TestRunBatchStopsOnError(t *testing.T) {
	plans := Plans(1, 4, state.ArchetypeStartup, state.DifficultyNormal, 10)
	plans[2].Difficulty = "impossible"
	_, err := newAutopilot().RunBatch(context.Background(), plans, 2)
	assert.ErrorIs(t, err, engine.ErrUnknownDifficulty)
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Result{
		{Status: state.StatusVictory, Turns: 40, ExamsPassed: 8, Budget: 90000},
		{Status: state.StatusGameOver, Turns: 10, ExamsPassed: 1, Budget: -500},
		{Status: state.StatusPlaying, Turns: 31, ExamsPassed: 6, Budget: 3500},
		{Status: state.StatusGameOver, Turns: 15, ExamsPassed: 2, Budget: -100},
	})
	assert.Equal(t, 4, sum.Runs)
	assert.Equal(t, 1, sum.Victories)
	assert.Equal(t, 2, sum.GameOvers)
	assert.Equal(t, 1, sum.Unfinished)
	assert.InDelta(t, 0.25, sum.VictoryRate(), 1e-9)
	assert.InDelta(t, 24.0, sum.AvgTurns, 1e-9)
	assert.Equal(t, 90000, sum.BestBudget)
	assert.Equal(t, -500, sum.WorstBudget)

	assert.Zero(t, Summarize(nil).VictoryRate())
}
