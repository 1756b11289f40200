package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/platform/config"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "nested", "tycoon.db"), config.DefaultTuning())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitSQLiteInMemory(t *testing.T) {
	db, err := InitSQLite(MemoryPath, config.DefaultTuning())
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteLedgerRepository(db)
	entries, err := repo.GetByGame(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLedgerWriteThrough(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteLedgerRepository(openTestDB(t))
	el := events.NewEventLog(NewLedgerPersister(repo, 0))

	appended := []events.GameEvent{
		{GameID: "g1", Type: events.EventTypeGameStarted, ActorID: "PLAYER", TargetID: "startup", Turn: 1},
		{GameID: "g1", Type: events.EventTypeOperationExecuted, ActorID: "PLAYER", TargetID: "web_crawl",
			Payload: map[string]any{"operation_id": "web_crawl"}, Turn: 1},
		{GameID: "g2", Type: events.EventTypeGameStarted, ActorID: "PLAYER", TargetID: "academic", Turn: 1},
		{GameID: "g1", Type: events.EventTypeTurnEnded, ActorID: events.SystemActor, Turn: 2},
	}
	for _, e := range appended {
		_, err := el.Append(e)
		require.NoError(t, err)
	}

	all, err := repo.GetByGame(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, string(events.EventTypeGameStarted), all[0].EventType)
	assert.Equal(t, "web_crawl", all[1].TargetID)
	assert.JSONEq(t, `{"operation_id":"web_crawl"}`, string(all[1].Payload))
	assert.JSONEq(t, `null`, string(all[0].Payload))
	assert.Equal(t, el.GetByGame("g1")[1].ID, all[1].ID)
	assert.WithinDuration(t, el.GetByGame("g1")[1].Timestamp, all[1].Timestamp, time.Microsecond)

	turn1, err := repo.GetByTurn(ctx, "g1", 1)
	require.NoError(t, err)
	assert.Len(t, turn1, 2)

	ops, err := repo.GetByType(ctx, "g1", string(events.EventTypeOperationExecuted))
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestLedgerRejectsDuplicateIDs(t *testing.T) {
	repo := NewSQLiteLedgerRepository(openTestDB(t))
	entry := LedgerEntry{ID: "same", GameID: "g", Timestamp: time.Now(), EventType: "X", ActorID: "a"}

	require.NoError(t, repo.Append(context.Background(), entry))
	assert.Error(t, repo.Append(context.Background(), entry))
}

func TestRunRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRunRepository(openTestDB(t))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	run := RunSummary{
		GameID: "g1", Archetype: "startup", Difficulty: "normal", Seed: 42,
		Status: "playing", Turn: 1, Budget: 12000, Reputation: 30,
		StartedAt: start, UpdatedAt: start,
	}
	require.NoError(t, repo.Upsert(ctx, run))

	run.Turn = 7
	run.ExamsPassed = 1
	run.Status = "gameOver"
	run.Reason = "Bankrupt"
	run.UpdatedAt = start.Add(time.Minute)
	require.NoError(t, repo.Upsert(ctx, run))

	got, err := repo.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Turn)
	assert.Equal(t, "gameOver", got.Status)
	assert.Equal(t, int64(42), got.Seed)
	assert.True(t, start.Equal(got.StartedAt))

	require.NoError(t, repo.Upsert(ctx, RunSummary{
		GameID: "g2", Archetype: "academic", Difficulty: "hard", Status: "playing",
		UpdatedAt: start.Add(time.Hour),
	}))
	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "g2", runs[0].GameID)

	runs, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecap(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteLedgerRepository(openTestDB(t))
	el := events.NewEventLog(NewLedgerPersister(repo, time.Second))

	for _, e := range []events.GameEvent{
		{GameID: "g1", Type: events.EventTypeGameStarted, ActorID: "PLAYER", TargetID: "startup", Turn: 1},
		{GameID: "g1", Type: events.EventTypeTurnEnded, ActorID: events.SystemActor, Turn: 2},
		{GameID: "g1", Type: events.EventTypeExamCompleted, ActorID: events.SystemActor, Turn: 6,
			Payload: map[string]any{"credited": 9000, "result": map[string]any{"scenario": "Flash Sale", "passed": true}}},
		{GameID: "g1", Type: events.EventTypeWorldEvent, ActorID: events.SystemActor, Turn: 6,
			Payload: map[string]any{"name": "Data Breach", "type": "negative"}},
		{GameID: "g1", Type: events.EventTypeMeltdown, ActorID: events.SystemActor, Turn: 7,
			Payload: map[string]any{"repair_cost": 800}},
	} {
		_, err := el.Append(e)
		require.NoError(t, err)
	}

	recap, err := NewReconstructor(repo).Recap(ctx, "g1", 1)
	require.NoError(t, err)
	require.Len(t, recap, 4)
	assert.Equal(t, "Founded a startup company.", recap[0].Summary)
	assert.Equal(t, "Passed the Flash Sale exam and earned 9000.", recap[1].Summary)
	assert.Equal(t, ImpactPositive, recap[1].Impact)
	assert.Equal(t, "Data Breach.", recap[2].Summary)
	assert.Equal(t, ImpactNegative, recap[2].Impact)
	assert.Equal(t, ImpactNegative, recap[3].Impact)

	recap, err = NewReconstructor(repo).Recap(ctx, "g1", 7)
	require.NoError(t, err)
	require.Len(t, recap, 1)
	assert.Equal(t, "Servers melted down; repairs cost 800.", recap[0].Summary)
}
