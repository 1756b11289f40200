package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotycoon/server/internal/domain/operation"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/infra/storage"
	"github.com/algotycoon/server/internal/platform/config"
)

func serve(h *LedgerHandler, method, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func seededLog(t *testing.T, persister events.EventPersister) *events.EventLog {
	t.Helper()
	log := events.NewEventLog(persister)
	for _, e := range []events.GameEvent{
		{GameID: "g1", Type: events.EventTypeGameStarted, TargetID: "startup", Turn: 1},
		{GameID: "g1", Type: events.EventTypeOperationExecuted, TargetID: "web_crawl", Turn: 1},
		{GameID: "g1", Type: events.EventTypeTurnEnded, Turn: 1},
		{GameID: "g1", Type: events.EventTypeOperationExecuted, TargetID: "clean_data", Turn: 2},
		{GameID: "g2", Type: events.EventTypeGameStarted, TargetID: "academic", Turn: 1},
	} {
		_, err := log.Append(e)
		require.NoError(t, err)
	}
	return log
}

func TestLedgerFromMemory(t *testing.T) {
	h := NewLedgerHandler(seededLog(t, nil), nil, nil, nil)

	rec := serve(h, http.MethodGet, "/api/ledger?game_id=g1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body LedgerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Total)

	rec = serve(h, http.MethodGet, "/api/ledger?game_id=g1&turn=2")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "clean_data", body.Entries[0].TargetID)

	rec = serve(h, http.MethodGet, "/api/ledger?game_id=g1&type=OPERATION_EXECUTED")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
}

func TestLedgerFromStorage(t *testing.T) {
	db, err := storage.InitSQLite(filepath.Join(t.TempDir(), "ledger.db"), config.LowResourceTuning())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := storage.NewSQLiteLedgerRepository(db)
	seededLog(t, storage.NewLedgerPersister(repo, time.Second))
	// A fresh in-memory log proves the rows come from the repository.
	h := NewLedgerHandler(events.NewEventLog(nil), repo, nil, nil)

	rec := serve(h, http.MethodGet, "/api/ledger?game_id=g1&turn=1&type=OPERATION_EXECUTED")
	require.Equal(t, http.StatusOK, rec.Code)
	var body LedgerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "web_crawl", body.Entries[0].TargetID)

	rec = serve(h, http.MethodGet, "/api/ledger/recap?game_id=g1&since=2")
	require.Equal(t, http.StatusOK, rec.Code)
	var recap struct {
		Events []storage.RecapEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recap))
	require.Len(t, recap.Events, 1)
	assert.Equal(t, "Ran clean_data.", recap.Events[0].Summary)
}

func TestLedgerRejectsBadRequests(t *testing.T) {
	h := NewLedgerHandler(events.NewEventLog(nil), nil, nil, nil)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/api/ledger").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/api/ledger?game_id=g1&turn=two").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodPost, "/api/ledger?game_id=g1").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/api/ledger/recap?game_id=g1").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, http.MethodGet, "/api/runs").Code)
}

func TestRunsEndpoint(t *testing.T) {
	db, err := storage.InitSQLite(storage.MemoryPath, config.LowResourceTuning())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runs := storage.NewSQLiteRunRepository(db)
	require.NoError(t, runs.Upsert(context.Background(), storage.RunSummary{
		GameID: "g1", Archetype: "startup", Difficulty: "normal", Seed: 7, Status: "playing", Turn: 3,
	}))
	h := NewLedgerHandler(events.NewEventLog(nil), nil, runs, nil)

	rec := serve(h, http.MethodGet, "/api/runs?limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Runs []storage.RunSummary `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Runs, 1)
	assert.Equal(t, int64(7), body.Runs[0].Seed)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/api/runs?limit=-1").Code)
}

func TestOperationsEndpoint(t *testing.T) {
	h := NewLedgerHandler(events.NewEventLog(nil), nil, nil, nil)
	rec := serve(h, http.MethodGet, "/api/operations")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Operations []OperationView `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Operations, len(operation.All()))

	byID := map[string]OperationView{}
	for _, op := range body.Operations {
		byID[op.ID] = op
	}
	assert.Equal(t, 150, byID["web_crawl"].Cost.Budget)
	assert.True(t, byID["research_paper"].RequiresDimensionChoice)
}
