package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/domain/operation"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/infra/storage"
	"github.com/algotycoon/server/internal/platform/logger"
)

// LedgerHandler serves the audit ledger, run summaries and the operation
// catalog. Any of the repositories may be nil; the ledger then falls back to
// the in-memory log and the other routes answer 503.
type LedgerHandler struct {
	eventLog *events.EventLog
	ledger   storage.LedgerRepository
	recaps   *storage.Reconstructor
	runs     storage.RunRepository
	logger   *logger.Logger
}

// NewLedgerHandler creates the ledger API.
func NewLedgerHandler(el *events.EventLog, ledger storage.LedgerRepository, runs storage.RunRepository, log *logger.Logger) *LedgerHandler {
	if log == nil {
		log = logger.NewNop()
	}
	h := &LedgerHandler{
		eventLog: el,
		ledger:   ledger,
		runs:     runs,
		logger:   log,
	}
	if ledger != nil {
		h.recaps = storage.NewReconstructor(ledger)
	}
	return h
}

// LedgerResponse is the body of GET /api/ledger.
type LedgerResponse struct {
	GameID      string                `json:"game_id"`
	Total       int                   `json:"total"`
	GeneratedAt string                `json:"generated_at"`
	Entries     []storage.LedgerEntry `json:"entries"`
}

// HandleLedger returns the ledger of a game.
// GET /api/ledger?game_id=XXX&turn=N&type=EXAM_COMPLETED
func (lh *LedgerHandler) HandleLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	gameID := q.Get("game_id")
	if gameID == "" {
		jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}
	filter := events.Filter{GameID: gameID, Type: events.EventType(q.Get("type"))}
	if turnStr := q.Get("turn"); turnStr != "" {
		turn, err := strconv.Atoi(turnStr)
		if err != nil {
			jsonError(w, "turn must be an integer", http.StatusBadRequest)
			return
		}
		filter.Turn, filter.HasTurn = turn, true
	}

	entries, err := lh.entries(r, filter)
	if err != nil {
		lh.logger.Error("failed to read ledger", zap.String("game_id", gameID), zap.Error(err))
		jsonError(w, "Failed to read ledger", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, LedgerResponse{
		GameID:      gameID,
		Total:       len(entries),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:     entries,
	})
}

func (lh *LedgerHandler) entries(r *http.Request, f events.Filter) ([]storage.LedgerEntry, error) {
	if lh.ledger == nil {
		var out []storage.LedgerEntry
		for _, e := range lh.eventLog.Query(f) {
			entry, err := storage.ToEntry(e)
			if err != nil {
				return nil, err
			}
			out = append(out, entry)
		}
		return out, nil
	}

	var (
		rows []storage.LedgerEntry
		err  error
	)
	switch {
	case f.HasTurn:
		rows, err = lh.ledger.GetByTurn(r.Context(), f.GameID, f.Turn)
	case f.Type != "":
		rows, err = lh.ledger.GetByType(r.Context(), f.GameID, string(f.Type))
	default:
		rows, err = lh.ledger.GetByGame(r.Context(), f.GameID)
	}
	if err != nil {
		return nil, err
	}

	out := rows[:0]
	for _, row := range rows {
		if f.Type != "" && row.EventType != string(f.Type) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// HandleRecap returns the human-readable story of a game.
// GET /api/ledger/recap?game_id=XXX&since=N
func (lh *LedgerHandler) HandleRecap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if lh.recaps == nil {
		jsonError(w, "Ledger storage disabled", http.StatusServiceUnavailable)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}
	since := 0
	if s := r.URL.Query().Get("since"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			jsonError(w, "since must be an integer", http.StatusBadRequest)
			return
		}
		since = v
	}

	recap, err := lh.recaps.Recap(r.Context(), gameID, since)
	if err != nil {
		lh.logger.Error("failed to build recap", zap.String("game_id", gameID), zap.Error(err))
		jsonError(w, "Failed to build recap", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"game_id": gameID,
		"events":  recap,
	})
}

// HandleRuns lists recent run summaries.
// GET /api/runs?limit=N
func (lh *LedgerHandler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if lh.runs == nil {
		jsonError(w, "Run storage disabled", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = v
	}

	runs, err := lh.runs.List(r.Context(), limit)
	if err != nil {
		lh.logger.Error("failed to list runs", zap.Error(err))
		jsonError(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// OperationView is the public form of a catalog entry.
type OperationView struct {
	ID                      string             `json:"id"`
	Name                    string             `json:"name"`
	Description             string             `json:"description"`
	Category                operation.Category `json:"category"`
	Cost                    operation.Cost     `json:"cost"`
	Gamble                  bool               `json:"gamble"`
	SideJob                 bool               `json:"side_job"`
	RequiresDimensionChoice bool               `json:"requires_dimension_choice"`
}

// HandleOperations lists the operation catalog.
// GET /api/operations
func (lh *LedgerHandler) HandleOperations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	all := operation.All()
	views := make([]OperationView, 0, len(all))
	for _, op := range all {
		views = append(views, OperationView{
			ID:                      op.ID,
			Name:                    op.Name,
			Description:             op.Description,
			Category:                op.Category,
			Cost:                    op.Cost,
			Gamble:                  op.IsGamble(),
			SideJob:                 op.IsSideJob,
			RequiresDimensionChoice: op.RequiresDimensionChoice,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"operations": views})
}

// RegisterRoutes sets up the ledger API routes.
func (lh *LedgerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ledger", lh.HandleLedger)
	mux.HandleFunc("/api/ledger/recap", lh.HandleRecap)
	mux.HandleFunc("/api/runs", lh.HandleRuns)
	mux.HandleFunc("/api/operations", lh.HandleOperations)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
