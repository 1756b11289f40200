package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteLedgerRepository implements LedgerRepository for SQLite.
type SQLiteLedgerRepository struct {
	db *sql.DB
}

func NewSQLiteLedgerRepository(db *sql.DB) *SQLiteLedgerRepository {
	return &SQLiteLedgerRepository{db: db}
}

func (r *SQLiteLedgerRepository) Append(ctx context.Context, entry LedgerEntry) error {
	payload := string(entry.Payload)
	if payload == "" {
		payload = "null"
	}

	query := `
		INSERT INTO ledger (id, game_id, ts, event_type, actor_id, target_id, payload, turn)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.GameID, entry.Timestamp.UnixNano(), entry.EventType, entry.ActorID,
		entry.TargetID, payload, entry.Turn,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

const ledgerColumns = `id, game_id, ts, event_type, actor_id, target_id, payload, turn`

func (r *SQLiteLedgerRepository) getMany(ctx context.Context, query string, args ...any) ([]LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []LedgerEntry
	for rows.Next() {
		var (
			e       LedgerEntry
			ts      int64
			payload string
		)
		err := rows.Scan(&e.ID, &e.GameID, &ts, &e.EventType, &e.ActorID, &e.TargetID, &payload, &e.Turn)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		e.Payload = []byte(payload)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteLedgerRepository) GetByGame(ctx context.Context, gameID string) ([]LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger WHERE game_id = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID)
}

func (r *SQLiteLedgerRepository) GetByTurn(ctx context.Context, gameID string, turn int) ([]LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger WHERE game_id = ? AND turn = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID, turn)
}

func (r *SQLiteLedgerRepository) GetByType(ctx context.Context, gameID, eventType string) ([]LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger WHERE game_id = ? AND event_type = ? ORDER BY seq ASC`
	return r.getMany(ctx, query, gameID, eventType)
}

// ---------------------------------------------------------
// SQLiteRunRepository
// ---------------------------------------------------------

type SQLiteRunRepository struct {
	db *sql.DB
}

func NewSQLiteRunRepository(db *sql.DB) *SQLiteRunRepository {
	return &SQLiteRunRepository{db: db}
}

func (r *SQLiteRunRepository) Upsert(ctx context.Context, run RunSummary) error {
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = time.Now().UTC()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = run.UpdatedAt
	}

	query := `
		INSERT INTO runs (game_id, archetype, difficulty, seed, status, reason, turn, exams_passed, budget, reputation, team_size, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			status=excluded.status,
			reason=excluded.reason,
			turn=excluded.turn,
			exams_passed=excluded.exams_passed,
			budget=excluded.budget,
			reputation=excluded.reputation,
			team_size=excluded.team_size,
			updated_at=excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		run.GameID, run.Archetype, run.Difficulty, run.Seed, run.Status, run.Reason,
		run.Turn, run.ExamsPassed, run.Budget, run.Reputation, run.TeamSize,
		run.StartedAt.UnixNano(), run.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert run %s: %w", run.GameID, err)
	}
	return nil
}

const runColumns = `game_id, archetype, difficulty, seed, status, reason, turn, exams_passed, budget, reputation, team_size, started_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunSummary, error) {
	var (
		run              RunSummary
		started, updated int64
	)
	err := row.Scan(&run.GameID, &run.Archetype, &run.Difficulty, &run.Seed, &run.Status, &run.Reason,
		&run.Turn, &run.ExamsPassed, &run.Budget, &run.Reputation, &run.TeamSize, &started, &updated)
	if err != nil {
		return RunSummary{}, err
	}
	run.StartedAt = time.Unix(0, started).UTC()
	run.UpdatedAt = time.Unix(0, updated).UTC()
	return run, nil
}

func (r *SQLiteRunRepository) Get(ctx context.Context, gameID string) (RunSummary, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE game_id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("get run %s: %w", gameID, ErrRunNotFound)
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("get run %s: %w", gameID, err)
	}
	return run, nil
}

func (r *SQLiteRunRepository) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY updated_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
