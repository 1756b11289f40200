// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the engine pure.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrRunNotFound is returned when no summary row exists for a game.
var ErrRunNotFound = errors.New("run not found")

// LedgerEntry mirrors the ledger event structure for persistence.
// The engine does not import this; it talks to events.EventPersister.
type LedgerEntry struct {
	ID        string          `json:"id" db:"id"`
	GameID    string          `json:"game_id" db:"game_id"`
	Timestamp time.Time       `json:"timestamp" db:"ts"`
	EventType string          `json:"event_type" db:"event_type"`
	ActorID   string          `json:"actor_id" db:"actor_id"`
	TargetID  string          `json:"target_id" db:"target_id"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	Turn      int             `json:"turn" db:"turn"`
}

// LedgerRepository defines the interface for ledger persistence.
type LedgerRepository interface {
	// Append adds a new entry to the immutable ledger.
	Append(ctx context.Context, entry LedgerEntry) error

	// GetByGame retrieves every entry of a game in write order.
	GetByGame(ctx context.Context, gameID string) ([]LedgerEntry, error)

	// GetByTurn retrieves the entries written during one turn.
	GetByTurn(ctx context.Context, gameID string, turn int) ([]LedgerEntry, error)

	// GetByType retrieves the entries of one event type.
	GetByType(ctx context.Context, gameID, eventType string) ([]LedgerEntry, error)
}

// RunSummary is the latest known outcome of one game.
type RunSummary struct {
	GameID      string    `json:"game_id" db:"game_id"`
	Archetype   string    `json:"archetype" db:"archetype"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	Seed        int64     `json:"seed" db:"seed"`
	Status      string    `json:"status" db:"status"`
	Reason      string    `json:"reason,omitempty" db:"reason"`
	Turn        int       `json:"turn" db:"turn"`
	ExamsPassed int       `json:"exams_passed" db:"exams_passed"`
	Budget      int       `json:"budget" db:"budget"`
	Reputation  int       `json:"reputation" db:"reputation"`
	TeamSize    int       `json:"team_size" db:"team_size"`
	StartedAt   time.Time `json:"started_at" db:"started_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// RunRepository defines the interface for run summaries.
type RunRepository interface {
	// Upsert inserts or refreshes the summary of a game.
	Upsert(ctx context.Context, run RunSummary) error

	// Get retrieves one summary, or ErrRunNotFound.
	Get(ctx context.Context, gameID string) (RunSummary, error)

	// List returns up to limit summaries, most recently updated first.
	List(ctx context.Context, limit int) ([]RunSummary, error)
}
