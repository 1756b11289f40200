package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/algotycoon/server/internal/events"
)

// DefaultWriteTimeout bounds a single write-through append.
const DefaultWriteTimeout = 2 * time.Second

// LedgerPersister translates ledger events to storage entries so an
// events.EventLog can write through to a LedgerRepository.
type LedgerPersister struct {
	repo    LedgerRepository
	timeout time.Duration
}

// NewLedgerPersister wraps repo. A non-positive timeout uses
// DefaultWriteTimeout.
func NewLedgerPersister(repo LedgerRepository, timeout time.Duration) *LedgerPersister {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &LedgerPersister{repo: repo, timeout: timeout}
}

// Append implements events.EventPersister.
func (p *LedgerPersister) Append(event events.GameEvent) error {
	entry, err := ToEntry(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.repo.Append(ctx, entry)
}

// ToEntry converts a ledger event to its stored form.
func ToEntry(event events.GameEvent) (LedgerEntry, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("failed to marshal payload of %s: %w", event.Type, err)
	}
	return LedgerEntry{
		ID:        event.ID,
		GameID:    event.GameID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		TargetID:  event.TargetID,
		Payload:   payload,
		Turn:      event.Turn,
	}, nil
}
