// Package events provides the audit ledger for game sessions: an append-only
// log of every transition the engine applied.
package events

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a ledger entry.
type EventType string

const (
	EventTypeGameStarted       EventType = "GAME_STARTED"
	EventTypeOperationExecuted EventType = "OPERATION_EXECUTED"
	EventTypeOperationRejected EventType = "OPERATION_REJECTED"
	EventTypeEquipmentUpgraded EventType = "EQUIPMENT_UPGRADED"
	EventTypeMemberHired       EventType = "MEMBER_HIRED"
	EventTypeMemberFired       EventType = "MEMBER_FIRED"
	EventTypeMemberLevelUp     EventType = "MEMBER_LEVEL_UP"
	EventTypePayrollSettled    EventType = "PAYROLL_SETTLED"
	EventTypeExamCompleted     EventType = "EXAM_COMPLETED"
	EventTypeWorldEvent        EventType = "WORLD_EVENT"
	EventTypeTurnEnded         EventType = "TURN_ENDED"
	EventTypeTurnStarted       EventType = "TURN_STARTED"
	EventTypeMeltdown          EventType = "MELTDOWN"
	EventTypeGameOver          EventType = "GAME_OVER"
	EventTypeVictory           EventType = "VICTORY"
)

// SystemActor is the actor id used for entries the engine produces on its own
// (turn boundaries, world events, exams).
const SystemActor = "SYSTEM_ENGINE"

// GameEvent represents an immutable record of a transition.
type GameEvent struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	ActorID   string    `json:"actor_id"`            // Who performed the action
	TargetID  string    `json:"target_id,omitempty"` // What was affected (optional)
	Payload   any       `json:"payload"`             // Event-specific data
	Turn      int       `json:"turn"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only ledger with optional write-through
// persistence. Every entry gets a sequence number; cursors are sequence
// numbers, so they stay valid after Forget drops a retired game's entries.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	seqs      []int
	next      int
	persister EventPersister
}

// NewEventLog creates a new event log. persister may be nil.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
}

// Append adds a new event to the log, filling ID and Timestamp when unset.
// The event is kept in memory even if persisting it fails; the error is
// returned so the caller can log it.
func (el *EventLog) Append(event GameEvent) (GameEvent, error) {
	if event.ID == "" {
		event.ID = GenerateEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	el.mu.Lock()
	el.events = append(el.events, event)
	el.seqs = append(el.seqs, el.next)
	el.next++
	el.mu.Unlock()

	if el.persister != nil {
		if err := el.persister.Append(event); err != nil {
			return event, fmt.Errorf("persist event %s: %w", event.ID, err)
		}
	}
	return event, nil
}

// Filter narrows a query. Zero fields match everything.
type Filter struct {
	GameID  string
	ActorID string
	Type    EventType
	// Turn matches a single turn when HasTurn is set.
	Turn    int
	HasTurn bool
}

func (f Filter) matches(e GameEvent) bool {
	if f.GameID != "" && e.GameID != f.GameID {
		return false
	}
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.HasTurn && e.Turn != f.Turn {
		return false
	}
	return true
}

// Query returns every event matching f, oldest first.
func (el *EventLog) Query(f Filter) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if f.matches(e) {
			result = append(result, e)
		}
	}
	return result
}

// GetByGame returns all events of a session.
func (el *EventLog) GetByGame(gameID string) []GameEvent {
	return el.Query(Filter{GameID: gameID})
}

// GetByTurn returns the events a session produced during turn.
func (el *EventLog) GetByTurn(gameID string, turn int) []GameEvent {
	return el.Query(Filter{GameID: gameID, Turn: turn, HasTurn: true})
}

// Since returns a copy of the retained events whose sequence number is at
// least cursor.
func (el *EventLog) Since(cursor int) []GameEvent {
	events, _ := el.Tail(cursor)
	return events
}

// Tail returns the retained events from cursor on and the cursor to resume
// from.
func (el *EventLog) Tail(cursor int) ([]GameEvent, int) {
	el.mu.RLock()
	defer el.mu.RUnlock()

	i := sort.SearchInts(el.seqs, cursor)
	if i >= len(el.events) {
		return nil, el.next
	}
	return append([]GameEvent(nil), el.events[i:]...), el.next
}

// Cursor returns the sequence number the next appended event will get.
func (el *EventLog) Cursor() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.next
}

// Len returns the number of retained events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// Forget drops every retained event of gameID and returns how many were
// removed. Persisted copies are untouched.
func (el *EventLog) Forget(gameID string) int {
	el.mu.Lock()
	defer el.mu.Unlock()

	kept := 0
	for i, e := range el.events {
		if e.GameID == gameID {
			continue
		}
		el.events[kept] = e
		el.seqs[kept] = el.seqs[i]
		kept++
	}
	removed := len(el.events) - kept
	clear(el.events[kept:])
	el.events = el.events[:kept]
	el.seqs = el.seqs[:kept]
	return removed
}

// Replay returns a copy of the full history.
func (el *EventLog) Replay() []GameEvent {
	return el.Since(0)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
