// Package session hosts live games for the network layer. A Session owns one
// game state and its random stream and serialises every action on it; the
// Manager creates, finds and retires sessions.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/engine"
	"github.com/algotycoon/server/internal/infra/storage"
	"github.com/algotycoon/server/internal/random"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownAction   = errors.New("unknown action")
)

// Snapshot is what a client sees after an action.
type Snapshot struct {
	GameID    string                   `json:"game_id"`
	Seed      int64                    `json:"seed"`
	State     state.GameState          `json:"state"`
	Available []string                 `json:"available_operations"`
	Rejected  bool                     `json:"rejected,omitempty"`
	Operation *engine.OperationPayload `json:"operation,omitempty"`
	Turn      *engine.TurnReport       `json:"turn,omitempty"`
	Refund    int                      `json:"refund,omitempty"`
}

// Session is one running game.
type Session struct {
	id        string
	seed      int64
	engine    *engine.Engine
	clock     func() time.Time
	startedAt time.Time

	mu         sync.Mutex
	rng        random.Source
	state      state.GameState
	lastActive time.Time
}

// ID returns the game id.
func (s *Session) ID() string { return s.id }

// Seed returns the seed the game's random stream was built from.
func (s *Session) Seed() int64 { return s.seed }

// LastActive returns when the session last handled an action.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// State returns a copy of the current game state.
func (s *Session) State() state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Snapshot returns the current state without acting.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	ops := s.engine.AvailableOperations(s.state)
	ids := make([]string, 0, len(ops))
	for _, op := range ops {
		ids = append(ids, op.ID)
	}
	return Snapshot{
		GameID:    s.id,
		Seed:      s.seed,
		State:     s.state.Clone(),
		Available: ids,
	}
}

func (s *Session) touch() {
	s.lastActive = s.clock()
}

// Execute runs a catalog operation. dim is only read by operations that need
// a dimension choice.
func (s *Session) Execute(operationID string, dim dimension.Key) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var opts []engine.ExecOption
	if dim != "" {
		opts = append(opts, engine.WithDimension(dim))
	}
	next, payload, err := s.engine.ExecuteOperation(s.state, operationID, s.rng, opts...)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next

	snap := s.snapshotLocked()
	snap.Operation = &payload
	snap.Rejected = !payload.Executed
	return snap, nil
}

// Upgrade buys the next level of an equipment track.
func (s *Session) Upgrade(track equipment.Type) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state.IsTerminal() {
		return Snapshot{}, fmt.Errorf("upgrade %s: %w", track, engine.ErrGameEnded)
	}
	next, ok := s.engine.UpgradeEquipment(s.state, track)
	s.state = next

	snap := s.snapshotLocked()
	snap.Rejected = !ok
	return snap, nil
}

// Hire moves a candidate from the hiring pool onto the team.
func (s *Session) Hire(candidateID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	next, err := s.engine.HireMember(s.state, candidateID)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next
	return s.snapshotLocked(), nil
}

// Fire dismisses a team member.
func (s *Session) Fire(memberID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	next, refund, err := s.engine.FireMember(s.state, memberID)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next

	snap := s.snapshotLocked()
	snap.Refund = refund
	return snap, nil
}

// EndTurn advances the game by one turn.
func (s *Session) EndTurn() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state.IsTerminal() {
		return Snapshot{}, fmt.Errorf("end turn: %w", engine.ErrGameEnded)
	}
	next, report := s.engine.AdvanceTurn(s.state, s.rng)
	s.state = next

	snap := s.snapshotLocked()
	snap.Turn = &report
	return snap, nil
}

// Summary returns the run summary row for this session.
func (s *Session) Summary() storage.RunSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	return storage.RunSummary{
		GameID:      s.id,
		Archetype:   string(st.Archetype),
		Difficulty:  string(st.Difficulty),
		Seed:        s.seed,
		Status:      string(st.GameStatus),
		Reason:      st.GameOverReason,
		Turn:        st.Progress.Turn,
		ExamsPassed: st.Progress.ExamsPassed,
		Budget:      st.Resources.Budget,
		Reputation:  st.Reputation,
		TeamSize:    len(st.Team),
		StartedAt:   s.startedAt,
		UpdatedAt:   s.clock().UTC(),
	}
}
