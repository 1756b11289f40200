package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/engine"
	"github.com/algotycoon/server/internal/infra/cache"
	"github.com/algotycoon/server/internal/infra/storage"
	"github.com/algotycoon/server/internal/platform/logger"
	"github.com/algotycoon/server/internal/random"
)

// ActionType names a player command.
type ActionType string

const (
	ActionNewGame          ActionType = "NEW_GAME"
	ActionExecuteOperation ActionType = "EXECUTE_OPERATION"
	ActionUpgradeEquipment ActionType = "UPGRADE_EQUIPMENT"
	ActionHire             ActionType = "HIRE"
	ActionFire             ActionType = "FIRE"
	ActionEndTurn          ActionType = "END_TURN"
)

// Action is a decoded player command.
type Action struct {
	Type        ActionType
	GameID      string
	OperationID string
	Equipment   equipment.Type
	MemberID    string
	Dimension   dimension.Key
	Archetype   state.Archetype
	Difficulty  state.Difficulty
	Seed        *int64
}

// Manager creates and tracks live sessions.
type Manager struct {
	engine *engine.Engine
	store  *cache.Store[*Session]
	runs   storage.RunRepository
	logger *logger.Logger
	clock  func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithRuns persists run summaries to repo.
func WithRuns(repo storage.RunRepository) Option {
	return func(m *Manager) { m.runs = repo }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(m *Manager) { m.clock = clock }
}

// NewManager creates a manager holding at most capacity live sessions. When
// capacity is exceeded the least recently used session is retired and its
// summary flushed.
func NewManager(eng *engine.Engine, capacity int, log *logger.Logger, opts ...Option) (*Manager, error) {
	if log == nil {
		log = logger.NewNop()
	}
	m := &Manager{
		engine: eng,
		logger: log,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	store, err := cache.NewStore[*Session](capacity, m.onEvict)
	if err != nil {
		return nil, err
	}
	m.store = store
	return m, nil
}

func (m *Manager) onEvict(id string, s *Session) {
	ctx, cancel := context.WithTimeout(context.Background(), storage.DefaultWriteTimeout)
	defer cancel()
	m.saveRun(ctx, s)
	dropped := 0
	if el := m.engine.GetEventLog(); el != nil {
		dropped = el.Forget(id)
	}
	m.logger.Info("session retired", zap.String("game_id", id), zap.Int("ledger_entries_released", dropped))
}

// Create starts a new game. A nil seed draws one from crypto/rand.
func (m *Manager) Create(ctx context.Context, a state.Archetype, d state.Difficulty, seed *int64) (*Session, error) {
	var sd int64
	if seed != nil {
		sd = *seed
	} else {
		var err error
		if sd, err = random.NewSeed(); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	id := uuid.NewString()
	eng := m.engine.ForGame(id)
	rng := random.NewSeeded(sd)

	st, err := eng.InitializeGame(a, d, rng)
	if err != nil {
		return nil, err
	}

	now := m.clock()
	s := &Session{
		id:         id,
		seed:       sd,
		engine:     eng,
		clock:      m.clock,
		startedAt:  now.UTC(),
		rng:        rng,
		state:      st,
		lastActive: now,
	}
	m.store.Put(id, s)
	m.saveRun(ctx, s)

	m.logger.Info("session created",
		zap.String("game_id", id),
		zap.String("archetype", string(a)),
		zap.String("difficulty", string(d)),
		zap.Int64("seed", sd),
	)
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return s, nil
}

// Len is the number of live sessions.
func (m *Manager) Len() int { return m.store.Len() }

// CacheStats reports session cache effectiveness.
func (m *Manager) CacheStats() cache.Stats { return m.store.Stats() }

// Apply dispatches a player command.
func (m *Manager) Apply(ctx context.Context, a Action) (Snapshot, error) {
	if a.Type == ActionNewGame {
		s, err := m.Create(ctx, a.Archetype, a.Difficulty, a.Seed)
		if err != nil {
			return Snapshot{}, err
		}
		return s.Snapshot(), nil
	}

	s, err := m.Get(a.GameID)
	if err != nil {
		return Snapshot{}, err
	}

	switch a.Type {
	case ActionExecuteOperation:
		return s.Execute(a.OperationID, a.Dimension)
	case ActionUpgradeEquipment:
		return s.Upgrade(a.Equipment)
	case ActionHire:
		return s.Hire(a.MemberID)
	case ActionFire:
		return s.Fire(a.MemberID)
	case ActionEndTurn:
		snap, err := s.EndTurn()
		if err != nil {
			return Snapshot{}, err
		}
		m.saveRun(ctx, s)
		return snap, nil
	}
	return Snapshot{}, fmt.Errorf("apply %q: %w", a.Type, ErrUnknownAction)
}

// Reap retires every session idle for longer than idleTTL and returns how
// many were removed.
func (m *Manager) Reap(idleTTL time.Duration) int {
	now := m.clock()
	removed := 0
	for _, id := range m.store.Keys() {
		s, ok := m.store.Peek(id)
		if !ok {
			continue
		}
		if now.Sub(s.LastActive()) > idleTTL && m.store.Remove(id) {
			removed++
		}
	}
	return removed
}

// Flush writes the summary of every live session.
func (m *Manager) Flush(ctx context.Context) {
	for _, id := range m.store.Keys() {
		if s, ok := m.store.Peek(id); ok {
			m.saveRun(ctx, s)
		}
	}
}

// RunReaper reaps idle sessions and flushes the rest on every tick until ctx
// is done, then flushes once more.
func (m *Manager) RunReaper(ctx context.Context, interval, idleTTL time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), storage.DefaultWriteTimeout)
			m.Flush(flushCtx)
			cancel()
			return
		case <-ticker.C:
			if n := m.Reap(idleTTL); n > 0 {
				m.logger.Info("reaped idle sessions", zap.Int("count", n))
			}
			m.Flush(ctx)
		}
	}
}

func (m *Manager) saveRun(ctx context.Context, s *Session) {
	if m.runs == nil {
		return
	}
	if err := m.runs.Upsert(ctx, s.Summary()); err != nil {
		m.logger.Error("failed to save run summary", zap.String("game_id", s.ID()), zap.Error(err))
	}
}
