package engine

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/domain/effect"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/operation"
	"github.com/algotycoon/server/internal/domain/rules"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/domain/team"
	"github.com/algotycoon/server/internal/events"
	"github.com/algotycoon/server/internal/platform/config"
	"github.com/algotycoon/server/internal/platform/logger"
	"github.com/algotycoon/server/internal/platform/metrics"
	"github.com/algotycoon/server/internal/random"
)

// PlayerActor is the ledger actor for transitions a player asked for.
const PlayerActor = "PLAYER"

var (
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrUnknownArchetype  = errors.New("unknown archetype")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrDimensionRequired = errors.New("operation requires a dimension choice")
	ErrGameEnded         = errors.New("game has ended")
)

// maxCostReduction caps the team discount on operation budgets.
const maxCostReduction = 0.5

// Engine is the orchestrator a host drives. It sequences the subsystems and
// writes every transition to the audit ledger. An Engine holds no game state;
// it is bound to a session id with ForGame.
type Engine struct {
	eventLog *events.EventLog
	logger   *logger.Logger
	metrics  *metrics.Collector
	balance  config.Balance
	gameID   string

	// Sub-systems
	equipmentSystem *EquipmentSystem
	operationSystem *OperationSystem
	teamSystem      *TeamSystem
	eventSystem     *EventSystem
	examSystem      *ExamSystem
}

// NewEngine initializes the subsystems. eventLog may be nil to run without a
// ledger.
func NewEngine(eventLog *events.EventLog, log *logger.Logger, bal config.Balance) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		eventLog: eventLog,
		logger:   log,
		balance:  bal,

		equipmentSystem: NewEquipmentSystem(),
		operationSystem: NewOperationSystem(),
		teamSystem:      NewTeamSystem(bal.TraitGainChance),
		eventSystem:     NewEventSystem(bal.EventChance),
		examSystem:      NewExamSystem(bal.ExamFailReputation),
	}
}

// WithMetrics returns a copy of e that reports to c.
func (e *Engine) WithMetrics(c *metrics.Collector) *Engine {
	cp := *e
	cp.metrics = c
	return &cp
}

// ForGame returns a copy of e whose ledger entries carry gameID.
func (e *Engine) ForGame(gameID string) *Engine {
	cp := *e
	cp.gameID = gameID
	cp.logger = e.logger.With(zap.String("game_id", gameID))
	return &cp
}

// GameID returns the session id e is bound to.
func (e *Engine) GameID() string { return e.gameID }

// Balance returns the balance values in force.
func (e *Engine) Balance() config.Balance { return e.balance }

// GetEventLog exposes the ledger.
func (e *Engine) GetEventLog() *events.EventLog { return e.eventLog }

// Teams exposes the team system for hosts that render candidates.
func (e *Engine) Teams() *TeamSystem { return e.teamSystem }

// InitializeGame builds turn 1 of a new game.
func (e *Engine) InitializeGame(a state.Archetype, d state.Difficulty, rng random.Source) (state.GameState, error) {
	arch, ok := state.ArchetypeConfigFor(a)
	if !ok {
		return state.GameState{}, fmt.Errorf("initialize %q: %w", a, ErrUnknownArchetype)
	}
	diff, ok := state.DifficultyConfigFor(d)
	if !ok {
		return state.GameState{}, fmt.Errorf("initialize %q: %w", d, ErrUnknownDifficulty)
	}

	s := state.GameState{
		Resources: state.Resources{
			Budget:        rules.Floor(float64(arch.Budget) * diff.InitialBudgetMultiplier),
			ComputePoints: arch.ComputeMax,
			ComputeMax:    arch.ComputeMax,
			GoldenData:    arch.GoldenData,
			DataCapacity:  arch.DataCapacity,
		},
		Metrics: state.Metrics{
			Accuracy:    arch.Accuracy,
			Speed:       arch.Speed,
			Creativity:  arch.Creativity,
			Robustness:  arch.Robustness,
			Entropy:     20,
			FitScoreCap: arch.FitScoreCap,
		},
		Dimensions: arch.Dimensions,
		Equipment:  equipment.Default(),
		Progress: state.Progress{
			Turn:           1,
			TurnsUntilExam: state.TurnsUntilExam(1),
		},
		Team:       []team.Member{},
		Reputation: arch.Reputation,
		Archetype:  a,
		Difficulty: d,
		GameStatus: state.StatusPlaying,
	}
	s.HiringPool = e.teamSystem.GeneratePool(rng, s.Progress.Turn)
	s = s.Normalize()

	if e.metrics != nil {
		e.metrics.RecordGameStarted()
	}
	e.record(s, events.EventTypeGameStarted, PlayerActor, string(a), map[string]any{
		"archetype":  a,
		"difficulty": d,
		"budget":     s.Resources.Budget,
	})
	return s, nil
}

// CanExecuteOperation reports whether the catalog operation id can run now,
// after team discounts.
func (e *Engine) CanExecuteOperation(s state.GameState, id string) bool {
	op, ok := operation.ByID(id)
	if !ok || s.IsTerminal() {
		return false
	}
	return e.operationSystem.CanExecute(s, withTeamModifiers(op, TeamBonuses(s.Team)))
}

// AvailableOperations lists the catalog operations executable in s.
func (e *Engine) AvailableOperations(s state.GameState) []operation.Operation {
	var out []operation.Operation
	for _, op := range operation.All() {
		if e.CanExecuteOperation(s, op.ID) {
			out = append(out, op)
		}
	}
	return out
}

// ExecuteOperation resolves id against the catalog and runs it with the
// team's discounts and data bonus. After the executor's draws, a tester on
// the team may refund one compute point and every member gains experience.
// Unmet preconditions return s unchanged with Executed false.
func (e *Engine) ExecuteOperation(s state.GameState, id string, rng random.Source, opts ...ExecOption) (state.GameState, OperationPayload, error) {
	if s.IsTerminal() {
		return s, OperationPayload{}, fmt.Errorf("execute %s: %w", id, ErrGameEnded)
	}
	op, ok := operation.ByID(id)
	if !ok {
		return s, OperationPayload{}, fmt.Errorf("execute %q: %w", id, ErrUnknownOperation)
	}
	if op.RequiresDimensionChoice {
		var o execOptions
		for _, opt := range opts {
			opt(&o)
		}
		if o.chosen == "" {
			return s, OperationPayload{}, fmt.Errorf("execute %s: %w", id, ErrDimensionRequired)
		}
	}

	adjusted := withTeamModifiers(op, TeamBonuses(s.Team))
	out, payload, executed := e.operationSystem.Execute(s, adjusted, rng, opts...)
	if e.metrics != nil {
		e.metrics.RecordOperation(executed)
	}
	if !executed {
		e.record(s, events.EventTypeOperationRejected, PlayerActor, id, map[string]string{"operation_id": id})
		return s, OperationPayload{OperationID: id}, nil
	}
	payload.Executed = true

	if out.HasTeamTrait(team.TraitTester) && random.Chance(rng, e.balance.TesterRefundChance) {
		out.Resources.ComputePoints++
		payload.TesterRefund = true
	}

	out, payload.LevelUps = e.teamSystem.GrantExperience(out, e.balance.ExpPerOperation, rng)

	e.record(out, events.EventTypeOperationExecuted, PlayerActor, id, payload)
	for _, up := range payload.LevelUps {
		e.record(out, events.EventTypeMemberLevelUp, events.SystemActor, up.MemberID, up)
	}
	return out, payload, nil
}

// withTeamModifiers returns a copy of op with the team discount applied to
// its budget cost and the data bonus applied to positive data gains.
func withTeamModifiers(op operation.Operation, b Bonuses) operation.Operation {
	reduction := b.CostReduction
	if reduction > maxCostReduction {
		reduction = maxCostReduction
	}
	if reduction > 0 && op.Cost.Budget > 0 {
		op.Cost.Budget -= int(float64(op.Cost.Budget) * reduction)
	}

	if b.DataBonus > 0 {
		op.Effects = boostData(op.Effects, b.DataBonus)
		if op.Gamble != nil {
			g := *op.Gamble
			g.Success = boostData(g.Success, b.DataBonus)
			g.Failure = boostData(g.Failure, b.DataBonus)
			op.Gamble = &g
		}
	}
	return op
}

// boostData scales positive data gains by 1+bonus, flooring the result.
func boostData(b effect.Bundle, bonus float64) effect.Bundle {
	if b.DirtyData > 0 {
		b.DirtyData = rules.Floor(float64(b.DirtyData) * (1 + bonus))
	}
	if b.GoldenData > 0 {
		b.GoldenData = rules.Floor(float64(b.GoldenData) * (1 + bonus))
	}
	return b
}

// CanUpgradeEquipment reports whether t can be upgraded now.
func (e *Engine) CanUpgradeEquipment(s state.GameState, t equipment.Type) bool {
	return !s.IsTerminal() && e.equipmentSystem.CanUpgrade(s, t)
}

// UpgradeEquipment buys the next level of t. ok is false and s unchanged when
// the upgrade is not possible.
func (e *Engine) UpgradeEquipment(s state.GameState, t equipment.Type) (state.GameState, bool) {
	if s.IsTerminal() {
		return s, false
	}
	out, payload, ok := e.equipmentSystem.Upgrade(s, t)
	if ok {
		e.record(out, events.EventTypeEquipmentUpgraded, PlayerActor, string(t), payload)
	}
	return out, ok
}

// HireMember hires a candidate from the pool.
func (e *Engine) HireMember(s state.GameState, candidateID string) (state.GameState, error) {
	if s.IsTerminal() {
		return s, fmt.Errorf("hire %s: %w", candidateID, ErrGameEnded)
	}
	out, payload, err := e.teamSystem.Hire(s, candidateID)
	if err != nil {
		return s, err
	}
	e.record(out, events.EventTypeMemberHired, PlayerActor, candidateID, payload)
	return out, nil
}

// FireMember dismisses a member and returns the refund.
func (e *Engine) FireMember(s state.GameState, memberID string) (state.GameState, int, error) {
	if s.IsTerminal() {
		return s, 0, fmt.Errorf("fire %s: %w", memberID, ErrGameEnded)
	}
	out, payload, err := e.teamSystem.Fire(s, memberID)
	if err != nil {
		return s, 0, err
	}
	e.record(out, events.EventTypeMemberFired, PlayerActor, memberID, payload)
	return out, payload.Refund, nil
}

// PaySalaries settles payroll outside the exam cycle.
func (e *Engine) PaySalaries(s state.GameState, rng random.Source) (state.GameState, Payroll) {
	out, payroll := e.teamSystem.PaySalaries(s, rng)
	e.record(out, events.EventTypePayrollSettled, events.SystemActor, "", payroll)
	return out, payroll
}

// record appends a ledger entry and mirrors it to the log.
func (e *Engine) record(s state.GameState, t events.EventType, actor, target string, payload any) {
	e.logger.Event(string(t), actor, target, zap.Int("turn", s.Progress.Turn))
	if e.eventLog == nil {
		return
	}

	start := time.Now()
	_, err := e.eventLog.Append(events.GameEvent{
		GameID:   e.gameID,
		Type:     t,
		ActorID:  actor,
		TargetID: target,
		Payload:  payload,
		Turn:     s.Progress.Turn,
	})
	if e.metrics != nil {
		e.metrics.RecordEventWrite(time.Since(start), err)
	}
	if err != nil {
		e.logger.Error("failed to persist ledger entry", zap.String("type", string(t)), zap.Error(err))
	}
}
