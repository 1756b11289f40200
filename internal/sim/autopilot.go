// Package sim plays whole games without a player. The autopilot follows a
// greedy policy so balance changes can be judged over many seeded runs.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/effect"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/operation"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/engine"
	"github.com/algotycoon/server/internal/platform/logger"
	"github.com/algotycoon/server/internal/random"
)

// DefaultMaxTurns bounds a run that neither wins nor goes bankrupt.
const DefaultMaxTurns = 120

const (
	// maxActionsPerTurn stops a turn even if compute is left.
	maxActionsPerTurn = 12
	// reserve is the budget the policy keeps back per team member plus one.
	reserve = 1500

	entropyAlarm = 60
	legalAlarm   = 50
	maxTeam      = 3
)

// Plan describes one autopilot run.
type Plan struct {
	Seed       int64
	Archetype  state.Archetype
	Difficulty state.Difficulty
	MaxTurns   int
}

// Result is the outcome of one run.
type Result struct {
	Seed        int64            `json:"seed"`
	Archetype   state.Archetype  `json:"archetype"`
	Difficulty  state.Difficulty `json:"difficulty"`
	Status      state.Status     `json:"status"`
	Reason      string           `json:"reason,omitempty"`
	Turns       int              `json:"turns"`
	ExamsPassed int              `json:"exams_passed"`
	Budget      int              `json:"budget"`
	Operations  int              `json:"operations"`
	Upgrades    int              `json:"upgrades"`
	Hires       int              `json:"hires"`
}

// Autopilot plays games on an engine.
type Autopilot struct {
	engine *engine.Engine
	logger *logger.Logger
}

// New creates an autopilot. The engine usually runs without a ledger.
func New(eng *engine.Engine, log *logger.Logger) *Autopilot {
	if log == nil {
		log = logger.NewNop()
	}
	return &Autopilot{engine: eng, logger: log}
}

// Run plays plan to the end, or to MaxTurns. Only ctx cancellation and an
// invalid plan return an error.
func (a *Autopilot) Run(ctx context.Context, plan Plan) (Result, error) {
	maxTurns := plan.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	eng := a.engine.ForGame(fmt.Sprintf("sim-%d", plan.Seed))
	rng := random.NewSeeded(plan.Seed)

	s, err := eng.InitializeGame(plan.Archetype, plan.Difficulty, rng)
	if err != nil {
		return Result{}, err
	}

	res := Result{Seed: plan.Seed, Archetype: plan.Archetype, Difficulty: plan.Difficulty}
	for s.Progress.Turn <= maxTurns && !s.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		s = a.playTurn(eng, s, rng, &res)
		s, _ = eng.AdvanceTurn(s, rng)
	}

	res.Status = s.GameStatus
	res.Reason = s.GameOverReason
	res.Turns = s.Progress.Turn
	res.ExamsPassed = s.Progress.ExamsPassed
	res.Budget = s.Resources.Budget

	a.logger.Debug("autopilot run finished",
		zap.Int64("seed", plan.Seed),
		zap.String("status", string(res.Status)),
		zap.Int("turns", res.Turns),
		zap.Int("exams_passed", res.ExamsPassed),
	)
	return res, nil
}

func (a *Autopilot) playTurn(eng *engine.Engine, s state.GameState, rng random.Source, res *Result) state.GameState {
	for _, t := range upgradeOrder(s) {
		next, ok := equipment.Lookup(t, s.Equipment.LevelOf(t)+1)
		if !ok || s.Resources.Budget-next.UpgradeCost < 2*floor(s) {
			continue
		}
		if out, ok := eng.UpgradeEquipment(s, t); ok {
			s = out
			res.Upgrades++
		}
	}

	if id, ok := pickCandidate(s); ok {
		if out, err := eng.HireMember(s, id); err == nil {
			s = out
			res.Hires++
		}
	}

	for i := 0; i < maxActionsPerTurn; i++ {
		op, dim, ok := a.choose(eng, s)
		if !ok {
			break
		}
		var opts []engine.ExecOption
		if op.RequiresDimensionChoice {
			opts = append(opts, engine.WithDimension(dim))
		}
		out, payload, err := eng.ExecuteOperation(s, op.ID, rng, opts...)
		if err != nil || !payload.Executed {
			break
		}
		s = out
		res.Operations++
	}
	return s
}

// floor is the budget the policy will not spend below.
func floor(s state.GameState) int {
	return reserve * (len(s.Team) + 1)
}

// upgradeOrder puts cooling first while entropy is high and storage first when
// dirty data is about to hit capacity.
func upgradeOrder(s state.GameState) []equipment.Type {
	switch {
	case s.Metrics.Entropy >= entropyAlarm:
		return []equipment.Type{equipment.Cooling, equipment.GPU}
	case s.Resources.DirtyData+s.Resources.GoldenData >= s.Resources.DataCapacity*3/4:
		return []equipment.Type{equipment.Storage, equipment.GPU}
	default:
		return []equipment.Type{equipment.GPU, equipment.Cooling, equipment.Network}
	}
}

// pickCandidate returns the cheapest candidate the company can carry for a
// few exam cycles.
func pickCandidate(s state.GameState) (string, bool) {
	if len(s.Team) >= maxTeam {
		return "", false
	}
	best := -1
	for i, c := range s.HiringPool {
		carry := c.HiringCost + c.Salary*3
		if s.Resources.Budget-carry < 2*floor(s) {
			continue
		}
		if best < 0 || c.HiringCost < s.HiringPool[best].HiringCost {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return s.HiringPool[best].ID, true
}

// choose picks the next operation. Alarms take priority; otherwise the
// highest positive value wins.
func (a *Autopilot) choose(eng *engine.Engine, s state.GameState) (operation.Operation, dimension.Key, bool) {
	ops := eng.AvailableOperations(s)
	if len(ops) == 0 {
		return operation.Operation{}, "", false
	}
	dim := weakestDimension(s)

	if s.Metrics.Entropy >= entropyAlarm {
		if op, ok := lowest(ops, func(b effect.Bundle) int { return b.Entropy }); ok {
			return op, dim, true
		}
	}
	if s.Risks.LegalRisk >= legalAlarm {
		if op, ok := lowest(ops, func(b effect.Bundle) int { return b.LegalRisk }); ok {
			return op, dim, true
		}
	}

	var (
		best      operation.Operation
		bestScore float64
		found     bool
	)
	for _, op := range ops {
		if op.Cost.Budget > 0 && s.Resources.Budget-op.Cost.Budget < floor(s) && !earns(op) {
			continue
		}
		if sc := score(op, s); sc > bestScore {
			best, bestScore, found = op, sc, true
		}
	}
	return best, dim, found
}

// lowest returns the operation whose field is most negative, if any is.
func lowest(ops []operation.Operation, field func(effect.Bundle) int) (operation.Operation, bool) {
	var (
		best  operation.Operation
		value int
	)
	for _, op := range ops {
		if op.IsGamble() {
			continue
		}
		if v := field(op.Effects); v < value {
			best, value = op, v
		}
	}
	return best, value < 0
}

func earns(op operation.Operation) bool {
	lo, _ := op.Effects.Budget.Bounds()
	return lo > op.Cost.Budget
}

func weakestDimension(s state.GameState) dimension.Key {
	weakest := dimension.All[0]
	for _, k := range dimension.All[1:] {
		if s.Dimensions.Get(k) < s.Dimensions.Get(weakest) {
			weakest = k
		}
	}
	return weakest
}

// score weighs an operation's expected effect on the company.
func score(op operation.Operation, s state.GameState) float64 {
	if op.IsGamble() {
		g := op.Gamble
		return g.SuccessRate*bundleValue(g.Success, s) + (1-g.SuccessRate)*bundleValue(g.Failure, s) - float64(op.Cost.Budget)/100
	}
	return bundleValue(op.Effects, s) - float64(op.Cost.Budget)/100
}

func bundleValue(b effect.Bundle, s state.GameState) float64 {
	lo, hi := b.Budget.Bounds()
	v := float64(lo+hi) / 200

	metrics := 0.4*float64(b.Accuracy) + 0.25*float64(b.Speed) + 0.2*float64(b.Creativity) + 0.15*float64(b.Robustness)
	if s.Metrics.FitScore < s.Metrics.FitScoreCap {
		v += 4 * metrics
	}

	dims := b.ChosenDimension
	for _, d := range b.Dimensions {
		dims += d
	}
	if b.RandomDimensions != nil {
		dims += b.RandomDimensions.Count * b.RandomDimensions.Amount
	}
	v += float64(dims)

	v += 0.05*float64(b.GoldenData) + 0.005*float64(b.DirtyData)
	v += float64(b.Reputation) + float64(b.FitScoreCap)/2

	v -= float64(b.Entropy) * (0.5 + float64(s.Metrics.Entropy)/50)
	v -= float64(b.LegalRisk) * (0.3 + float64(s.Risks.LegalRisk)/50)
	return v
}
