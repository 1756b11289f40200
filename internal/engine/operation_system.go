package engine

import (
	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/operation"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/random"
)

// OperationPayload records an executed operation for audit.
type OperationPayload struct {
	OperationID     string         `json:"operation_id"`
	Executed        bool           `json:"executed"`
	Cost            operation.Cost `json:"cost"`
	Gamble          bool           `json:"gamble,omitempty"`
	GambleSucceeded bool           `json:"gamble_succeeded,omitempty"`
	Chosen          dimension.Key  `json:"chosen_dimension,omitempty"`
	Applied         Applied        `json:"applied"`
	TesterRefund    bool           `json:"tester_refund,omitempty"`
	LevelUps        []LevelUp      `json:"level_ups,omitempty"`
}

// ExecOption tunes a single operation execution.
type ExecOption func(*execOptions)

type execOptions struct {
	chosen dimension.Key
}

// WithDimension supplies the dimension for operations that require a choice.
func WithDimension(k dimension.Key) ExecOption {
	return func(o *execOptions) { o.chosen = k }
}

// OperationSystem validates and executes catalog operations.
type OperationSystem struct{}

// NewOperationSystem creates the operation executor.
func NewOperationSystem() *OperationSystem {
	return &OperationSystem{}
}

// CanExecute reports whether every declared cost is covered and the
// operation's predicate holds.
func (ops *OperationSystem) CanExecute(s state.GameState, op operation.Operation) bool {
	c := op.Cost
	r := s.Resources
	if c.Budget > 0 && r.Budget < c.Budget {
		return false
	}
	if r.ComputePoints < c.ComputePoints {
		return false
	}
	if r.DirtyData < c.DirtyData || r.GoldenData < c.GoldenData {
		return false
	}
	return op.Allowed(s)
}

// Execute deducts op's costs and applies its effects. Draws happen in a fixed
// order: gamble outcome, budget range, random dimensions. When CanExecute is
// false, or a required dimension choice is missing, s is returned unchanged
// and ok is false.
func (ops *OperationSystem) Execute(s state.GameState, op operation.Operation, rng random.Source, opts ...ExecOption) (state.GameState, OperationPayload, bool) {
	var o execOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !ops.CanExecute(s, op) {
		return s, OperationPayload{}, false
	}
	if op.RequiresDimensionChoice && !dimension.Valid(o.chosen) {
		return s, OperationPayload{}, false
	}

	out := s.Clone()
	out.Resources.Budget -= op.Cost.Budget
	out.Resources.ComputePoints -= op.Cost.ComputePoints
	out.Resources.DirtyData -= op.Cost.DirtyData
	out.Resources.GoldenData -= op.Cost.GoldenData
	if op.IsSideJob {
		out.Progress.SideJobsThisTurn++
	}

	payload := OperationPayload{OperationID: op.ID, Cost: op.Cost, Chosen: o.chosen}

	bundle := op.Effects
	if op.IsGamble() {
		payload.Gamble = true
		payload.GambleSucceeded = random.Chance(rng, op.Gamble.SuccessRate)
		if payload.GambleSucceeded {
			bundle = op.Gamble.Success
		} else {
			bundle = op.Gamble.Failure
		}
	}

	out, payload.Applied = applyBundle(out, bundle, rng, scaledApply, o.chosen)
	return out, payload, true
}
