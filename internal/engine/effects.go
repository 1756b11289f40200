package engine

import (
	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/effect"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/rules"
	"github.com/algotycoon/server/internal/domain/state"
	"github.com/algotycoon/server/internal/random"
)

// Applied records what an effect bundle actually did once ranges were drawn
// and scaling applied.
type Applied struct {
	BudgetDelta      int                   `json:"budget_delta"`
	DimensionDeltas  map[dimension.Key]int `json:"dimension_deltas,omitempty"`
	RandomDimensions []dimension.Key       `json:"random_dimensions,omitempty"`
	MetricGains      map[string]int        `json:"metric_gains,omitempty"`
	EntropyDelta     int                   `json:"entropy_delta"`
}

// applyMode selects whether training and cooling scaling apply.
type applyMode int

const (
	// scaledApply is used for operations: positive metric gains are scaled by
	// training efficiency and GPU, positive entropy by cooling.
	scaledApply applyMode = iota
	// literalApply is used for world events.
	literalApply
)

// applyBundle applies b to s and returns the normalized result. The only
// draws are the budget range followed by the random dimension picks, in that
// order.
func applyBundle(s state.GameState, b effect.Bundle, rng random.Source, mode applyMode, chosen dimension.Key) (state.GameState, Applied) {
	applied := Applied{}

	if !b.Budget.IsZero() {
		lo, hi := b.Budget.Bounds()
		delta := lo
		if b.Budget.IsRange() {
			delta = random.IntRange(rng, lo, hi)
		}
		s.Resources.Budget += delta
		applied.BudgetDelta = delta
	}

	s.Resources.ComputePoints += b.ComputePoints
	s.Resources.DirtyData = rules.Clamp(s.Resources.DirtyData+b.DirtyData, 0, s.Resources.DataCapacity)
	s.Resources.GoldenData = rules.Clamp(s.Resources.GoldenData+b.GoldenData, 0, s.Resources.DataCapacity)

	scale := func(delta int) int { return delta }
	entropyScale := func(delta int) int { return delta }
	if mode == scaledApply {
		eff := 1.0
		if cfg, ok := state.ArchetypeConfigFor(s.Archetype); ok {
			eff = cfg.TrainingEfficiency
		}
		gpu := s.Equipment.BonusOf(equipment.GPU)
		cooling := s.Equipment.BonusOf(equipment.Cooling)
		scale = func(delta int) int { return rules.ScaleTrainingGain(delta, eff, gpu) }
		entropyScale = func(delta int) int { return rules.ScaleEntropyGain(delta, cooling) }
	}

	gains := map[string]int{}
	addMetric := func(name string, field *int, delta int) {
		if delta == 0 {
			return
		}
		d := scale(delta)
		*field += d
		gains[name] = d
	}
	addMetric("accuracy", &s.Metrics.Accuracy, b.Accuracy)
	addMetric("speed", &s.Metrics.Speed, b.Speed)
	addMetric("creativity", &s.Metrics.Creativity, b.Creativity)
	addMetric("robustness", &s.Metrics.Robustness, b.Robustness)
	if len(gains) > 0 {
		applied.MetricGains = gains
	}

	if b.Entropy != 0 {
		applied.EntropyDelta = entropyScale(b.Entropy)
		s.Metrics.Entropy += applied.EntropyDelta
	}

	// A cap change re-clamps the four metrics in Normalize below.
	s.Metrics.FitScoreCap += b.FitScoreCap
	s.Risks.LegalRisk += b.LegalRisk
	s.Reputation += b.Reputation

	dims := map[dimension.Key]int{}
	for _, k := range dimension.All {
		if d, ok := b.Dimensions[k]; ok && d != 0 {
			s.Dimensions = s.Dimensions.Add(k, d)
			dims[k] += d
		}
	}

	if rd := b.RandomDimensions; rd != nil && rd.Count > 0 && rd.Amount != 0 {
		picked := pickDimensions(rng, rd.Count)
		for _, k := range picked {
			s.Dimensions = s.Dimensions.Add(k, rd.Amount)
			dims[k] += rd.Amount
		}
		applied.RandomDimensions = picked
	}

	if b.ChosenDimension != 0 && dimension.Valid(chosen) {
		s.Dimensions = s.Dimensions.Add(chosen, b.ChosenDimension)
		dims[chosen] += b.ChosenDimension
	}
	if len(dims) > 0 {
		applied.DimensionDeltas = dims
	}

	return s.Normalize(), applied
}

// pickDimensions selects count distinct dimensions with a partial
// Fisher-Yates shuffle over the canonical order.
func pickDimensions(rng random.Source, count int) []dimension.Key {
	pool := append([]dimension.Key(nil), dimension.All...)
	if count > len(pool) {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		j := i + random.Intn(rng, len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}
