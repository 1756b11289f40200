package state

import "github.com/algotycoon/server/internal/domain/dimension"

// Archetype is the company flavour picked at game start.
type Archetype string

const (
	ArchetypeStartup  Archetype = "startup"
	ArchetypeBigTech  Archetype = "bigtech"
	ArchetypeAcademic Archetype = "academic"
)

// Archetypes lists every archetype.
var Archetypes = []Archetype{ArchetypeStartup, ArchetypeBigTech, ArchetypeAcademic}

// ArchetypeConfig seeds a new game and tunes the economy.
type ArchetypeConfig struct {
	Name               string
	Budget             int
	ComputeMax         int
	DataCapacity       int
	GoldenData         int
	Accuracy           int
	Speed              int
	Creativity         int
	Robustness         int
	FitScoreCap        int
	Dimensions         dimension.Values
	Reputation         int
	TrainingEfficiency float64
	RewardMultiplier   float64
}

var archetypeTable = map[Archetype]ArchetypeConfig{
	ArchetypeStartup: {
		Name: "Garage Startup", Budget: 12000, ComputeMax: 5, DataCapacity: 1000,
		Accuracy: 10, Speed: 15, Creativity: 15, Robustness: 10, FitScoreCap: 60,
		Dimensions: dimension.Values{Algorithm: 30, DataProcessing: 20, Stability: 25, UserExperience: 30},
		Reputation: 30, TrainingEfficiency: 1.2, RewardMultiplier: 1.0,
	},
	ArchetypeBigTech: {
		Name: "Big Tech Spinoff", Budget: 25000, ComputeMax: 6, DataCapacity: 2000, GoldenData: 100,
		Accuracy: 15, Speed: 10, Creativity: 10, Robustness: 15, FitScoreCap: 70,
		Dimensions: dimension.Values{Algorithm: 25, DataProcessing: 30, Stability: 35, UserExperience: 25},
		Reputation: 60, TrainingEfficiency: 0.9, RewardMultiplier: 1.2,
	},
	ArchetypeAcademic: {
		Name: "University Lab", Budget: 8000, ComputeMax: 4, DataCapacity: 1000, GoldenData: 50,
		Accuracy: 20, Speed: 10, Creativity: 15, Robustness: 15, FitScoreCap: 70,
		Dimensions: dimension.Values{Algorithm: 40, DataProcessing: 30, Stability: 25, UserExperience: 15},
		Reputation: 50, TrainingEfficiency: 1.0, RewardMultiplier: 0.9,
	},
}

// ArchetypeConfigFor returns the table row for a. ok is false for unknown
// archetypes.
func ArchetypeConfigFor(a Archetype) (ArchetypeConfig, bool) {
	c, ok := archetypeTable[a]
	return c, ok
}

// Difficulty scales the economy and the exam gate.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyNormal    Difficulty = "normal"
	DifficultyHard      Difficulty = "hard"
	DifficultyNightmare Difficulty = "nightmare"
)

// Difficulties lists every difficulty.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyNightmare}

// ThresholdGate is the two-stage dimension requirement for exam payouts:
// Count dimensions must each exceed Value, escalating to EscalatedCount and
// EscalatedValue once EscalateAfter exams have been passed.
type ThresholdGate struct {
	Count          int
	Value          int
	EscalateAfter  int
	EscalatedCount int
	EscalatedValue int
}

// Requirement returns the count and value in force after examsPassed exams.
func (g ThresholdGate) Requirement(examsPassed int) (count, value int) {
	if examsPassed >= g.EscalateAfter {
		return g.EscalatedCount, g.EscalatedValue
	}
	return g.Count, g.Value
}

// DifficultyConfig holds the per-difficulty economy knobs.
type DifficultyConfig struct {
	InitialBudgetMultiplier float64
	TrafficGrowthRate       float64
	FailBudgetPenalty       int
	FailReputationPenalty   int
	Gate                    ThresholdGate
}

var difficultyTable = map[Difficulty]DifficultyConfig{
	DifficultyEasy: {
		InitialBudgetMultiplier: 1.5, TrafficGrowthRate: 0.05,
		FailBudgetPenalty: 500, FailReputationPenalty: 0,
		Gate: ThresholdGate{Count: 1, Value: 20, EscalateAfter: 5, EscalatedCount: 2, EscalatedValue: 30},
	},
	DifficultyNormal: {
		InitialBudgetMultiplier: 1.0, TrafficGrowthRate: 0.08,
		FailBudgetPenalty: 1000, FailReputationPenalty: 5,
		Gate: ThresholdGate{Count: 2, Value: 25, EscalateAfter: 3, EscalatedCount: 3, EscalatedValue: 35},
	},
	DifficultyHard: {
		InitialBudgetMultiplier: 0.8, TrafficGrowthRate: 0.12,
		FailBudgetPenalty: 2000, FailReputationPenalty: 10,
		Gate: ThresholdGate{Count: 2, Value: 30, EscalateAfter: 3, EscalatedCount: 3, EscalatedValue: 45},
	},
	DifficultyNightmare: {
		InitialBudgetMultiplier: 0.6, TrafficGrowthRate: 0.15,
		FailBudgetPenalty: 3000, FailReputationPenalty: 15,
		Gate: ThresholdGate{Count: 3, Value: 35, EscalateAfter: 2, EscalatedCount: 4, EscalatedValue: 50},
	},
}

// DifficultyConfigFor returns the table row for d. ok is false for unknown
// difficulties.
func DifficultyConfigFor(d Difficulty) (DifficultyConfig, bool) {
	c, ok := difficultyTable[d]
	return c, ok
}
