package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Balance holds the tunable game-balance numbers that are not part of the
// static catalogs.
type Balance struct {
	// TesterRefundChance is the chance a tester on the team refunds one
	// compute point after an operation.
	TesterRefundChance float64 `yaml:"tester_refund_chance"`
	ExpPerOperation    int     `yaml:"exp_per_operation"`
	ExpPerExamPassed   int     `yaml:"exp_per_exam_passed"`
	TraitGainChance    float64 `yaml:"trait_gain_chance"`

	VictoryExams    int `yaml:"victory_exams"`
	BankruptcyTurns int `yaml:"bankruptcy_turns"`

	MeltdownEntropyThreshold int `yaml:"meltdown_entropy_threshold"`
	MeltdownRepairCost       int `yaml:"meltdown_repair_cost"`

	EventChance float64 `yaml:"event_chance"`

	// ExamFailReputation is the flat reputation loss on a failed exam, on top
	// of the difficulty penalty.
	ExamFailReputation int `yaml:"exam_fail_reputation"`
}

// DefaultBalance returns the shipped balance.
func DefaultBalance() Balance {
	return Balance{
		TesterRefundChance:       0.20,
		ExpPerOperation:          20,
		ExpPerExamPassed:         100,
		TraitGainChance:          0.25,
		VictoryExams:             10,
		BankruptcyTurns:          2,
		MeltdownEntropyThreshold: 80,
		MeltdownRepairCost:       800,
		EventChance:              0.10,
		ExamFailReputation:       10,
	}
}

// LoadBalance overlays the YAML file at path onto DefaultBalance. An empty
// path or a missing file yields the defaults.
func LoadBalance(path string) (Balance, error) {
	bal := DefaultBalance()
	if path == "" {
		return bal, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return bal, nil
		}
		return Balance{}, fmt.Errorf("read balance: %w", err)
	}

	if err := yaml.Unmarshal(data, &bal); err != nil {
		return Balance{}, fmt.Errorf("parse balance: %w", err)
	}
	if err := bal.Validate(); err != nil {
		return Balance{}, err
	}
	return bal, nil
}

// Validate rejects values the engine cannot run with.
func (b Balance) Validate() error {
	for name, p := range map[string]float64{
		"tester_refund_chance": b.TesterRefundChance,
		"trait_gain_chance":    b.TraitGainChance,
		"event_chance":         b.EventChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("balance %s must be within [0,1], got %v", name, p)
		}
	}
	if b.VictoryExams < 1 {
		return fmt.Errorf("balance victory_exams must be at least 1, got %d", b.VictoryExams)
	}
	if b.BankruptcyTurns < 1 {
		return fmt.Errorf("balance bankruptcy_turns must be at least 1, got %d", b.BankruptcyTurns)
	}
	if b.ExpPerOperation < 0 || b.ExpPerExamPassed < 0 || b.MeltdownRepairCost < 0 || b.ExamFailReputation < 0 {
		return errors.New("balance amounts must not be negative")
	}
	return nil
}
