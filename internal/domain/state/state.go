// Package state defines the GameState aggregate and the archetype and
// difficulty tables that seed it.
// This package is PURE and must NOT import any infrastructure packages.
package state

import (
	"github.com/algotycoon/server/internal/domain/dimension"
	"github.com/algotycoon/server/internal/domain/equipment"
	"github.com/algotycoon/server/internal/domain/rules"
	"github.com/algotycoon/server/internal/domain/team"
)

// ExamInterval is the number of turns between exams.
const ExamInterval = 5

// MaxSideJobsPerTurn throttles side-job operations.
const MaxSideJobsPerTurn = 2

// Status is the lifecycle state of a game.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusGameOver Status = "gameOver"
	StatusVictory  Status = "victory"
)

// Resources are the spendable stocks.
type Resources struct {
	Budget        int `json:"budget"`
	ComputePoints int `json:"computePoints"`
	ComputeMax    int `json:"computeMax"`
	DirtyData     int `json:"dirtyData"`
	GoldenData    int `json:"goldenData"`
	DataCapacity  int `json:"dataCapacity"`
}

// Metrics are the short-run training metrics. The four trained metrics live
// in [0,FitScoreCap]; Entropy and FitScoreCap live in [0,100].
type Metrics struct {
	Accuracy    int `json:"accuracy"`
	Speed       int `json:"speed"`
	Creativity  int `json:"creativity"`
	Robustness  int `json:"robustness"`
	FitScore    int `json:"fitScore"`
	Entropy     int `json:"entropy"`
	FitScoreCap int `json:"fitScoreCap"`
}

// Progress tracks turn and exam bookkeeping.
type Progress struct {
	Turn                      int `json:"turn"`
	TurnsUntilExam            int `json:"turnsUntilExam"`
	ConsecutiveNegativeBudget int `json:"consecutiveNegativeBudget"`
	ExamsPassed               int `json:"examsPassed"`
	SideJobsThisTurn          int `json:"sideJobsThisTurn"`
}

// Risks are the hazards that can hurt the company.
type Risks struct {
	LegalRisk      int  `json:"legalRisk"`
	ServerMeltdown bool `json:"serverMeltdown"`
}

// GameState is the single immutable aggregate. Transitions never modify a
// GameState in place; they Clone and return the copy.
type GameState struct {
	Resources      Resources         `json:"resources"`
	Metrics        Metrics           `json:"metrics"`
	Dimensions     dimension.Values  `json:"dimensions"`
	Equipment      equipment.Loadout `json:"equipment"`
	Progress       Progress          `json:"progress"`
	Risks          Risks             `json:"risks"`
	Team           []team.Member     `json:"team"`
	HiringPool     []team.Member     `json:"hiringPool"`
	Reputation     int               `json:"reputation"`
	Archetype      Archetype         `json:"archetype"`
	Difficulty     Difficulty        `json:"difficulty"`
	GameStatus     Status            `json:"gameStatus"`
	GameOverReason string            `json:"gameOverReason,omitempty"`
}

// Clone returns a deep copy of s.
func (s GameState) Clone() GameState {
	s.Team = team.Clones(s.Team)
	s.HiringPool = team.Clones(s.HiringPool)
	return s
}

// IsTerminal reports whether the game has ended.
func (s GameState) IsTerminal() bool {
	return s.GameStatus == StatusGameOver || s.GameStatus == StatusVictory
}

// Normalize saturates every bounded field and recomputes the fit score.
func (s GameState) Normalize() GameState {
	s.Metrics.FitScoreCap = rules.Clamp(s.Metrics.FitScoreCap, 0, 100)
	s.Metrics.Entropy = rules.Clamp(s.Metrics.Entropy, 0, 100)

	limit := s.Metrics.FitScoreCap
	s.Metrics.Accuracy = rules.Clamp(s.Metrics.Accuracy, 0, limit)
	s.Metrics.Speed = rules.Clamp(s.Metrics.Speed, 0, limit)
	s.Metrics.Creativity = rules.Clamp(s.Metrics.Creativity, 0, limit)
	s.Metrics.Robustness = rules.Clamp(s.Metrics.Robustness, 0, limit)

	s.Resources.ComputeMax = rules.Clamp(s.Resources.ComputeMax, 0, equipment.MaxCompute)
	if s.Resources.ComputePoints < 0 {
		s.Resources.ComputePoints = 0
	}
	if s.Resources.DataCapacity < 0 {
		s.Resources.DataCapacity = 0
	}
	s.Resources.DirtyData = rules.Clamp(s.Resources.DirtyData, 0, s.Resources.DataCapacity)
	s.Resources.GoldenData = rules.Clamp(s.Resources.GoldenData, 0, s.Resources.DataCapacity)

	s.Risks.LegalRisk = rules.Clamp(s.Risks.LegalRisk, 0, 100)
	s.Reputation = rules.Clamp(s.Reputation, 0, 100)
	s.Progress.SideJobsThisTurn = rules.Clamp(s.Progress.SideJobsThisTurn, 0, MaxSideJobsPerTurn)

	return s.RecalculateFitScore()
}

// RecalculateFitScore derives FitScore from the four trained metrics.
func (s GameState) RecalculateFitScore() GameState {
	m := s.Metrics
	s.Metrics.FitScore = rules.Clamp(rules.FitScore(m.Accuracy, m.Speed, m.Creativity, m.Robustness), 0, m.FitScoreCap)
	return s
}

// TurnsUntilExam returns how many turns remain before the next exam once
// turn has started. It is 0 on an exam turn.
func TurnsUntilExam(turn int) int {
	rem := turn % ExamInterval
	if rem == 0 {
		return 0
	}
	return ExamInterval - rem
}

// HasTeamTrait reports whether any member carries trait.
func (s GameState) HasTeamTrait(trait team.TraitType) bool {
	for _, m := range s.Team {
		if m.HasTrait(trait) {
			return true
		}
	}
	return false
}
