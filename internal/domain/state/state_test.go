package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algotycoon/server/internal/domain/team"
)

func TestCloneDetachesTeam(t *testing.T) {
	s := GameState{Team: []team.Member{{ID: "m1", Traits: []team.TraitType{team.TraitFrugal}}}}

	c := s.Clone()
	c.Team[0].Name = "changed"
	c.Team[0].Traits[0] = team.TraitTester

	assert.Empty(t, s.Team[0].Name)
	assert.Equal(t, team.TraitFrugal, s.Team[0].Traits[0])
}

func TestNormalizeKeepsFitScoreUnderCap(t *testing.T) {
	s := GameState{
		Metrics:   Metrics{Accuracy: 90, Speed: 90, Creativity: 90, Robustness: 90, Entropy: 140, FitScoreCap: 60},
		Resources: Resources{DataCapacity: 1000, DirtyData: 4000, ComputeMax: 12},
		Risks:     Risks{LegalRisk: -3},
	}

	n := s.Normalize()

	assert.Equal(t, 60, n.Metrics.Accuracy)
	assert.Equal(t, 60, n.Metrics.FitScore)
	assert.LessOrEqual(t, n.Metrics.FitScore, n.Metrics.FitScoreCap)
	assert.Equal(t, 100, n.Metrics.Entropy)
	assert.Equal(t, 1000, n.Resources.DirtyData)
	assert.Equal(t, 10, n.Resources.ComputeMax)
	assert.Equal(t, 0, n.Risks.LegalRisk)
}

func TestTurnsUntilExam(t *testing.T) {
	assert.Equal(t, 4, TurnsUntilExam(1))
	assert.Equal(t, 1, TurnsUntilExam(4))
	assert.Equal(t, 0, TurnsUntilExam(5))
	assert.Equal(t, 4, TurnsUntilExam(6))
}

func TestThresholdGateEscalates(t *testing.T) {
	cfg, ok := DifficultyConfigFor(DifficultyNormal)
	require.True(t, ok)

	count, value := cfg.Gate.Requirement(2)
	assert.Equal(t, [2]int{2, 25}, [2]int{count, value})

	count, value = cfg.Gate.Requirement(3)
	assert.Equal(t, [2]int{3, 35}, [2]int{count, value})
}

func TestTablesCoverEveryEnum(t *testing.T) {
	for _, a := range Archetypes {
		_, ok := ArchetypeConfigFor(a)
		assert.True(t, ok, a)
	}
	for _, d := range Difficulties {
		_, ok := DifficultyConfigFor(d)
		assert.True(t, ok, d)
	}
}
