package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitScoreFloors(t *testing.T) {
	assert.Equal(t, 0, FitScore(0, 0, 0, 0))
	assert.Equal(t, 100, FitScore(100, 100, 100, 100))
	// 0.4*11 + 0.25*10 + 0.2*10 + 0.15*10 = 10.4
	assert.Equal(t, 10, FitScore(11, 10, 10, 10))
	// 0.4*50 + 0.25*50 + 0.2*50 + 0.15*50 = 50
	assert.Equal(t, 50, FitScore(50, 50, 50, 50))
}

func TestSingleDimensionBonusTiers(t *testing.T) {
	cases := []struct {
		value, exams int
		want         float64
	}{
		{60, 0, 1.5},
		{59, 0, 1.0},
		{40, 4, 1.0},
		{39, 4, 0.6},
		{69, 5, 1.0},
		{70, 5, 1.5},
		{50, 7, 1.0},
		{49, 7, 0.6},
		{0, 0, 0.6},
		{100, 9, 1.5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SingleDimensionBonus(tc.value, tc.exams), "value %d exams %d", tc.value, tc.exams)
	}
}

func TestSingleDimensionBonusOnlyThreeTiers(t *testing.T) {
	for exams := 0; exams < 8; exams++ {
		for v := 0; v <= 100; v++ {
			assert.Contains(t, []float64{0.6, 1.0, 1.5}, SingleDimensionBonus(v, exams))
		}
	}
}

func TestDimensionBonusIsMean(t *testing.T) {
	assert.InDelta(t, 1.05, DimensionBonus([]int{80, 10}, 0), 1e-9)
	assert.Equal(t, 1.5, DimensionBonus([]int{65}, 0))
}

func TestStabilityCoefficientBoundaries(t *testing.T) {
	assert.Equal(t, 0.0, StabilityCoefficient(true, 10))
	assert.Equal(t, 1.2, StabilityCoefficient(false, 39))
	assert.Equal(t, 1.2, StabilityCoefficient(false, 40))
	assert.Equal(t, 0.8, StabilityCoefficient(false, 80))
	assert.Equal(t, 0.5, StabilityCoefficient(false, 81))
}

func TestAdjustedTrafficCompounds(t *testing.T) {
	assert.Equal(t, 10000, AdjustedTraffic(10000, 0.08, 0))
	assert.Equal(t, 10800, AdjustedTraffic(10000, 0.08, 1))
	assert.Equal(t, 11664, AdjustedTraffic(10000, 0.08, 2))
}

func TestRewardAndReputationMultipliers(t *testing.T) {
	assert.Equal(t, 1.0, RewardMultiplier(0))
	assert.InDelta(t, 1.21, RewardMultiplier(2), 1e-9)
	assert.Equal(t, 1.1, ReputationBonus(70))
	assert.Equal(t, 1.0, ReputationBonus(69))
}

func TestScaling(t *testing.T) {
	assert.Equal(t, 8, ScaleEntropyGain(8, 0))
	assert.Equal(t, 7, ScaleEntropyGain(8, 0.1))
	assert.Equal(t, -15, ScaleEntropyGain(-15, 0.35))
	assert.Equal(t, 4, ScaleTrainingGain(3, 1.2, 0.1))
	assert.Equal(t, -2, ScaleTrainingGain(-2, 1.2, 0.35))
}

func TestClampAndFloor(t *testing.T) {
	assert.Equal(t, 0, Clamp(-4, 0, 100))
	assert.Equal(t, 100, Clamp(140, 0, 100))
	assert.Equal(t, 9000, Floor(10000*0.5*1.2*1.5))
	assert.Equal(t, 2, Floor(2.9999))
}

func TestMeltdownChance(t *testing.T) {
	assert.InDelta(t, 0.3, MeltdownChance(0), 1e-12)
	assert.InDelta(t, 0.195, MeltdownChance(0.35), 1e-12)
}
