// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

import "math"

// floorEpsilon absorbs binary rounding before a floor, so products that are
// mathematically integral do not land one below.
const floorEpsilon = 1e-9

// Floor floors x after absorbing float noise.
func Floor(x float64) int {
	return int(math.Floor(x + floorEpsilon))
}

// Clamp saturates v into [lo,hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FitScore is floor(0.4·accuracy + 0.25·speed + 0.2·creativity + 0.15·robustness).
// Integer weights keep the floor exact.
func FitScore(accuracy, speed, creativity, robustness int) int {
	weighted := 40*accuracy + 25*speed + 20*creativity + 15*robustness
	if weighted < 0 {
		return 0
	}
	return weighted / 100
}

// ScaleTrainingGain scales a positive metric gain by training efficiency and
// the GPU bonus. Non-positive deltas pass through untouched.
func ScaleTrainingGain(delta int, trainingEfficiency, gpuBonus float64) int {
	if delta <= 0 {
		return delta
	}
	return int(math.Round(float64(delta) * trainingEfficiency * (1 + gpuBonus)))
}

// ScaleEntropyGain shrinks a positive entropy gain by the cooling bonus.
func ScaleEntropyGain(delta int, coolingBonus float64) int {
	if delta <= 0 {
		return delta
	}
	return int(math.Round(float64(delta) * (1 - coolingBonus)))
}

// MeltdownChance is the per-turn meltdown probability once entropy is past
// the danger line.
func MeltdownChance(coolingBonus float64) float64 {
	return 0.3 * (1 - coolingBonus)
}

// Dimension bonus tiers.
const (
	DimensionBonusHigh = 1.5
	DimensionBonusMid  = 1.0
	DimensionBonusLow  = 0.6
)

// DimensionThresholds returns the high and mid thresholds in force after
// examsPassed exams. They escalate from 60/40 to 70/50 at five passes.
func DimensionThresholds(examsPassed int) (high, mid int) {
	if examsPassed >= 5 {
		return 70, 50
	}
	return 60, 40
}

// SingleDimensionBonus tiers one focus-dimension value.
func SingleDimensionBonus(value, examsPassed int) float64 {
	high, mid := DimensionThresholds(examsPassed)
	switch {
	case value >= high:
		return DimensionBonusHigh
	case value >= mid:
		return DimensionBonusMid
	default:
		return DimensionBonusLow
	}
}

// DimensionBonus is the mean of the per-dimension bonuses. An empty focus
// set scores the middle tier.
func DimensionBonus(values []int, examsPassed int) float64 {
	if len(values) == 0 {
		return DimensionBonusMid
	}
	sum := 0.0
	for _, v := range values {
		sum += SingleDimensionBonus(v, examsPassed)
	}
	return sum / float64(len(values))
}

// StabilityCoefficient maps meltdown and entropy to the exam stability factor.
func StabilityCoefficient(serverMeltdown bool, entropy int) float64 {
	switch {
	case serverMeltdown:
		return 0
	case entropy <= 40:
		return 1.2
	case entropy <= 80:
		return 0.8
	default:
		return 0.5
	}
}

// AdjustedTraffic compounds base traffic by the difficulty growth rate.
func AdjustedTraffic(baseTraffic int, growthRate float64, examsPassed int) int {
	return Floor(float64(baseTraffic) * math.Pow(1+growthRate, float64(examsPassed)))
}

// RewardMultiplier compounds +10% per exam already passed.
func RewardMultiplier(examsPassed int) float64 {
	return math.Pow(1.10, float64(examsPassed))
}

// ReputationBonus rewards a well-known company.
func ReputationBonus(reputation int) float64 {
	if reputation >= 70 {
		return 1.1
	}
	return 1.0
}
